package recommend

import "invoice-template-workers/internal/models"

// FallbackTemplateID is suggested when nothing in a partial profile maps to a template.
const FallbackTemplateID = "modern-professional"

// Quick associations used while the questionnaire is still in progress.
// They overlap with the scoring tables but are maintained separately.
var (
	businessTypeSuggestions = map[models.BusinessType][]string{
		models.BusinessFreelancer:    {"creative-bold", "minimal-clean"},
		models.BusinessSmallBusiness: {"modern-professional", "classic-corporate"},
		models.BusinessAgency:        {"creative-bold", "modern-professional"},
		models.BusinessConsultant:    {"minimal-clean", "modern-professional"},
		models.BusinessEcommerce:     {"modern-professional", "creative-bold"},
		models.BusinessNonprofit:     {"minimal-clean", "classic-corporate"},
	}

	industrySuggestions = map[models.Industry][]string{
		models.IndustryDesign:       {"creative-bold"},
		models.IndustryMarketing:    {"creative-bold", "modern-professional"},
		models.IndustryTechnology:   {"modern-professional", "minimal-clean"},
		models.IndustryConsulting:   {"modern-professional"},
		models.IndustryLegal:        {"classic-corporate"},
		models.IndustryHealthcare:   {"classic-corporate", "minimal-clean"},
		models.IndustryConstruction: {"classic-corporate"},
		models.IndustryRetail:       {"modern-professional", "creative-bold"},
	}
)

// PersonalizedSuggestions returns a deduplicated shortlist of template IDs
// from the business type and industry of a partial profile, business type
// first. It does not score.
func (e *Engine) PersonalizedSuggestions(partial models.UserProfile) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(ids []string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	add(businessTypeSuggestions[partial.BusinessType])
	add(industrySuggestions[partial.Industry])

	if len(out) == 0 {
		return []string{FallbackTemplateID}
	}
	return out
}
