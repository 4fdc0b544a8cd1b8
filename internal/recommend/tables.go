package recommend

import "invoice-template-workers/internal/models"

// ScoreKey addresses one weight in a scoring table.
type ScoreKey struct {
	Attribute models.ProfileAttribute
	Value     string
}

// ScoringTable holds the hand-authored relevance weights of one template.
// Missing keys weigh 0.
type ScoringTable struct {
	TemplateID string
	Category   models.TemplateCategory
	Weights    map[ScoreKey]float64
}

// Weight returns the weight for attr=value, or 0 when the table has no entry.
func (t ScoringTable) Weight(attr models.ProfileAttribute, value string) float64 {
	return t.Weights[ScoreKey{Attribute: attr, Value: value}]
}

// NewScoringTable flattens nested attribute -> value -> weight data.
func NewScoringTable(templateID string, category models.TemplateCategory, weights map[models.ProfileAttribute]map[string]float64) ScoringTable {
	flat := make(map[ScoreKey]float64)
	for attr, values := range weights {
		for value, w := range values {
			flat[ScoreKey{Attribute: attr, Value: value}] = w
		}
	}
	return ScoringTable{TemplateID: templateID, Category: category, Weights: flat}
}

// DefaultScoringTables returns the weights for the built-in templates, in
// the registry's seed order.
func DefaultScoringTables() []ScoringTable {
	return []ScoringTable{
		NewScoringTable("modern-professional", models.CategoryProfessional, map[models.ProfileAttribute]map[string]float64{
			models.AttrBusinessType: {
				"small-business": 0.9, "consultant": 0.85, "agency": 0.7, "freelancer": 0.6,
				"ecommerce": 0.8, "nonprofit": 0.6,
			},
			models.AttrIndustry: {
				"technology": 0.9, "consulting": 0.9, "legal": 0.7, "healthcare": 0.7,
				"design": 0.5, "marketing": 0.6, "construction": 0.6, "retail": 0.6,
			},
			models.AttrCompanySize:      {"small": 0.9, "medium": 0.85, "large": 0.7, "solo": 0.6},
			models.AttrDesignPreference: {"modern": 1.0, "minimal": 0.6, "classic": 0.5, "creative": 0.4},
			models.AttrColorPreference:  {"neutral": 0.8, "branded": 0.7, "monochrome": 0.6, "colorful": 0.4},
			models.AttrTargetAudience:   {"businesses": 0.9, "clients": 0.8, "government": 0.7, "consumers": 0.5},
			models.AttrInvoiceFrequency: {"monthly": 0.85, "weekly": 0.7, "project-based": 0.7, "occasional": 0.5},
			models.AttrBudget:           {"balanced": 0.8, "value-focused": 0.7, "premium": 0.7, "cost-conscious": 0.5},
			models.AttrExperience:       {"intermediate": 0.8, "expert": 0.75, "beginner": 0.7},
			models.AttrGoals: {
				"look-professional": 1.0, "get-paid-faster": 0.7, "stay-organized": 0.7,
				"save-time": 0.6, "build-brand": 0.6, "stand-out": 0.5,
			},
		}),
		NewScoringTable("minimal-clean", models.CategoryMinimal, map[models.ProfileAttribute]map[string]float64{
			models.AttrBusinessType: {
				"consultant": 0.9, "freelancer": 0.85, "small-business": 0.6, "agency": 0.5,
				"ecommerce": 0.5, "nonprofit": 0.8,
			},
			models.AttrIndustry: {
				"technology": 0.85, "consulting": 0.8, "design": 0.7, "legal": 0.6,
				"healthcare": 0.6, "construction": 0.5, "retail": 0.5, "marketing": 0.4,
			},
			models.AttrCompanySize:      {"solo": 0.9, "small": 0.7, "medium": 0.5, "large": 0.3},
			models.AttrDesignPreference: {"minimal": 1.0, "modern": 0.7, "classic": 0.4, "creative": 0.2},
			models.AttrColorPreference:  {"monochrome": 0.95, "neutral": 0.9, "branded": 0.4, "colorful": 0.2},
			models.AttrTargetAudience:   {"clients": 0.7, "businesses": 0.7, "consumers": 0.6, "government": 0.5},
			models.AttrInvoiceFrequency: {"weekly": 0.8, "monthly": 0.8, "occasional": 0.7, "project-based": 0.6},
			models.AttrBudget:           {"cost-conscious": 0.9, "value-focused": 0.8, "balanced": 0.7, "premium": 0.4},
			models.AttrExperience:       {"beginner": 0.85, "intermediate": 0.7, "expert": 0.6},
			models.AttrGoals: {
				"save-time": 0.95, "stay-organized": 0.9, "get-paid-faster": 0.8,
				"look-professional": 0.7, "build-brand": 0.3, "stand-out": 0.2,
			},
		}),
		NewScoringTable("creative-bold", models.CategoryCreative, map[models.ProfileAttribute]map[string]float64{
			models.AttrBusinessType: {
				"freelancer": 0.9, "agency": 0.85, "small-business": 0.5, "consultant": 0.4,
				"ecommerce": 0.75, "nonprofit": 0.4,
			},
			models.AttrIndustry: {
				"design": 0.95, "marketing": 0.9, "technology": 0.6, "retail": 0.6, "consulting": 0.3,
			},
			models.AttrCompanySize:      {"solo": 0.8, "small": 0.7, "medium": 0.4, "large": 0.2},
			models.AttrDesignPreference: {"creative": 1.0, "modern": 0.6, "minimal": 0.2, "classic": 0.1},
			models.AttrColorPreference:  {"colorful": 0.95, "branded": 0.85, "neutral": 0.3, "monochrome": 0.1},
			models.AttrTargetAudience:   {"consumers": 0.8, "clients": 0.75, "businesses": 0.5, "government": 0.1},
			models.AttrInvoiceFrequency: {"project-based": 0.85, "occasional": 0.6, "monthly": 0.5, "weekly": 0.4},
			models.AttrBudget:           {"premium": 0.8, "value-focused": 0.7, "balanced": 0.6, "cost-conscious": 0.4},
			models.AttrExperience:       {"expert": 0.8, "intermediate": 0.7, "beginner": 0.5},
			models.AttrGoals: {
				"stand-out": 1.0, "build-brand": 0.95, "look-professional": 0.6,
				"get-paid-faster": 0.5, "save-time": 0.4, "stay-organized": 0.4,
			},
		}),
		NewScoringTable("classic-corporate", models.CategoryCorporate, map[models.ProfileAttribute]map[string]float64{
			models.AttrBusinessType: {
				"small-business": 0.7, "consultant": 0.7, "agency": 0.6, "freelancer": 0.3,
				"ecommerce": 0.4, "nonprofit": 0.75,
			},
			models.AttrIndustry: {
				"legal": 0.95, "construction": 0.85, "healthcare": 0.85, "consulting": 0.75,
				"retail": 0.6, "technology": 0.5, "marketing": 0.3, "design": 0.2,
			},
			models.AttrCompanySize:      {"large": 0.95, "medium": 0.9, "small": 0.6, "solo": 0.3},
			models.AttrDesignPreference: {"classic": 1.0, "modern": 0.5, "minimal": 0.5, "creative": 0.1},
			models.AttrColorPreference:  {"neutral": 0.85, "monochrome": 0.8, "branded": 0.6, "colorful": 0.2},
			models.AttrTargetAudience:   {"government": 0.95, "businesses": 0.85, "clients": 0.6, "consumers": 0.4},
			models.AttrInvoiceFrequency: {"monthly": 0.9, "weekly": 0.75, "project-based": 0.5, "occasional": 0.5},
			models.AttrBudget:           {"premium": 0.8, "balanced": 0.7, "value-focused": 0.5, "cost-conscious": 0.4},
			models.AttrExperience:       {"expert": 0.85, "intermediate": 0.6, "beginner": 0.4},
			models.AttrGoals: {
				"look-professional": 0.9, "stay-organized": 0.8, "get-paid-faster": 0.6,
				"save-time": 0.5, "build-brand": 0.5, "stand-out": 0.2,
			},
		}),
	}
}
