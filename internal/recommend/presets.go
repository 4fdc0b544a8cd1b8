package recommend

import (
	"sort"

	"invoice-template-workers/internal/models"
)

var quickStartPresets = map[string]models.UserProfile{
	"freelance-designer": {
		BusinessType:     models.BusinessFreelancer,
		Industry:         models.IndustryDesign,
		CompanySize:      models.SizeSolo,
		DesignPreference: models.DesignCreative,
		ColorPreference:  models.ColorColorful,
		TargetAudience:   models.AudienceClients,
		InvoiceFrequency: models.FrequencyProjectBased,
		Budget:           models.BudgetValueFocused,
		Experience:       models.ExperienceIntermediate,
		Goals:            []models.Goal{models.GoalStandOut, models.GoalBuildBrand},
	},
	"small-business": {
		BusinessType:     models.BusinessSmallBusiness,
		Industry:         models.IndustryRetail,
		CompanySize:      models.SizeSmall,
		DesignPreference: models.DesignModern,
		ColorPreference:  models.ColorBranded,
		TargetAudience:   models.AudienceConsumers,
		InvoiceFrequency: models.FrequencyMonthly,
		Budget:           models.BudgetBalanced,
		Experience:       models.ExperienceBeginner,
		Goals:            []models.Goal{models.GoalLookProfessional, models.GoalGetPaidFaster},
	},
	"consultant": {
		BusinessType:     models.BusinessConsultant,
		Industry:         models.IndustryConsulting,
		CompanySize:      models.SizeSolo,
		DesignPreference: models.DesignMinimal,
		ColorPreference:  models.ColorNeutral,
		TargetAudience:   models.AudienceBusinesses,
		InvoiceFrequency: models.FrequencyMonthly,
		Budget:           models.BudgetValueFocused,
		Experience:       models.ExperienceExpert,
		Goals:            []models.Goal{models.GoalLookProfessional, models.GoalSaveTime},
	},
	"agency": {
		BusinessType:     models.BusinessAgency,
		Industry:         models.IndustryMarketing,
		CompanySize:      models.SizeMedium,
		DesignPreference: models.DesignCreative,
		ColorPreference:  models.ColorBranded,
		TargetAudience:   models.AudienceBusinesses,
		InvoiceFrequency: models.FrequencyProjectBased,
		Budget:           models.BudgetPremium,
		Experience:       models.ExperienceExpert,
		Goals:            []models.Goal{models.GoalBuildBrand, models.GoalStandOut, models.GoalGetPaidFaster},
	},
}

// defaultProfile fills whatever a caller left unanswered before a full recommendation.
var defaultProfile = models.UserProfile{
	BusinessType:     models.BusinessSmallBusiness,
	Industry:         models.IndustryTechnology,
	CompanySize:      models.SizeSmall,
	DesignPreference: models.DesignModern,
	ColorPreference:  models.ColorNeutral,
	TargetAudience:   models.AudienceClients,
	InvoiceFrequency: models.FrequencyMonthly,
	Budget:           models.BudgetBalanced,
	Experience:       models.ExperienceIntermediate,
}

// QuickStartPresets returns a copy of the preset profiles keyed by name.
func (e *Engine) QuickStartPresets() map[string]models.UserProfile {
	out := make(map[string]models.UserProfile, len(quickStartPresets))
	for name, p := range quickStartPresets {
		out[name] = copyProfile(p)
	}
	return out
}

func (e *Engine) Preset(name string) (models.UserProfile, bool) {
	p, ok := quickStartPresets[name]
	if !ok {
		return models.UserProfile{}, false
	}
	return copyProfile(p), true
}

// PresetNames lists the preset names in lexical order.
func (e *Engine) PresetNames() []string {
	names := make([]string, 0, len(quickStartPresets))
	for name := range quickStartPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithDefaults returns p with every empty singular attribute set to its
// default. Goals are left as given.
func WithDefaults(p models.UserProfile) models.UserProfile {
	out := copyProfile(p)
	if out.BusinessType == "" {
		out.BusinessType = defaultProfile.BusinessType
	}
	if out.Industry == "" {
		out.Industry = defaultProfile.Industry
	}
	if out.CompanySize == "" {
		out.CompanySize = defaultProfile.CompanySize
	}
	if out.DesignPreference == "" {
		out.DesignPreference = defaultProfile.DesignPreference
	}
	if out.ColorPreference == "" {
		out.ColorPreference = defaultProfile.ColorPreference
	}
	if out.TargetAudience == "" {
		out.TargetAudience = defaultProfile.TargetAudience
	}
	if out.InvoiceFrequency == "" {
		out.InvoiceFrequency = defaultProfile.InvoiceFrequency
	}
	if out.Budget == "" {
		out.Budget = defaultProfile.Budget
	}
	if out.Experience == "" {
		out.Experience = defaultProfile.Experience
	}
	return out
}

func copyProfile(p models.UserProfile) models.UserProfile {
	if p.Goals != nil {
		p.Goals = append([]models.Goal(nil), p.Goals...)
	}
	return p
}
