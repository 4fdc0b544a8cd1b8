package recommend

import "invoice-template-workers/internal/models"

const maxGoalSelections = 3

var questionBank = []models.Question{
	{
		ID:       "business-type",
		Field:    models.AttrBusinessType,
		Title:    "What best describes your business?",
		Type:     models.QuestionSingle,
		Required: true,
		Options: []models.QuestionOption{
			{Value: string(models.BusinessFreelancer), Label: "Freelancer", Description: "Independent professional working with clients"},
			{Value: string(models.BusinessSmallBusiness), Label: "Small business", Description: "A team serving customers locally or online"},
			{Value: string(models.BusinessAgency), Label: "Agency", Description: "Creative, marketing or development agency"},
			{Value: string(models.BusinessConsultant), Label: "Consultant", Description: "Advisory or professional services"},
			{Value: string(models.BusinessEcommerce), Label: "E-commerce", Description: "Selling products online"},
			{Value: string(models.BusinessNonprofit), Label: "Nonprofit", Description: "Charity or community organization"},
		},
	},
	{
		ID:       "industry",
		Field:    models.AttrIndustry,
		Title:    "Which industry are you in?",
		Type:     models.QuestionSingle,
		Required: true,
		Options: []models.QuestionOption{
			{Value: string(models.IndustryDesign), Label: "Design"},
			{Value: string(models.IndustryTechnology), Label: "Technology"},
			{Value: string(models.IndustryConsulting), Label: "Consulting"},
			{Value: string(models.IndustryMarketing), Label: "Marketing"},
			{Value: string(models.IndustryConstruction), Label: "Construction"},
			{Value: string(models.IndustryHealthcare), Label: "Healthcare"},
			{Value: string(models.IndustryLegal), Label: "Legal"},
			{Value: string(models.IndustryRetail), Label: "Retail"},
			{Value: string(models.IndustryOther), Label: "Other"},
		},
	},
	{
		ID:       "design-preference",
		Field:    models.AttrDesignPreference,
		Title:    "Which design style do you prefer?",
		Type:     models.QuestionSingle,
		Required: true,
		Options: []models.QuestionOption{
			{Value: string(models.DesignModern), Label: "Modern", Description: "Clean lines with a contemporary feel"},
			{Value: string(models.DesignClassic), Label: "Classic", Description: "Traditional and formal"},
			{Value: string(models.DesignMinimal), Label: "Minimal", Description: "Only what matters"},
			{Value: string(models.DesignCreative), Label: "Creative", Description: "Bold colors and layouts"},
		},
	},
	{
		ID:            "goals",
		Field:         models.AttrGoals,
		Title:         "What do you want your invoices to achieve?",
		Description:   "Pick up to three.",
		Type:          models.QuestionMultiple,
		Required:      true,
		MaxSelections: maxGoalSelections,
		Options: []models.QuestionOption{
			{Value: string(models.GoalLookProfessional), Label: "Look professional"},
			{Value: string(models.GoalStandOut), Label: "Stand out"},
			{Value: string(models.GoalSaveTime), Label: "Save time"},
			{Value: string(models.GoalGetPaidFaster), Label: "Get paid faster"},
			{Value: string(models.GoalBuildBrand), Label: "Build my brand"},
			{Value: string(models.GoalStayOrganized), Label: "Stay organized"},
		},
	},
}

// OnboardingQuestions returns the questions whose field is still empty in
// partial, in fixed order: business type, industry, design preference, goals.
func (e *Engine) OnboardingQuestions(partial models.UserProfile) []models.Question {
	var out []models.Question
	for _, q := range questionBank {
		if partial.Answered(q.Field) {
			continue
		}
		q.Options = append([]models.QuestionOption(nil), q.Options...)
		out = append(out, q)
	}
	return out
}

// OnboardingComplete reports whether every onboarding question is answered.
func (e *Engine) OnboardingComplete(partial models.UserProfile) bool {
	return len(e.OnboardingQuestions(partial)) == 0
}
