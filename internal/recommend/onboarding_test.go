package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-template-workers/internal/models"
)

// ==========================
// Personalized Suggestions
// ==========================

func TestEngine_PersonalizedSuggestions(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	tests := []struct {
		name    string
		partial models.UserProfile
		want    []string
	}{
		{
			name:    "business type only",
			partial: models.UserProfile{BusinessType: models.BusinessConsultant},
			want:    []string{"minimal-clean", "modern-professional"},
		},
		{
			name:    "industry only",
			partial: models.UserProfile{Industry: models.IndustryLegal},
			want:    []string{"classic-corporate"},
		},
		{
			name:    "business type first and deduplicated",
			partial: models.UserProfile{BusinessType: models.BusinessFreelancer, Industry: models.IndustryDesign},
			want:    []string{"creative-bold", "minimal-clean"},
		},
		{
			name:    "industry adds new ids after business type",
			partial: models.UserProfile{BusinessType: models.BusinessNonprofit, Industry: models.IndustryMarketing},
			want:    []string{"minimal-clean", "classic-corporate", "creative-bold", "modern-professional"},
		},
		{
			name:    "nothing known falls back",
			partial: models.UserProfile{Industry: models.IndustryOther},
			want:    []string{FallbackTemplateID},
		},
		{
			name:    "empty profile falls back",
			partial: models.UserProfile{},
			want:    []string{"modern-professional"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.PersonalizedSuggestions(tt.partial))
		})
	}
}

// ==========================
// Onboarding Questions
// ==========================

func questionFields(qs []models.Question) []models.ProfileAttribute {
	out := make([]models.ProfileAttribute, len(qs))
	for i, q := range qs {
		out[i] = q.Field
	}
	return out
}

func TestEngine_OnboardingQuestions_SkipsAnswered(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	qs := engine.OnboardingQuestions(models.UserProfile{BusinessType: models.BusinessFreelancer})
	assert.Equal(t, []models.ProfileAttribute{
		models.AttrIndustry,
		models.AttrDesignPreference,
		models.AttrGoals,
	}, questionFields(qs))
}

func TestEngine_OnboardingQuestions_Order(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	tests := []struct {
		name    string
		partial models.UserProfile
		want    []models.ProfileAttribute
	}{
		{
			name:    "empty profile",
			partial: models.UserProfile{},
			want:    []models.ProfileAttribute{models.AttrBusinessType, models.AttrIndustry, models.AttrDesignPreference, models.AttrGoals},
		},
		{
			name:    "only goals answered",
			partial: models.UserProfile{Goals: []models.Goal{models.GoalSaveTime}},
			want:    []models.ProfileAttribute{models.AttrBusinessType, models.AttrIndustry, models.AttrDesignPreference},
		},
		{
			name:    "fields outside the bank do not matter",
			partial: models.UserProfile{Industry: models.IndustryRetail, Budget: models.BudgetPremium},
			want:    []models.ProfileAttribute{models.AttrBusinessType, models.AttrDesignPreference, models.AttrGoals},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, questionFields(engine.OnboardingQuestions(tt.partial)))
		})
	}
}

func TestEngine_OnboardingQuestions_Complete(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	p, ok := engine.Preset("consultant")
	require.True(t, ok)

	assert.Empty(t, engine.OnboardingQuestions(p))
	assert.True(t, engine.OnboardingComplete(p))
	assert.False(t, engine.OnboardingComplete(models.UserProfile{}))
}

func TestEngine_OnboardingQuestions_Shape(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	qs := engine.OnboardingQuestions(models.UserProfile{})
	require.Len(t, qs, 4)

	for _, q := range qs {
		assert.True(t, q.Required, q.ID)
		assert.NotEmpty(t, q.Options, q.ID)
	}
	assert.Len(t, qs[0].Options, 6)
	assert.Len(t, qs[1].Options, 9)
	assert.Len(t, qs[2].Options, 4)

	goals := qs[3]
	assert.Equal(t, models.QuestionMultiple, goals.Type)
	assert.Equal(t, 3, goals.MaxSelections)
	assert.Len(t, goals.Options, 6)
	assert.Equal(t, models.QuestionSingle, qs[0].Type)
	assert.Zero(t, qs[0].MaxSelections)
}

func TestEngine_OnboardingQuestions_ReturnsCopies(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	first := engine.OnboardingQuestions(models.UserProfile{})
	first[0].Options[0].Label = "changed"

	second := engine.OnboardingQuestions(models.UserProfile{})
	assert.Equal(t, "Freelancer", second[0].Options[0].Label)
}

// ==========================
// Presets and Defaults
// ==========================

func TestEngine_QuickStartPresets(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	presets := engine.QuickStartPresets()
	assert.Len(t, presets, 4)
	assert.Equal(t, []string{"agency", "consultant", "freelance-designer", "small-business"}, engine.PresetNames())

	for name, p := range presets {
		assert.Empty(t, p.Missing(), name)
	}

	presets["agency"].Goals[0] = models.GoalSaveTime
	again, ok := engine.Preset("agency")
	require.True(t, ok)
	assert.Equal(t, models.GoalBuildBrand, again.Goals[0])

	_, ok = engine.Preset("unknown")
	assert.False(t, ok)
}

func TestEngine_Preset_FreelanceDesignerRanksCreativeFirst(t *testing.T) {
	engine := NewEngine(DefaultScoringTables())

	p, ok := engine.Preset("freelance-designer")
	require.True(t, ok)

	recs := engine.Recommend(p)
	assert.Equal(t, "creative-bold", recs[0].TemplateID)
}

func TestWithDefaults(t *testing.T) {
	filled := WithDefaults(models.UserProfile{BusinessType: models.BusinessAgency})

	assert.Equal(t, models.BusinessAgency, filled.BusinessType)
	assert.Equal(t, models.IndustryTechnology, filled.Industry)
	assert.Equal(t, models.SizeSmall, filled.CompanySize)
	assert.Equal(t, models.DesignModern, filled.DesignPreference)
	assert.Equal(t, models.ColorNeutral, filled.ColorPreference)
	assert.Equal(t, models.AudienceClients, filled.TargetAudience)
	assert.Equal(t, models.FrequencyMonthly, filled.InvoiceFrequency)
	assert.Equal(t, models.BudgetBalanced, filled.Budget)
	assert.Equal(t, models.ExperienceIntermediate, filled.Experience)
	assert.Empty(t, filled.Goals)
}
