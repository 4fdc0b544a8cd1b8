package models

type MatchType string

const (
	MatchPerfect   MatchType = "perfect"
	MatchExcellent MatchType = "excellent"
	MatchGood      MatchType = "good"
	MatchDecent    MatchType = "decent"
)

// Recommendation is one scored template for a profile.
type Recommendation struct {
	TemplateID string           `json:"templateId"`
	Score      float64          `json:"score"`
	Confidence float64          `json:"confidence"`
	Reasons    []string         `json:"reasons"`
	Category   TemplateCategory `json:"category"`
	MatchType  MatchType        `json:"matchType"`
}

type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

type QuestionOption struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Question is one onboarding prompt for a profile attribute.
type Question struct {
	ID            string           `json:"id"`
	Field         ProfileAttribute `json:"field"`
	Title         string           `json:"title"`
	Description   string           `json:"description,omitempty"`
	Type          QuestionType     `json:"type"`
	Options       []QuestionOption `json:"options"`
	Required      bool             `json:"required"`
	MaxSelections int              `json:"maxSelections,omitempty"`
}
