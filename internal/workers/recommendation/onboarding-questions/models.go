// internal/workers/recommendation/onboarding-questions/models.go
package onboardingquestions

import "invoice-template-workers/internal/models"

type Input struct {
	Profile models.UserProfile `json:"profile"`
}

type Output struct {
	Questions []models.Question `json:"questions"`
	Complete  bool              `json:"complete"`
	// Presets lets the caller skip the questionnaire entirely.
	Presets map[string]models.UserProfile `json:"presets"`
}
