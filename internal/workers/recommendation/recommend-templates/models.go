// internal/workers/recommendation/recommend-templates/models.go
package recommendtemplates

import "invoice-template-workers/internal/models"

// ProfileSource tells where the scored profile came from.
type ProfileSource string

const (
	SourceInput  ProfileSource = "input"
	SourcePreset ProfileSource = "preset"
	SourceStored ProfileSource = "stored"
)

// Input takes the first of Profile, Preset and UserID that is set.
type Input struct {
	UserID  string              `json:"userId,omitempty"`
	Profile *models.UserProfile `json:"profile,omitempty"`
	Preset  string              `json:"preset,omitempty"`
	Limit   int                 `json:"limit,omitempty"`
}

type Output struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	TopTemplateID   string                  `json:"topTemplateId"`
	Cached          bool                    `json:"cached"`
	ProfileSource   ProfileSource           `json:"profileSource"`
}
