// internal/workers/recommendation/suggest-templates/models.go
package suggesttemplates

import "invoice-template-workers/internal/models"

type Input struct {
	Profile models.UserProfile `json:"profile"`
}

type Output struct {
	TemplateIDs []string `json:"templateIds"`
}
