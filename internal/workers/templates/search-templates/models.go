// internal/workers/templates/search-templates/models.go
package searchtemplates

import (
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"
)

type Input struct {
	Text     string                  `json:"text,omitempty"`
	Category models.TemplateCategory `json:"category,omitempty"`
	Size     int                     `json:"size,omitempty"`
}

type Output struct {
	Hits  []templates.SearchHit `json:"hits"`
	Total int64                 `json:"total"`
	// Source is "index" or "registry".
	Source string `json:"source"`
}
