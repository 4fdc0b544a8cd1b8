// internal/workers/templates/transfer-template/models.go
package transfertemplate

import (
	"encoding/json"

	"invoice-template-workers/internal/models"
)

type Operation string

const (
	OpExport Operation = "export"
	OpImport Operation = "import"
)

type Input struct {
	Operation  Operation `json:"operation"`
	TemplateID string    `json:"templateId,omitempty"`
	// Payload is an export document embedded as JSON.
	Payload json.RawMessage `json:"payload,omitempty"`
	// FileContent is the raw text of an uploaded export file. Used when
	// Payload is empty.
	FileContent string `json:"fileContent,omitempty"`
}

type Output struct {
	Payload  *models.TemplatePayload `json:"payload,omitempty"`
	Template *models.Template        `json:"template,omitempty"`
}
