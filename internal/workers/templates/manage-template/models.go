// internal/workers/templates/manage-template/models.go
package managetemplate

import (
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"
)

type Operation string

const (
	OpGet       Operation = "get"
	OpList      Operation = "list"
	OpCreate    Operation = "create"
	OpUpdate    Operation = "update"
	OpDelete    Operation = "delete"
	OpDuplicate Operation = "duplicate"
	OpValidate  Operation = "validate"
)

type Input struct {
	Operation  Operation               `json:"operation"`
	TemplateID string                  `json:"templateId,omitempty"`
	Name       string                  `json:"name,omitempty"`
	Category   models.TemplateCategory `json:"category,omitempty"`
	// Config is merged over the default config on create.
	Config *models.ConfigPatch   `json:"config,omitempty"`
	Patch  *models.TemplatePatch `json:"patch,omitempty"`
	// TemplateConfig is checked by validate; without it the stored config of
	// TemplateID is checked instead.
	TemplateConfig *models.TemplateConfig `json:"templateConfig,omitempty"`
}

type Output struct {
	Template   *models.Template             `json:"template,omitempty"`
	Templates  []models.Template            `json:"templates,omitempty"`
	Deleted    bool                         `json:"deleted,omitempty"`
	Validation *templates.ConfigValidation `json:"validation,omitempty"`
}
