package templates

import "invoice-template-workers/internal/models"

// ConfigValidation is the advisory result of ValidateConfig.
type ConfigValidation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

const (
	ErrLayoutRequired       = "Layout is required"
	ErrPrimaryColorRequired = "Primary color is required"
	ErrHeadingFontRequired  = "Heading font is required"
)

// ValidateConfig checks the minimum a template needs to render. It never
// mutates and callers decide whether to act on the result.
func ValidateConfig(cfg models.TemplateConfig) ConfigValidation {
	var errs []string
	if cfg.Layout == "" {
		errs = append(errs, ErrLayoutRequired)
	}
	if cfg.Colors.Primary == "" {
		errs = append(errs, ErrPrimaryColorRequired)
	}
	if cfg.Fonts.Heading == "" {
		errs = append(errs, ErrHeadingFontRequired)
	}
	return ConfigValidation{Valid: len(errs) == 0, Errors: errs}
}

// ValidateConfig is the registry-bound form of the package function.
func (r *Registry) ValidateConfig(cfg models.TemplateConfig) ConfigValidation {
	return ValidateConfig(cfg)
}
