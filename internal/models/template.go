// internal/models/template.go
package models

import "time"

type TemplateOrigin string

const (
	OriginBuiltIn  TemplateOrigin = "built-in"
	OriginCustom   TemplateOrigin = "custom"
	OriginImported TemplateOrigin = "imported"
)

type TemplateCategory string

const (
	CategoryProfessional TemplateCategory = "professional"
	CategoryCreative     TemplateCategory = "creative"
	CategoryMinimal      TemplateCategory = "minimal"
	CategoryCorporate    TemplateCategory = "corporate"
)

// Valid reports whether c is one of the known categories.
func (c TemplateCategory) Valid() bool {
	switch c {
	case CategoryProfessional, CategoryCreative, CategoryMinimal, CategoryCorporate:
		return true
	}
	return false
}

type Layout string

const (
	LayoutModern   Layout = "modern"
	LayoutClassic  Layout = "classic"
	LayoutMinimal  Layout = "minimal"
	LayoutCreative Layout = "creative"
)

type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

type FontSet struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Accent  string `json:"accent"`
}

type SectionToggles struct {
	Header      bool `json:"header"`
	CompanyInfo bool `json:"companyInfo"`
	ClientInfo  bool `json:"clientInfo"`
	LineItems   bool `json:"lineItems"`
	Totals      bool `json:"totals"`
	Footer      bool `json:"footer"`
	Terms       bool `json:"terms"`
}

type BrandingToggles struct {
	Logo        bool `json:"logo"`
	CompanyName bool `json:"companyName"`
	Tagline     bool `json:"tagline"`
}

// TemplateConfig is the visual and structural configuration of an invoice template.
type TemplateConfig struct {
	Layout   Layout          `json:"layout"`
	Colors   ColorPalette    `json:"colors"`
	Fonts    FontSet         `json:"fonts"`
	Sections SectionToggles  `json:"sections"`
	Branding BrandingToggles `json:"branding"`
}

type Template struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Origin      TemplateOrigin   `json:"origin"`
	Category    TemplateCategory `json:"category"`
	Thumbnail   string           `json:"thumbnail,omitempty"`
	Config      TemplateConfig   `json:"config"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TemplatePayload is the portable export/import shape of a template.
type TemplatePayload struct {
	Name      string           `json:"name"`
	Category  TemplateCategory `json:"category,omitempty"`
	Thumbnail string           `json:"thumbnail,omitempty"`
	Config    *TemplateConfig  `json:"config"`
}
