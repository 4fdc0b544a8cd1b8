package models

// Patch types carry only the fields a caller wants to change. A nil pointer
// leaves the current value in place.

type ColorPalettePatch struct {
	Primary    *string `json:"primary,omitempty"`
	Secondary  *string `json:"secondary,omitempty"`
	Accent     *string `json:"accent,omitempty"`
	Background *string `json:"background,omitempty"`
	Text       *string `json:"text,omitempty"`
}

type FontSetPatch struct {
	Heading *string `json:"heading,omitempty"`
	Body    *string `json:"body,omitempty"`
	Accent  *string `json:"accent,omitempty"`
}

type SectionTogglesPatch struct {
	Header      *bool `json:"header,omitempty"`
	CompanyInfo *bool `json:"companyInfo,omitempty"`
	ClientInfo  *bool `json:"clientInfo,omitempty"`
	LineItems   *bool `json:"lineItems,omitempty"`
	Totals      *bool `json:"totals,omitempty"`
	Footer      *bool `json:"footer,omitempty"`
	Terms       *bool `json:"terms,omitempty"`
}

type BrandingTogglesPatch struct {
	Logo        *bool `json:"logo,omitempty"`
	CompanyName *bool `json:"companyName,omitempty"`
	Tagline     *bool `json:"tagline,omitempty"`
}

type ConfigPatch struct {
	Layout   *Layout               `json:"layout,omitempty"`
	Colors   *ColorPalettePatch    `json:"colors,omitempty"`
	Fonts    *FontSetPatch         `json:"fonts,omitempty"`
	Sections *SectionTogglesPatch  `json:"sections,omitempty"`
	Branding *BrandingTogglesPatch `json:"branding,omitempty"`
}

// TemplatePatch lists the mutable template fields. ID and Origin are
// deliberately absent.
type TemplatePatch struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Category    *TemplateCategory `json:"category,omitempty"`
	Thumbnail   *string           `json:"thumbnail,omitempty"`
	IsActive    *bool             `json:"isActive,omitempty"`
	Config      *ConfigPatch      `json:"config,omitempty"`
}

// Apply returns cfg with every non-nil field of p written over it.
func (p *ConfigPatch) Apply(cfg TemplateConfig) TemplateConfig {
	if p == nil {
		return cfg
	}
	if p.Layout != nil {
		cfg.Layout = *p.Layout
	}
	if c := p.Colors; c != nil {
		setString(&cfg.Colors.Primary, c.Primary)
		setString(&cfg.Colors.Secondary, c.Secondary)
		setString(&cfg.Colors.Accent, c.Accent)
		setString(&cfg.Colors.Background, c.Background)
		setString(&cfg.Colors.Text, c.Text)
	}
	if f := p.Fonts; f != nil {
		setString(&cfg.Fonts.Heading, f.Heading)
		setString(&cfg.Fonts.Body, f.Body)
		setString(&cfg.Fonts.Accent, f.Accent)
	}
	if s := p.Sections; s != nil {
		setBool(&cfg.Sections.Header, s.Header)
		setBool(&cfg.Sections.CompanyInfo, s.CompanyInfo)
		setBool(&cfg.Sections.ClientInfo, s.ClientInfo)
		setBool(&cfg.Sections.LineItems, s.LineItems)
		setBool(&cfg.Sections.Totals, s.Totals)
		setBool(&cfg.Sections.Footer, s.Footer)
		setBool(&cfg.Sections.Terms, s.Terms)
	}
	if b := p.Branding; b != nil {
		setBool(&cfg.Branding.Logo, b.Logo)
		setBool(&cfg.Branding.CompanyName, b.CompanyName)
		setBool(&cfg.Branding.Tagline, b.Tagline)
	}
	return cfg
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
