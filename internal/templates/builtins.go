package templates

import (
	"time"

	"invoice-template-workers/internal/models"
)

// DefaultConfig is the base every new custom template is merged over.
func DefaultConfig() models.TemplateConfig {
	return models.TemplateConfig{
		Layout: models.LayoutModern,
		Colors: models.ColorPalette{
			Primary:    "#2563eb",
			Secondary:  "#64748b",
			Accent:     "#0ea5e9",
			Background: "#ffffff",
			Text:       "#1e293b",
		},
		Fonts: models.FontSet{
			Heading: "Inter",
			Body:    "Inter",
			Accent:  "Inter",
		},
		Sections: allSections(true),
		Branding: models.BrandingToggles{Logo: true, CompanyName: true, Tagline: false},
	}
}

func allSections(on bool) models.SectionToggles {
	return models.SectionToggles{
		Header:      on,
		CompanyInfo: on,
		ClientInfo:  on,
		LineItems:   on,
		Totals:      on,
		Footer:      on,
		Terms:       on,
	}
}

// builtinTemplates returns the starter catalog, one per category.
func builtinTemplates() []models.Template {
	minimalSections := allSections(true)
	minimalSections.Terms = false

	return []models.Template{
		{
			ID:          "modern-professional",
			Name:        "Modern Professional",
			Description: "Clean blue accents and a structured layout for established businesses",
			Category:    models.CategoryProfessional,
			Thumbnail:   "/templates/modern-professional.png",
			Config:      DefaultConfig(),
		},
		{
			ID:          "minimal-clean",
			Name:        "Minimal Clean",
			Description: "Monochrome, generous whitespace and only the essentials",
			Category:    models.CategoryMinimal,
			Thumbnail:   "/templates/minimal-clean.png",
			Config: models.TemplateConfig{
				Layout: models.LayoutMinimal,
				Colors: models.ColorPalette{
					Primary:    "#111827",
					Secondary:  "#6b7280",
					Accent:     "#9ca3af",
					Background: "#ffffff",
					Text:       "#111827",
				},
				Fonts:    models.FontSet{Heading: "Helvetica Neue", Body: "Helvetica Neue", Accent: "Helvetica Neue"},
				Sections: minimalSections,
				Branding: models.BrandingToggles{Logo: false, CompanyName: true, Tagline: false},
			},
		},
		{
			ID:          "creative-bold",
			Name:        "Creative Bold",
			Description: "Vivid colors and a standout header for creative work",
			Category:    models.CategoryCreative,
			Thumbnail:   "/templates/creative-bold.png",
			Config: models.TemplateConfig{
				Layout: models.LayoutCreative,
				Colors: models.ColorPalette{
					Primary:    "#7c3aed",
					Secondary:  "#ec4899",
					Accent:     "#f59e0b",
					Background: "#fdf4ff",
					Text:       "#1f2937",
				},
				Fonts:    models.FontSet{Heading: "Poppins", Body: "Open Sans", Accent: "Poppins"},
				Sections: allSections(true),
				Branding: models.BrandingToggles{Logo: true, CompanyName: true, Tagline: true},
			},
		},
		{
			ID:          "classic-corporate",
			Name:        "Classic Corporate",
			Description: "Traditional serif typography and formal structure",
			Category:    models.CategoryCorporate,
			Thumbnail:   "/templates/classic-corporate.png",
			Config: models.TemplateConfig{
				Layout: models.LayoutClassic,
				Colors: models.ColorPalette{
					Primary:    "#1e3a5f",
					Secondary:  "#4b5563",
					Accent:     "#b45309",
					Background: "#ffffff",
					Text:       "#111827",
				},
				Fonts:    models.FontSet{Heading: "Georgia", Body: "Times New Roman", Accent: "Georgia"},
				Sections: allSections(true),
				Branding: models.BrandingToggles{Logo: true, CompanyName: true, Tagline: false},
			},
		},
	}
}

func seedBuiltins(now time.Time) []models.Template {
	seeds := builtinTemplates()
	for i := range seeds {
		seeds[i].Origin = models.OriginBuiltIn
		seeds[i].IsActive = true
		seeds[i].CreatedAt = now
		seeds[i].UpdatedAt = now
	}
	return seeds
}

// BuiltinIDs lists the IDs seeded into every registry.
func BuiltinIDs() []string {
	seeds := builtinTemplates()
	ids := make([]string, len(seeds))
	for i, t := range seeds {
		ids[i] = t.ID
	}
	return ids
}
