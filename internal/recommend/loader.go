package recommend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"invoice-template-workers/internal/models"
)

type tablesFile struct {
	Templates []tableEntry `yaml:"templates"`
}

type tableEntry struct {
	TemplateID string                        `yaml:"templateId"`
	Category   string                        `yaml:"category"`
	Weights    map[string]map[string]float64 `yaml:"weights"`
}

var knownAttributes = func() map[models.ProfileAttribute]bool {
	m := make(map[models.ProfileAttribute]bool, len(models.SingularAttributes)+1)
	for _, a := range models.SingularAttributes {
		m[a] = true
	}
	m[models.AttrGoals] = true
	return m
}()

// LoadScoringTables reads scoring tables from a YAML or JSON file. Every
// weight must lie in [0, 1] and every attribute must be a profile field.
func LoadScoringTables(path string) ([]ScoringTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoring tables %s: %w", path, err)
	}
	return ParseScoringTables(data)
}

// ParseScoringTables decodes and validates scoring table data.
func ParseScoringTables(data []byte) ([]ScoringTable, error) {
	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse scoring tables: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("scoring tables file defines no templates")
	}

	seen := make(map[string]bool, len(file.Templates))
	tables := make([]ScoringTable, 0, len(file.Templates))
	for i, entry := range file.Templates {
		if entry.TemplateID == "" {
			return nil, fmt.Errorf("templates[%d]: templateId is required", i)
		}
		if seen[entry.TemplateID] {
			return nil, fmt.Errorf("templates[%d]: duplicate templateId %q", i, entry.TemplateID)
		}
		seen[entry.TemplateID] = true

		category := models.TemplateCategory(entry.Category)
		if !category.Valid() {
			return nil, fmt.Errorf("template %s: unknown category %q", entry.TemplateID, entry.Category)
		}

		weights := make(map[models.ProfileAttribute]map[string]float64, len(entry.Weights))
		for attrName, values := range entry.Weights {
			attr := models.ProfileAttribute(attrName)
			if !knownAttributes[attr] {
				return nil, fmt.Errorf("template %s: unknown attribute %q", entry.TemplateID, attrName)
			}
			for value, w := range values {
				if w < 0 || w > 1 {
					return nil, fmt.Errorf("template %s: weight %s.%s=%v out of range [0,1]", entry.TemplateID, attrName, value, w)
				}
			}
			weights[attr] = values
		}

		tables = append(tables, NewScoringTable(entry.TemplateID, category, weights))
	}
	return tables, nil
}
