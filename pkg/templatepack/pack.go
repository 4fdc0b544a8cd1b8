// pkg/templatepack/pack.go
package templatepack

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invoice-template-workers/internal/common/validation"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"
)

// CurrentVersion is written into every new pack.
const CurrentVersion = "1.0.0"

// Pack is a versioned file of exported templates used to seed or back up a
// registry.
type Pack struct {
	Version     string                   `json:"version"`
	LastUpdated string                   `json:"lastUpdated"`
	Templates   []models.TemplatePayload `json:"templates"`
}

func New() *Pack {
	return &Pack{
		Version:     CurrentVersion,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Templates:   []models.TemplatePayload{},
	}
}

func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse template pack: %w", err)
	}
	if p.Templates == nil {
		p.Templates = []models.TemplatePayload{}
	}
	return &p, nil
}

// Save writes the pack as indented JSON, creating parent directories.
func Save(p *Pack, path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal template pack: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write template pack: %w", err)
	}
	return nil
}

// Validate checks the version and runs every entry through the import
// schema. Names must be unique within a pack.
func (p *Pack) Validate() error {
	if p.Version == "" {
		return fmt.Errorf("template pack missing version")
	}
	if len(p.Templates) == 0 {
		return fmt.Errorf("template pack contains no templates")
	}

	names := make(map[string]bool, len(p.Templates))
	for i, t := range p.Templates {
		if err := validatePayload(t); err != nil {
			return fmt.Errorf("template %d (%q): %w", i, t.Name, err)
		}
		key := strings.ToLower(t.Name)
		if names[key] {
			return fmt.Errorf("duplicate template name: %s", t.Name)
		}
		names[key] = true
	}
	return nil
}

// Add appends payload after validating it. The pack is unchanged on error.
func (p *Pack) Add(payload models.TemplatePayload) error {
	if err := validatePayload(payload); err != nil {
		return err
	}
	for _, existing := range p.Templates {
		if strings.EqualFold(existing.Name, payload.Name) {
			return fmt.Errorf("template named %s already exists", payload.Name)
		}
	}
	p.Templates = append(p.Templates, payload)
	p.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return nil
}

// FromRegistry exports the given templates, or all of them when ids is empty.
func FromRegistry(reg *templates.Registry, ids ...string) (*Pack, error) {
	if len(ids) == 0 {
		for _, t := range reg.All() {
			ids = append(ids, t.ID)
		}
	}

	p := New()
	for _, id := range ids {
		payload, ok := reg.Export(id)
		if !ok {
			return nil, fmt.Errorf("template %s not found", id)
		}
		p.Templates = append(p.Templates, payload)
	}
	return p, nil
}

// ImportInto registers every entry as an imported template and returns the
// created templates in pack order. Entries the registry refuses are skipped
// and counted.
func (p *Pack) ImportInto(reg *templates.Registry) ([]models.Template, int) {
	created := make([]models.Template, 0, len(p.Templates))
	skipped := 0
	for _, payload := range p.Templates {
		t, ok := reg.Import(payload)
		if !ok {
			skipped++
			continue
		}
		created = append(created, t)
	}
	return created, skipped
}

// Fingerprint identifies the pack contents. Two packs with the same
// templates share a fingerprint whatever their lastUpdated stamp.
func (p *Pack) Fingerprint() (string, error) {
	data, err := json.Marshal(struct {
		Version   string                   `json:"version"`
		Templates []models.TemplatePayload `json:"templates"`
	}{p.Version, p.Templates})
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint template pack: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Marker remembers which packs a persistent catalog has already absorbed.
type Marker interface {
	PackApplied(ctx context.Context, fingerprint string) (bool, error)
	MarkPackApplied(ctx context.Context, fingerprint, version string) error
}

// ApplyResult reports what Apply did.
type ApplyResult struct {
	Fingerprint    string
	AlreadyApplied bool
	Imported       int
	Skipped        int
}

// Apply validates p and imports it through the catalog unless marker has
// seen it before. A nil marker imports every time, which suits a registry
// that starts empty on each run.
func Apply(ctx context.Context, p *Pack, catalog *templates.Catalog, marker Marker) (ApplyResult, error) {
	if err := p.Validate(); err != nil {
		return ApplyResult{}, err
	}
	fingerprint, err := p.Fingerprint()
	if err != nil {
		return ApplyResult{}, err
	}
	res := ApplyResult{Fingerprint: fingerprint}

	if marker != nil {
		applied, err := marker.PackApplied(ctx, fingerprint)
		if err != nil {
			return res, err
		}
		if applied {
			res.AlreadyApplied = true
			return res, nil
		}
	}

	created, skipped := p.ImportInto(catalog.Registry())
	for _, t := range created {
		catalog.Saved(ctx, t)
	}
	res.Imported, res.Skipped = len(created), skipped

	if marker != nil {
		if err := marker.MarkPackApplied(ctx, fingerprint, p.Version); err != nil {
			return res, err
		}
	}
	return res, nil
}

func validatePayload(payload models.TemplatePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	result, err := validation.ValidateTemplatePayload(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("invalid template: %s", strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}
