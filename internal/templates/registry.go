// Package templates owns the invoice template catalog: the in-process
// registry plus its optional Postgres store and Elasticsearch index.
package templates

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/models"
)

const maxIDAttempts = 16

// IDGenerator returns a candidate ID for a template of the given origin.
// The registry retries on collision.
type IDGenerator func(origin models.TemplateOrigin, now time.Time) string

// DefaultIDGenerator produces <origin>-<unix millis>-<8 hex chars>.
func DefaultIDGenerator(origin models.TemplateOrigin, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", origin, now.UnixMilli(), uuid.NewString()[:8])
}

type Option func(*Registry)

func WithIDGenerator(gen IDGenerator) Option {
	return func(r *Registry) { r.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLogger(log logger.Logger) Option {
	return func(r *Registry) { r.logger = log }
}

// Registry is the single owner of the template catalog. Reads return value
// copies; all mutation goes through its methods. The lock protects the map
// only: every caller shares one implicit tenant.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]models.Template
	order     []string

	newID  IDGenerator
	now    func() time.Time
	logger logger.Logger
}

// NewRegistry builds a registry seeded with the built-in templates.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		templates: make(map[string]models.Template),
		newID:     DefaultIDGenerator,
		now:       time.Now,
		logger:    logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, t := range seedBuiltins(r.now()) {
		r.insertLocked(t)
	}
	r.publishSizeLocked()
	return r
}

// All returns every template in insertion order.
func (r *Registry) All() []models.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id])
	}
	return out
}

// ByCategory returns the templates of one category in insertion order.
func (r *Registry) ByCategory(category models.TemplateCategory) []models.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Template
	for _, id := range r.order {
		if t := r.templates[id]; t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) GetByID(id string) (models.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[id]
	return t, ok
}

// Create merges patch over the default config and registers a new custom
// template. Config violations are logged, not enforced.
func (r *Registry) Create(name string, patch *models.ConfigPatch) models.Template {
	cfg := patch.Apply(DefaultConfig())
	r.warnOnInvalid("create", name, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := models.Template{
		ID:        r.uniqueIDLocked(models.OriginCustom, now),
		Name:      name,
		Origin:    models.OriginCustom,
		Category:  models.CategoryProfessional,
		Config:    cfg,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.insertLocked(t)
	r.publishSizeLocked()

	r.logger.Info("template created", map[string]interface{}{"templateId": t.ID})
	return t
}

// ErrTemplateNotFound is returned by UpdateIf for unknown IDs.
var ErrTemplateNotFound = errors.New("template not found")

// Update merges patch into the template and bumps UpdatedAt. ID and origin
// cannot change.
func (r *Registry) Update(id string, patch models.TemplatePatch) (models.Template, bool) {
	t, err := r.UpdateIf(id, patch, nil)
	return t, err == nil
}

// UpdateIf merges patch like Update and hands the merged template to check
// before storing it, all under the write lock. A check error is returned
// as is and leaves the template unchanged.
func (r *Registry) UpdateIf(id string, patch models.TemplatePatch, check func(models.Template) error) (models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[id]
	if !ok {
		return models.Template{}, ErrTemplateNotFound
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Thumbnail != nil {
		t.Thumbnail = *patch.Thumbnail
	}
	if patch.IsActive != nil {
		t.IsActive = *patch.IsActive
	}
	t.Config = patch.Config.Apply(t.Config)
	if check != nil {
		if err := check(t); err != nil {
			return models.Template{}, err
		}
	}
	t.UpdatedAt = r.now()

	r.templates[id] = t
	return t, nil
}

// Delete removes a custom or imported template. Unknown IDs and built-ins
// both report false.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.templates[id]
	if !ok || t.Origin == models.OriginBuiltIn {
		return false
	}

	delete(r.templates, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.publishSizeLocked()

	r.logger.Info("template deleted", map[string]interface{}{"templateId": id})
	return true
}

// Duplicate copies a template under a new ID and name. The copy is always
// custom, whatever the source origin.
func (r *Registry) Duplicate(id, newName string) (models.Template, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	src, ok := r.templates[id]
	if !ok {
		return models.Template{}, false
	}

	now := r.now()
	dup := src
	dup.ID = r.uniqueIDLocked(models.OriginCustom, now)
	dup.Name = newName
	dup.Origin = models.OriginCustom
	dup.CreatedAt = now
	dup.UpdatedAt = now

	r.insertLocked(dup)
	r.publishSizeLocked()

	r.logger.Info("template duplicated", map[string]interface{}{
		"templateId": dup.ID,
		"sourceId":   id,
	})
	return dup, true
}

// Export returns the portable subset of a template.
func (r *Registry) Export(id string) (models.TemplatePayload, bool) {
	t, ok := r.GetByID(id)
	if !ok {
		return models.TemplatePayload{}, false
	}
	cfg := t.Config
	return models.TemplatePayload{
		Name:      t.Name,
		Category:  t.Category,
		Thumbnail: t.Thumbnail,
		Config:    &cfg,
	}, true
}

// Import registers an exported payload as a new imported template. Name and
// config are required; on failure the registry is left untouched.
func (r *Registry) Import(payload models.TemplatePayload) (models.Template, bool) {
	if payload.Name == "" || payload.Config == nil {
		return models.Template{}, false
	}

	category := payload.Category
	if !category.Valid() {
		category = models.CategoryProfessional
	}
	cfg := *payload.Config
	r.warnOnInvalid("import", payload.Name, cfg)

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	t := models.Template{
		ID:        r.uniqueIDLocked(models.OriginImported, now),
		Name:      payload.Name,
		Origin:    models.OriginImported,
		Category:  category,
		Thumbnail: payload.Thumbnail,
		Config:    cfg,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.insertLocked(t)
	r.publishSizeLocked()

	r.logger.Info("template imported", map[string]interface{}{"templateId": t.ID})
	return t, true
}

// Restore re-registers a previously persisted template as is. Built-in
// origins, empty IDs and IDs already present are refused.
func (r *Registry) Restore(t models.Template) bool {
	if t.ID == "" || t.Origin == models.OriginBuiltIn {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.templates[t.ID]; exists {
		return false
	}
	r.insertLocked(t)
	r.publishSizeLocked()
	return true
}

// Override replaces the editable fields of a built-in with a persisted
// version of it. ID, origin and creation time stay as seeded. Unknown IDs
// and non built-ins report false.
func (r *Registry) Override(t models.Template) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.templates[t.ID]
	if !ok || current.Origin != models.OriginBuiltIn {
		return false
	}

	current.Name = t.Name
	current.Description = t.Description
	if t.Category.Valid() {
		current.Category = t.Category
	}
	current.Thumbnail = t.Thumbnail
	current.Config = t.Config
	current.IsActive = t.IsActive
	current.UpdatedAt = t.UpdatedAt
	r.templates[t.ID] = current
	return true
}

func (r *Registry) warnOnInvalid(op, name string, cfg models.TemplateConfig) {
	if v := ValidateConfig(cfg); !v.Valid {
		r.logger.Warn("template config has validation warnings", map[string]interface{}{
			"operation": op,
			"name":      name,
			"errors":    v.Errors,
		})
	}
}

func (r *Registry) insertLocked(t models.Template) {
	r.templates[t.ID] = t
	r.order = append(r.order, t.ID)
}

func (r *Registry) uniqueIDLocked(origin models.TemplateOrigin, now time.Time) string {
	for i := 0; i < maxIDAttempts; i++ {
		id := r.newID(origin, now)
		if _, taken := r.templates[id]; id != "" && !taken {
			return id
		}
	}
	// A generator that keeps colliding falls back to the default scheme.
	for {
		id := DefaultIDGenerator(origin, now)
		if _, taken := r.templates[id]; !taken {
			return id
		}
	}
}

func (r *Registry) publishSizeLocked() {
	counts := map[models.TemplateOrigin]int{
		models.OriginBuiltIn:  0,
		models.OriginCustom:   0,
		models.OriginImported: 0,
	}
	for _, t := range r.templates {
		counts[t.Origin]++
	}
	for origin, n := range counts {
		metrics.TemplateRegistrySize.WithLabelValues(string(origin)).Set(float64(n))
	}
}
