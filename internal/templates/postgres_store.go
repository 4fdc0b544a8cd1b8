package templates

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"invoice-template-workers/internal/models"
)

const (
	createTemplatesTable = `
CREATE TABLE IF NOT EXISTS invoice_templates (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    origin      TEXT NOT NULL,
    category    TEXT NOT NULL,
    thumbnail   TEXT NOT NULL DEFAULT '',
    config      JSONB NOT NULL,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`

	createPacksTable = `
CREATE TABLE IF NOT EXISTS invoice_template_packs (
    fingerprint TEXT PRIMARY KEY,
    version     TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	selectTemplates = `
SELECT id, name, description, origin, category, thumbnail, config, is_active, created_at, updated_at
FROM invoice_templates
ORDER BY created_at, id`

	upsertTemplate = `
INSERT INTO invoice_templates (id, name, description, origin, category, thumbnail, config, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    category = EXCLUDED.category,
    thumbnail = EXCLUDED.thumbnail,
    config = EXCLUDED.config,
    is_active = EXCLUDED.is_active,
    updated_at = EXCLUDED.updated_at`

	deleteTemplate = `DELETE FROM invoice_templates WHERE id = $1`

	selectPackApplied = `SELECT EXISTS (SELECT 1 FROM invoice_template_packs WHERE fingerprint = $1)`
	insertPackApplied = `
INSERT INTO invoice_template_packs (fingerprint, version) VALUES ($1, $2)
ON CONFLICT (fingerprint) DO NOTHING`
)

// PostgresStore persists custom and imported templates, edits made to
// built-ins, and the template packs already applied.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTemplatesTable); err != nil {
		return fmt.Errorf("create invoice_templates: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, createPacksTable); err != nil {
		return fmt.Errorf("create invoice_template_packs: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, selectTemplates)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var out []models.Template
	for rows.Next() {
		var (
			t         models.Template
			origin    string
			category  string
			configRaw []byte
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &origin, &category, &t.Thumbnail,
			&configRaw, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		if err := json.Unmarshal(configRaw, &t.Config); err != nil {
			return nil, fmt.Errorf("decode config of template %s: %w", t.ID, err)
		}
		t.Origin = models.TemplateOrigin(origin)
		t.Category = models.TemplateCategory(category)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

// Save upserts t. A built-in row holds the edited version of that built-in.
func (s *PostgresStore) Save(ctx context.Context, t models.Template) error {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, upsertTemplate,
		t.ID, t.Name, t.Description, string(t.Origin), string(t.Category), t.Thumbnail,
		configJSON, t.IsActive, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert template %s: %w", t.ID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, deleteTemplate, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

// Reload restores every persisted template into reg, re-applying saved
// edits to built-ins, and returns how many rows were accepted.
func (s *PostgresStore) Reload(ctx context.Context, reg *Registry) (int, error) {
	stored, err := s.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	restored := 0
	for _, t := range stored {
		var ok bool
		if t.Origin == models.OriginBuiltIn {
			ok = reg.Override(t)
		} else {
			ok = reg.Restore(t)
		}
		if ok {
			restored++
		}
	}
	return restored, nil
}

// PackApplied reports whether the pack with this fingerprint was imported before.
func (s *PostgresStore) PackApplied(ctx context.Context, fingerprint string) (bool, error) {
	var applied bool
	if err := s.db.QueryRowContext(ctx, selectPackApplied, fingerprint).Scan(&applied); err != nil {
		return false, fmt.Errorf("lookup template pack %s: %w", fingerprint, err)
	}
	return applied, nil
}

// MarkPackApplied records an imported pack.
func (s *PostgresStore) MarkPackApplied(ctx context.Context, fingerprint, version string) error {
	if _, err := s.db.ExecContext(ctx, insertPackApplied, fingerprint, version); err != nil {
		return fmt.Errorf("record template pack %s: %w", fingerprint, err)
	}
	return nil
}
