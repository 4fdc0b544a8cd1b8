package templates

import (
	"context"

	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/models"
)

// Store is the persistence side of the catalog.
type Store interface {
	Save(ctx context.Context, t models.Template) error
	Delete(ctx context.Context, id string) error
}

// Indexer is the search side of the catalog.
type Indexer interface {
	Index(ctx context.Context, t models.Template) error
	Remove(ctx context.Context, id string) error
}

// Catalog fronts the registry for the job workers and writes every change
// through to the optional store and index. The registry stays authoritative:
// write-through failures are logged and never undo the registry change.
type Catalog struct {
	registry *Registry
	store    Store
	index    Indexer
	logger   logger.Logger
}

// NewCatalog wires a registry to its backing services. store and index may be nil.
func NewCatalog(registry *Registry, store Store, index Indexer, log logger.Logger) *Catalog {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Catalog{registry: registry, store: store, index: index, logger: log}
}

func (c *Catalog) Registry() *Registry {
	return c.registry
}

// Saved propagates a created or changed template, built-ins included.
func (c *Catalog) Saved(ctx context.Context, t models.Template) {
	if c.store != nil {
		if err := c.store.Save(ctx, t); err != nil {
			c.logger.Warn("failed to persist template", map[string]interface{}{
				"templateId": t.ID,
				"error":      err,
			})
		}
	}
	if c.index != nil {
		if err := c.index.Index(ctx, t); err != nil {
			c.logger.Warn("failed to index template", map[string]interface{}{
				"templateId": t.ID,
				"error":      err,
			})
		}
	}
}

// Removed propagates a deletion.
func (c *Catalog) Removed(ctx context.Context, id string) {
	if c.store != nil {
		if err := c.store.Delete(ctx, id); err != nil {
			c.logger.Warn("failed to delete persisted template", map[string]interface{}{
				"templateId": id,
				"error":      err,
			})
		}
	}
	if c.index != nil {
		if err := c.index.Remove(ctx, id); err != nil {
			c.logger.Warn("failed to remove template from index", map[string]interface{}{
				"templateId": id,
				"error":      err,
			})
		}
	}
}

// IndexAll pushes the whole registry into the index and returns the number
// of documents that failed.
func (c *Catalog) IndexAll(ctx context.Context) int {
	if c.index == nil {
		return 0
	}
	failed := 0
	for _, t := range c.registry.All() {
		if err := c.index.Index(ctx, t); err != nil {
			failed++
			c.logger.Warn("failed to index template", map[string]interface{}{
				"templateId": t.ID,
				"error":      err,
			})
		}
	}
	return failed
}
