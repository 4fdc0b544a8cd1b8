// internal/workers/templates/search-templates/handler.go
package searchtemplates

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/templates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "search-templates"

	sourceIndex    = "index"
	sourceRegistry = "registry"
)

// Searcher is the query side of templates.SearchIndex.
type Searcher interface {
	Search(ctx context.Context, q templates.SearchQuery) ([]templates.SearchHit, int64, error)
}

type Handler struct {
	config     *Config
	searcher   Searcher
	registry   *templates.Registry
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, searcher Searcher, registry *templates.Registry, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		searcher:   searcher,
		registry:   registry,
		errHandler: errors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, start, errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, start, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
	}
	metrics.ObserveJob(TaskType, start, "")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}
	if input.Category != "" && !input.Category.Valid() {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown category %q", input.Category))
	}

	query := templates.SearchQuery{
		Text:     strings.TrimSpace(input.Text),
		Category: input.Category,
		Size:     input.Size,
	}
	if query.Size <= 0 {
		query.Size = h.config.DefaultSize
	}

	if h.searcher != nil {
		hits, total, err := h.searcher.Search(ctx, query)
		if err == nil {
			return &Output{Hits: hits, Total: total, Source: sourceIndex}, nil
		}

		mapped := h.mapSearchError(ctx, err)
		if !h.config.RegistryFallback || h.registry == nil {
			return nil, mapped
		}
		h.logger.Warn("template index unavailable, searching registry", map[string]interface{}{
			"error": err,
		})
	} else if h.registry == nil {
		return nil, errors.NewSearchQueryFailedError("template_search", fmt.Errorf("no search backend configured"))
	}

	hits := h.searchRegistry(query)
	return &Output{Hits: hits, Total: int64(len(hits)), Source: sourceRegistry}, nil
}

func (h *Handler) mapSearchError(ctx context.Context, err error) error {
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return errors.NewSearchTimeoutError("template_search")
	case stderrors.Is(err, templates.ErrIndexNotFound):
		return errors.NewIndexNotFoundError(h.config.IndexName)
	default:
		return errors.NewSearchQueryFailedError("template_search", err)
	}
}

// searchRegistry scores name, description and category matches with the
// same field boosts the index uses.
func (h *Handler) searchRegistry(q templates.SearchQuery) []templates.SearchHit {
	terms := strings.Fields(strings.ToLower(q.Text))
	hits := []templates.SearchHit{}

	for _, t := range h.registry.All() {
		if q.Category != "" && t.Category != q.Category {
			continue
		}

		score := 1.0
		if len(terms) > 0 {
			score = 0
			name := strings.ToLower(t.Name)
			desc := strings.ToLower(t.Description)
			cat := string(t.Category)
			for _, term := range terms {
				if strings.Contains(name, term) {
					score += 3
				}
				if strings.Contains(desc, term) {
					score += 2
				}
				if strings.Contains(cat, term) {
					score++
				}
			}
			if score == 0 {
				continue
			}
		}

		hits = append(hits, templates.SearchHit{
			TemplateID: t.ID,
			Name:       t.Name,
			Category:   t.Category,
			Origin:     t.Origin,
			Score:      score,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > q.Size {
		hits = hits[:q.Size]
	}
	return hits
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
