// internal/workers/templates/manage-template/handler.go
package managetemplate

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "manage-template"

type Handler struct {
	config     *Config
	catalog    *templates.Catalog
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, catalog *templates.Catalog, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		catalog:    catalog,
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
	reg := h.catalog.Registry()

	switch Operation(strings.ToLower(string(input.Operation))) {
	case OpGet:
		if input.TemplateID == "" {
			return nil, errors.NewInvalidInputError("templateId is required")
		}
		t, ok := reg.GetByID(input.TemplateID)
		if !ok {
			return nil, errors.NewTemplateNotFoundError(input.TemplateID)
		}
		return &Output{Template: &t}, nil

	case OpList:
		var list []models.Template
		if input.Category != "" {
			list = reg.ByCategory(input.Category)
		} else {
			list = reg.All()
		}
		if list == nil {
			list = []models.Template{}
		}
		return &Output{Templates: list}, nil

	case OpCreate:
		if input.Name == "" {
			return nil, errors.NewInvalidInputError("name is required")
		}
		if err := h.checkConfig(input.Config.Apply(templates.DefaultConfig())); err != nil {
			return nil, err
		}
		t := reg.Create(input.Name, input.Config)
		h.catalog.Saved(ctx, t)
		return &Output{Template: &t}, nil

	case OpUpdate:
		if input.TemplateID == "" || input.Patch == nil {
			return nil, errors.NewInvalidInputError("templateId and patch are required")
		}
		if input.Patch.Category != nil && !input.Patch.Category.Valid() {
			return nil, errors.NewInvalidInputError(fmt.Sprintf("unknown category %q", *input.Patch.Category))
		}
		t, err := reg.UpdateIf(input.TemplateID, *input.Patch, func(merged models.Template) error {
			return h.checkConfig(merged.Config)
		})
		if stderrors.Is(err, templates.ErrTemplateNotFound) {
			return nil, errors.NewTemplateNotFoundError(input.TemplateID)
		}
		if err != nil {
			return nil, err
		}
		h.catalog.Saved(ctx, t)
		return &Output{Template: &t}, nil

	case OpDelete:
		if input.TemplateID == "" {
			return nil, errors.NewInvalidInputError("templateId is required")
		}
		if !reg.Delete(input.TemplateID) {
			return nil, errors.NewTemplateNotFoundError(input.TemplateID)
		}
		h.catalog.Removed(ctx, input.TemplateID)
		return &Output{Deleted: true}, nil

	case OpDuplicate:
		if input.TemplateID == "" || input.Name == "" {
			return nil, errors.NewInvalidInputError("templateId and name are required")
		}
		t, ok := reg.Duplicate(input.TemplateID, input.Name)
		if !ok {
			return nil, errors.NewTemplateNotFoundError(input.TemplateID)
		}
		h.catalog.Saved(ctx, t)
		return &Output{Template: &t}, nil

	case OpValidate:
		cfg := input.TemplateConfig
		if cfg == nil {
			if input.TemplateID == "" {
				return nil, errors.NewInvalidInputError("templateConfig or templateId is required")
			}
			t, ok := reg.GetByID(input.TemplateID)
			if !ok {
				return nil, errors.NewTemplateNotFoundError(input.TemplateID)
			}
			cfg = &t.Config
		}
		v := reg.ValidateConfig(*cfg)
		return &Output{Validation: &v}, nil
	}

	return nil, errors.NewInvalidOperationError(string(input.Operation))
}

func (h *Handler) checkConfig(cfg models.TemplateConfig) error {
	if !h.config.RejectInvalidConfig {
		return nil
	}
	if v := templates.ValidateConfig(cfg); !v.Valid {
		return errors.NewTemplateValidationFailedError(strings.Join(v.Errors, "; "))
	}
	return nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
