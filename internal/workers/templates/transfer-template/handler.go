// internal/workers/templates/transfer-template/handler.go
package transfertemplate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/common/validation"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "transfer-template"

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

	switch Operation(strings.ToLower(string(input.Operation))) {
	case OpExport:
		if input.TemplateID == "" {
			return nil, errors.NewInvalidInputError("templateId is required")
		}
		payload, ok := h.catalog.Registry().Export(input.TemplateID)
		if !ok {
			return nil, errors.NewTemplateNotFoundError(input.TemplateID)
		}
		return &Output{Payload: &payload}, nil

	case OpImport:
		return h.importPayload(ctx, input)
	}

	return nil, errors.NewInvalidOperationError(string(input.Operation))
}

func (h *Handler) importPayload(ctx context.Context, input *Input) (*Output, error) {
	data := []byte(input.Payload)
	if len(data) == 0 || string(data) == "null" {
		data = []byte(input.FileContent)
	}
	if len(data) == 0 {
		return nil, errors.NewTemplateImportInvalidError("payload or fileContent is required")
	}
	if h.config.MaxPayloadBytes > 0 && len(data) > h.config.MaxPayloadBytes {
		return nil, errors.NewTemplateImportInvalidError(
			fmt.Sprintf("payload is %d bytes, limit is %d", len(data), h.config.MaxPayloadBytes))
	}

	result, err := validation.ValidateTemplatePayload(data)
	if err != nil {
		return nil, errors.NewTemplateImportInvalidError(fmt.Sprintf("malformed JSON: %v", err))
	}
	if !result.Valid {
		return nil, errors.NewTemplateImportInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var payload models.TemplatePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.NewTemplateImportInvalidError(fmt.Sprintf("decode payload: %v", err))
	}

	t, ok := h.catalog.Registry().Import(payload)
	if !ok {
		return nil, errors.NewTemplateImportInvalidError("name and config are required")
	}
	h.catalog.Saved(ctx, t)

	h.logger.Info("template imported", map[string]interface{}{
		"templateId": t.ID,
		"name":       t.Name,
	})
	return &Output{Template: &t}, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
