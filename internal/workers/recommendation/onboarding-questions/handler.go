// internal/workers/recommendation/onboarding-questions/handler.go
package onboardingquestions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "onboarding-questions"

type Handler struct {
	config     *Config
	engine     *recommend.Engine
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, engine *recommend.Engine, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewInvalidInputError("input cannot be nil")
	}

	questions := h.engine.OnboardingQuestions(input.Profile)
	if questions == nil {
		questions = []models.Question{}
	}
	output := &Output{
		Questions: questions,
		Complete:  h.engine.OnboardingComplete(input.Profile),
		Presets:   h.engine.QuickStartPresets(),
	}

	h.logger.Debug("onboarding questions computed", map[string]interface{}{
		"remaining": len(questions),
		"complete":  output.Complete,
	})
	return output, nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
