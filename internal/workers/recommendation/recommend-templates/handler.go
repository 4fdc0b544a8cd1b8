// internal/workers/recommendation/recommend-templates/handler.go
package recommendtemplates

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/database"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/metrics"
	"invoice-template-workers/internal/common/observability"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/recommend"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "recommend-templates"

	recommendationCachePrefix = "recommendations:"
)

type Handler struct {
	config     *Config
	engine     *recommend.Engine
	profiles   *ProfileStore
	redis      *redis.Client
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	logger     logger.Logger
}

// NewHandler wires the engine with the profile store and the recommendation
// cache. profiles, rdb and obs may be nil.
func NewHandler(config *Config, engine *recommend.Engine, profiles *ProfileStore, rdb *redis.Client, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		engine:     engine,
		profiles:   profiles,
		redis:      rdb,
		obs:        obs,
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
	if input.Limit < 0 {
		return nil, errors.NewInvalidInputError("limit must not be negative")
	}

	profile, source, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}
	profile = recommend.WithDefaults(profile)

	key, err := cacheKey(profile)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	recs, cached := h.cachedRecommendations(ctx, key)
	if !cached {
		recs = h.engine.Recommend(profile)
		h.storeRecommendations(ctx, key, recs)
	}

	limit := input.Limit
	if limit == 0 {
		limit = h.config.DefaultLimit
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}

	output := &Output{
		Recommendations: recs,
		Cached:          cached,
		ProfileSource:   source,
	}
	metrics.TemplateRecommendations.WithLabelValues(string(source), strconv.FormatBool(cached)).Inc()
	if len(recs) > 0 {
		output.TopTemplateID = recs[0].TemplateID
		metrics.TemplateRecommendationTopScore.Observe(recs[0].Score)
		if h.obs != nil {
			h.obs.RecordMatchType(ctx, string(recs[0].MatchType))
		}
	}

	h.logger.Info("templates recommended", map[string]interface{}{
		"userId":        input.UserID,
		"profileSource": source,
		"topTemplateId": output.TopTemplateID,
		"cached":        cached,
		"count":         len(recs),
	})
	return output, nil
}

func (h *Handler) resolveProfile(ctx context.Context, input *Input) (models.UserProfile, ProfileSource, error) {
	switch {
	case input.Profile != nil:
		return *input.Profile, SourceInput, nil
	case input.Preset != "":
		p, ok := h.engine.Preset(input.Preset)
		if !ok {
			return models.UserProfile{}, "", errors.NewPresetNotFoundError(input.Preset)
		}
		return p, SourcePreset, nil
	case input.UserID != "":
		if h.profiles == nil {
			return models.UserProfile{}, "", errors.NewProfileNotFoundError(input.UserID)
		}
		p, err := h.profiles.Get(ctx, input.UserID)
		if err != nil {
			return models.UserProfile{}, "", err
		}
		return p, SourceStored, nil
	}
	return models.UserProfile{}, "", errors.NewInvalidInputError("one of profile, preset or userId is required")
}

func (h *Handler) cachedRecommendations(ctx context.Context, key string) ([]models.Recommendation, bool) {
	if h.redis == nil {
		return nil, false
	}
	var recs []models.Recommendation
	ok, err := database.GetJSON(ctx, h.redis, key, &recs)
	if err != nil {
		h.logger.Warn("recommendation cache read failed", map[string]interface{}{"key": key, "error": err})
		return nil, false
	}
	return recs, ok
}

func (h *Handler) storeRecommendations(ctx context.Context, key string, recs []models.Recommendation) {
	if h.redis == nil {
		return
	}
	if err := database.SetJSON(ctx, h.redis, key, recs, h.config.CacheTTL); err != nil {
		h.logger.Warn("failed to cache recommendations", map[string]interface{}{"key": key, "error": err})
	}
}

// cacheKey hashes the defaulted profile, so equal answers share one entry.
func cacheKey(profile models.UserProfile) (string, error) {
	data, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	sum := sha256.Sum256(data)
	return recommendationCachePrefix + hex.EncodeToString(sum[:]), nil
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, start time.Time, err error) {
	metrics.ObserveJob(TaskType, start, string(errors.Normalize(err).Code))
	h.errHandler.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
