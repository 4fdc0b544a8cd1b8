// internal/workers/recommendation/recommend-templates/profiles.go
package recommendtemplates

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"invoice-template-workers/internal/common/database"
	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// ProfilesTable is owned by the onboarding service; this worker only reads it.
	ProfilesTable = "user_profiles"

	profileCachePrefix = "user:profile:"
	selectProfileQuery = `SELECT profile FROM user_profiles WHERE user_id = $1`
)

// ProfileStore reads stored onboarding profiles from Postgres with a Redis
// cache in front. Either backend may be nil.
type ProfileStore struct {
	db     *sql.DB
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewProfileStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *ProfileStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &ProfileStore{db: db, redis: rdb, ttl: ttl, logger: log}
}

// Get returns the profile stored for userID.
func (s *ProfileStore) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	cacheKey := profileCachePrefix + userID
	if profile, ok := s.cached(ctx, cacheKey); ok {
		return profile, nil
	}

	if s.db == nil {
		return models.UserProfile{}, errors.NewProfileNotFoundError(userID)
	}

	var raw []byte
	err := s.db.QueryRowContext(ctx, selectProfileQuery, userID).Scan(&raw)
	switch {
	case stderrors.Is(err, sql.ErrNoRows):
		return models.UserProfile{}, errors.NewProfileNotFoundError(userID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return models.UserProfile{}, errors.NewQueryTimeoutError("user_profile")
	case err != nil:
		return models.UserProfile{}, errors.NewQueryExecutionFailedError("user_profile", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.UserProfile{}, errors.NewInternalError(fmt.Errorf("decode profile of %s: %w", userID, err))
	}

	if s.redis != nil {
		if err := database.SetJSON(ctx, s.redis, cacheKey, profile, s.ttl); err != nil {
			s.logger.Warn("failed to cache profile", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
	}
	return profile, nil
}

func (s *ProfileStore) cached(ctx context.Context, key string) (models.UserProfile, bool) {
	var profile models.UserProfile
	if s.redis == nil {
		return profile, false
	}
	ok, err := database.GetJSON(ctx, s.redis, key, &profile)
	if err != nil {
		s.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err})
		return models.UserProfile{}, false
	}
	if !ok {
		return models.UserProfile{}, false
	}
	return profile, true
}
