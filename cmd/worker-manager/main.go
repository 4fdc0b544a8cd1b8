// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"invoice-template-workers/internal/common/camunda"
	"invoice-template-workers/internal/common/config"
	"invoice-template-workers/internal/common/database"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/common/observability"
	"invoice-template-workers/internal/recommend"
	"invoice-template-workers/internal/templates"
	"invoice-template-workers/pkg/templatepack"

	ot "invoice-template-workers/internal/workers/recommendation/onboarding-questions"
	rt "invoice-template-workers/internal/workers/recommendation/recommend-templates"
	sgt "invoice-template-workers/internal/workers/recommendation/suggest-templates"
	mt "invoice-template-workers/internal/workers/templates/manage-template"
	srt "invoice-template-workers/internal/workers/templates/search-templates"
	tt "invoice-template-workers/internal/workers/templates/transfer-template"
)

// backendRetry bounds how long startup waits for Postgres, Redis and Elasticsearch.
var backendRetry = &camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

type backends struct {
	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.NewClient(ctx, cfg.Camunda.BrokerAddress, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", nil)

	b, err := connectBackends(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("backend connection failed", zap.Error(err))
	}
	defer b.pg.Close()
	defer b.redis.Close()

	catalog, err := buildCatalog(ctx, cfg, b, log)
	if err != nil {
		zapLog.Fatal("template catalog init failed", zap.Error(err))
	}
	engine := buildEngine(cfg, log)

	pool := camunda.NewWorkerPool(zeebe.GetClient(), obs, log)
	startWorkers(ctx, cfg, pool, catalog, engine, b, obs, log)
	log.Info("workers registered", map[string]interface{}{"running": pool.Running()})

	srv := newHTTPServer(cfg.Metrics.Address, pool)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Metrics.Address})
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool.Close(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping http server", map[string]interface{}{"error": err})
	}
	log.Info("worker manager stopped gracefully", nil)
}

func connectBackends(ctx context.Context, cfg *config.Config, log logger.Logger) (*backends, error) {
	var b backends
	var err error

	err = camunda.Retry(ctx, backendRetry, log, "postgres connection", func(ctx context.Context) error {
		if b.pg == nil {
			client, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			b.pg = client
		}
		return b.pg.Ping(ctx)
	})
	if err != nil {
		return nil, err
	}

	err = camunda.Retry(ctx, backendRetry, log, "redis connection", func(ctx context.Context) error {
		if b.redis == nil {
			client, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			b.redis = client
		}
		return b.redis.Ping(ctx)
	})
	if err != nil {
		return nil, err
	}

	err = camunda.Retry(ctx, backendRetry, log, "elasticsearch connection", func(ctx context.Context) error {
		if b.es == nil {
			client, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			b.es = client
		}
		return b.es.Ping(ctx)
	})
	if err != nil {
		return nil, err
	}

	log.Info("backends connected", nil)
	return &b, nil
}

// buildCatalog seeds the registry, restores persisted templates, imports the
// configured pack unless the store has it recorded, and indexes everything.
func buildCatalog(ctx context.Context, cfg *config.Config, b *backends, log logger.Logger) (*templates.Catalog, error) {
	reg := templates.NewRegistry(templates.WithLogger(log))
	index := templates.NewSearchIndex(b.es.Client, cfg.Templates.IndexName)
	created, err := index.EnsureIndex(ctx)
	if err != nil {
		return nil, err
	}
	if created {
		log.Info("template index created", map[string]interface{}{"index": cfg.Templates.IndexName})
	}

	var (
		store  templates.Store
		marker templatepack.Marker
	)
	if cfg.Templates.Persist {
		pgStore := templates.NewPostgresStore(b.pg.DB)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		n, err := pgStore.Reload(ctx, reg)
		if err != nil {
			return nil, err
		}
		store, marker = pgStore, pgStore
		log.Info("templates restored", map[string]interface{}{"count": n})
	}

	catalog := templates.NewCatalog(reg, store, index, log)

	if cfg.Templates.PackPath != "" {
		pack, err := templatepack.Load(cfg.Templates.PackPath)
		if err != nil {
			return nil, err
		}
		res, err := templatepack.Apply(ctx, pack, catalog, marker)
		if err != nil {
			return nil, err
		}
		log.Info("template pack processed", map[string]interface{}{
			"path":           cfg.Templates.PackPath,
			"fingerprint":    res.Fingerprint,
			"alreadyApplied": res.AlreadyApplied,
			"imported":       res.Imported,
			"skipped":        res.Skipped,
		})
	}

	if failed := catalog.IndexAll(ctx); failed > 0 {
		log.Warn("some templates were not indexed", map[string]interface{}{"failed": failed})
	}
	return catalog, nil
}

func buildEngine(cfg *config.Config, log logger.Logger) *recommend.Engine {
	path := cfg.Recommendation.ScoringTablesPath
	if path == "" {
		return recommend.NewEngine(recommend.DefaultScoringTables())
	}

	tables, err := recommend.LoadScoringTables(path)
	if err != nil {
		log.Warn("falling back to built-in scoring tables", map[string]interface{}{
			"path":  path,
			"error": err,
		})
		return recommend.NewEngine(recommend.DefaultScoringTables())
	}
	log.Info("scoring tables loaded", map[string]interface{}{"path": path, "templates": len(tables)})
	return recommend.NewEngine(tables)
}

func startWorkers(
	ctx context.Context,
	cfg *config.Config,
	pool *camunda.WorkerPool,
	catalog *templates.Catalog,
	engine *recommend.Engine,
	b *backends,
	obs *observability.Observability,
	log logger.Logger,
) {
	// --- Template Workers ---
	if taskType := mt.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler := mt.NewHandler(mt.NewConfig(cfg), catalog, log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}

	if taskType := tt.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler := tt.NewHandler(tt.NewConfig(cfg), catalog, log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}

	if taskType := srt.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		srtCfg := srt.NewConfig(cfg)
		index := templates.NewSearchIndex(b.es.Client, srtCfg.IndexName)
		handler := srt.NewHandler(srtCfg, index, catalog.Registry(), log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}

	// --- Recommendation Workers ---
	if taskType := rt.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		rtCfg := rt.NewConfig(cfg)
		if ok, err := b.pg.TableExists(ctx, rt.ProfilesTable); err != nil || !ok {
			log.Warn("stored profile lookups will fail until the table exists", map[string]interface{}{
				"table": rt.ProfilesTable,
				"error": err,
			})
		}
		profiles := rt.NewProfileStore(b.pg.DB, b.redis.Client, rtCfg.ProfileCacheTTL, log)
		handler := rt.NewHandler(rtCfg, engine, profiles, b.redis.Client, obs, log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}

	if taskType := sgt.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler := sgt.NewHandler(sgt.NewConfig(cfg), engine, log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}

	if taskType := ot.TaskType; config.IsWorkerEnabled(cfg, taskType) {
		handler := ot.NewHandler(ot.NewConfig(cfg), engine, log)
		pool.Start(taskType, config.GetWorkerConfig(cfg, taskType), handler.Handle)
	}
}

func newHTTPServer(addr string, pool *camunda.WorkerPool) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		running := pool.Running()
		status, code := "ready", http.StatusOK
		if len(running) == 0 {
			status, code = "not ready", http.StatusServiceUnavailable
		}
		writeStatus(w, code, map[string]interface{}{
			"status":  status,
			"workers": running,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
