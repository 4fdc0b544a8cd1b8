// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-template-workers/internal/common/config"
	"invoice-template-workers/internal/common/database"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/recommend"
	"invoice-template-workers/internal/templates"

	onboardingquestions "invoice-template-workers/internal/workers/recommendation/onboarding-questions"
	recommendtemplates "invoice-template-workers/internal/workers/recommendation/recommend-templates"
	suggesttemplates "invoice-template-workers/internal/workers/recommendation/suggest-templates"
	managetemplate "invoice-template-workers/internal/workers/templates/manage-template"
	searchtemplates "invoice-template-workers/internal/workers/templates/search-templates"
	transfertemplate "invoice-template-workers/internal/workers/templates/transfer-template"
)

const (
	e2eIndex  = "invoice_templates_e2e"
	e2eUserID = "e2e-user-001"
)

var zeebeClient zbc.Client

// env holds the live backends shared by the E2E steps.
type env struct {
	cfg     *config.Config
	pg      *database.PostgresClient
	redis   *database.RedisClient
	es      *database.ElasticsearchClient
	catalog *templates.Catalog
	engine  *recommend.Engine
	log     logger.Logger
}

func TestMain(m *testing.M) {
	if os.Getenv("E2E") == "" {
		fmt.Println("skipping e2e tests: set E2E=1 with Zeebe, Postgres, Redis and Elasticsearch running")
		os.Exit(0)
	}

	var err error
	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         "localhost:26500",
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	code := m.Run()

	zeebeClient.Close()
	os.Exit(code)
}

func TestFullE2E(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	// 1. Check all external services are available
	e := assertAllServicesConnectivity(t, cfg)

	// 2. Create tables and seed a stored profile
	createDatabaseTables(t, e)

	// 3. Template registry workers
	testTemplateLifecycle(t, e)
	testTemplateSearch(t, e)

	// 4. Recommendation workers
	testRecommendTemplates(t, e)
	testSuggestAndOnboarding(t, e)
}

// ==========================
// 1. Connectivity
// ==========================

func assertAllServicesConnectivity(t *testing.T, cfg *config.Config) *env {
	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	require.NoError(t, pg.Ping(ctx), "postgres ping failed")
	t.Cleanup(func() { pg.Close() })

	rdb, err := database.NewRedis(cfg.Database.Redis)
	require.NoError(t, err)
	require.NoError(t, rdb.Ping(ctx), "redis ping failed")
	t.Cleanup(func() { rdb.Close() })

	es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	require.NoError(t, err)
	require.NoError(t, es.Ping(ctx), "elasticsearch ping failed")

	_, err = zeebeClient.NewTopologyCommand().Send(ctx)
	require.NoError(t, err, "zeebe topology request failed")

	log := logger.NewTestLogger(t)
	return &env{
		cfg:    cfg,
		pg:     pg,
		redis:  rdb,
		es:     es,
		engine: recommend.NewEngine(recommend.DefaultScoringTables()),
		log:    log,
	}
}

// ==========================
// 2. Database Tables Setup + Test Data
// ==========================

func createDatabaseTables(t *testing.T, e *env) {
	ctx := context.Background()

	store := templates.NewPostgresStore(e.pg.DB)
	require.NoError(t, store.EnsureSchema(ctx))

	_, err := e.pg.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_profiles (
			user_id    TEXT PRIMARY KEY,
			profile    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	require.NoError(t, err)

	profile, err := json.Marshal(models.UserProfile{
		BusinessType:     models.BusinessFreelancer,
		Industry:         models.IndustryDesign,
		CompanySize:      models.SizeSolo,
		DesignPreference: models.DesignCreative,
		ColorPreference:  models.ColorBranded,
		TargetAudience:   models.AudienceClients,
		InvoiceFrequency: models.FrequencyProjectBased,
		Budget:           models.BudgetValueFocused,
		Experience:       models.ExperienceIntermediate,
		Goals:            []models.Goal{models.GoalStandOut, models.GoalLookProfessional},
	})
	require.NoError(t, err)

	_, err = e.pg.DB.ExecContext(ctx, `
		INSERT INTO user_profiles (user_id, profile) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET profile = EXCLUDED.profile, updated_at = now()`,
		e2eUserID, profile)
	require.NoError(t, err)
	require.NoError(t, e.redis.Client.Del(ctx, "user:profile:"+e2eUserID).Err())

	reg := templates.NewRegistry(templates.WithLogger(e.log))
	_, err = store.Reload(ctx, reg)
	require.NoError(t, err)

	index := templates.NewSearchIndex(e.es.Client, e2eIndex)
	e.catalog = templates.NewCatalog(reg, store, index, e.log)
	assert.Zero(t, e.catalog.IndexAll(ctx))
}

// ==========================
// 3. Template Workers
// ==========================

func testTemplateLifecycle(t *testing.T, e *env) {
	ctx := context.Background()
	manage := managetemplate.NewHandler(managetemplate.DefaultConfig(), e.catalog, e.log)
	transfer := transfertemplate.NewHandler(transfertemplate.DefaultConfig(), e.catalog, e.log)

	created, err := manage.Execute(ctx, &managetemplate.Input{Operation: managetemplate.OpCreate, Name: "E2E Studio"})
	require.NoError(t, err)
	require.NotNil(t, created.Template)
	assert.Equal(t, models.OriginCustom, created.Template.Origin)

	exported, err := transfer.Execute(ctx, &transfertemplate.Input{
		Operation:  transfertemplate.OpExport,
		TemplateID: created.Template.ID,
	})
	require.NoError(t, err)
	payload, err := json.Marshal(exported.Payload)
	require.NoError(t, err)

	imported, err := transfer.Execute(ctx, &transfertemplate.Input{Operation: transfertemplate.OpImport, Payload: payload})
	require.NoError(t, err)
	assert.Equal(t, models.OriginImported, imported.Template.Origin)

	// a fresh registry restored from Postgres sees both templates
	reg := templates.NewRegistry()
	n, err := templates.NewPostgresStore(e.pg.DB).Reload(ctx, reg)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
	_, ok := reg.GetByID(imported.Template.ID)
	assert.True(t, ok)

	deleted, err := manage.Execute(ctx, &managetemplate.Input{Operation: managetemplate.OpDelete, TemplateID: imported.Template.ID})
	require.NoError(t, err)
	assert.True(t, deleted.Deleted)
}

func testTemplateSearch(t *testing.T, e *env) {
	index := templates.NewSearchIndex(e.es.Client, e2eIndex)
	handler := searchtemplates.NewHandler(searchtemplates.DefaultConfig(), index, e.catalog.Registry(), e.log)

	output, err := handler.Execute(context.Background(), &searchtemplates.Input{Text: "bold"})
	require.NoError(t, err)
	assert.Equal(t, "index", output.Source)
	require.NotEmpty(t, output.Hits)
	assert.Equal(t, "creative-bold", output.Hits[0].TemplateID)
}

// ==========================
// 4. Recommendation Workers
// ==========================

func testRecommendTemplates(t *testing.T, e *env) {
	cfg := recommendtemplates.NewConfig(e.cfg)
	profiles := recommendtemplates.NewProfileStore(e.pg.DB, e.redis.Client, cfg.ProfileCacheTTL, e.log)
	handler := recommendtemplates.NewHandler(cfg, e.engine, profiles, e.redis.Client, nil, e.log)

	first, err := handler.Execute(context.Background(), &recommendtemplates.Input{UserID: e2eUserID})
	require.NoError(t, err)
	assert.Equal(t, "creative-bold", first.TopTemplateID)
	assert.Equal(t, recommendtemplates.SourceStored, first.ProfileSource)

	second, err := handler.Execute(context.Background(), &recommendtemplates.Input{UserID: e2eUserID})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Recommendations, second.Recommendations)

	ttl, err := e.redis.Client.TTL(context.Background(), "user:profile:"+e2eUserID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func testSuggestAndOnboarding(t *testing.T, e *env) {
	suggest := suggesttemplates.NewHandler(suggesttemplates.DefaultConfig(), e.engine, e.log)
	out, err := suggest.Execute(context.Background(), &suggesttemplates.Input{
		Profile: models.UserProfile{BusinessType: models.BusinessConsultant},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"minimal-clean", "modern-professional"}, out.TemplateIDs)

	onboarding := onboardingquestions.NewHandler(onboardingquestions.DefaultConfig(), e.engine, e.log)
	q, err := onboarding.Execute(context.Background(), &onboardingquestions.Input{})
	require.NoError(t, err)
	assert.Len(t, q.Questions, 4)
	assert.False(t, q.Complete)
}

// ==========================
// Benchmark Tests
// ==========================

func BenchmarkHandler_RecommendTemplates(b *testing.B) {
	engine := recommend.NewEngine(recommend.DefaultScoringTables())
	handler := recommendtemplates.NewHandler(recommendtemplates.DefaultConfig(), engine, nil, nil, nil, logger.NewNoOpLogger())
	input := &recommendtemplates.Input{Preset: "agency"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}

func BenchmarkHandler_SearchTemplatesRegistry(b *testing.B) {
	cfg := searchtemplates.DefaultConfig()
	handler := searchtemplates.NewHandler(cfg, nil, templates.NewRegistry(), logger.NewNoOpLogger())
	input := &searchtemplates.Input{Text: "clean"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.Execute(context.Background(), input)
	}
}
