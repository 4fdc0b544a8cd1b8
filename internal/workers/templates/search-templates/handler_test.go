// internal/workers/templates/search-templates/handler_test.go
package searchtemplates

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-template-workers/internal/common/errors"
	"invoice-template-workers/internal/common/logger"
	"invoice-template-workers/internal/models"
	"invoice-template-workers/internal/templates"
)

// ==========================
// Test Helper Functions
// ==========================

type stubSearcher struct {
	hits  []templates.SearchHit
	total int64
	err   error
	last  templates.SearchQuery
}

func (s *stubSearcher) Search(_ context.Context, q templates.SearchQuery) ([]templates.SearchHit, int64, error) {
	s.last = q
	return s.hits, s.total, s.err
}

func createTestConfig() *Config {
	return DefaultConfig()
}

func setupElasticsearch(t *testing.T, status int, body string) *templates.SearchIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return templates.NewSearchIndex(client, "invoice_templates")
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, code, stdErr.Code)
}

// ==========================
// Index-backed Search
// ==========================

func TestHandler_Execute_Elasticsearch(t *testing.T) {
	idx := setupElasticsearch(t, http.StatusOK, `{
		"hits": {
			"total": {"value": 1},
			"hits": [{"_id": "creative-bold", "_score": 3.2, "_source": {"name": "Creative Bold", "category": "creative", "origin": "built-in"}}]
		}
	}`)
	handler := NewHandler(createTestConfig(), idx, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Text: " bold ", Category: models.CategoryCreative})
	require.NoError(t, err)

	assert.Equal(t, "index", output.Source)
	assert.Equal(t, int64(1), output.Total)
	require.Len(t, output.Hits, 1)
	assert.Equal(t, "creative-bold", output.Hits[0].TemplateID)
	assert.Equal(t, 3.2, output.Hits[0].Score)
}

func TestHandler_Execute_PassesQuery(t *testing.T) {
	searcher := &stubSearcher{hits: []templates.SearchHit{}}
	handler := NewHandler(createTestConfig(), searcher, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Text: "  clean  ", Category: models.CategoryMinimal})
	require.NoError(t, err)

	assert.Equal(t, "clean", searcher.last.Text)
	assert.Equal(t, models.CategoryMinimal, searcher.last.Category)
	assert.Equal(t, 20, searcher.last.Size)
}

func TestHandler_Execute_SearchErrors(t *testing.T) {
	tests := []struct {
		name     string
		searcher Searcher
		code     errors.ErrorCode
	}{
		{"index missing", setupElasticsearch(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`), errors.ErrCodeIndexNotFound},
		{"query rejected", setupElasticsearch(t, http.StatusBadRequest, `{"error":{"type":"parsing_exception"}}`), errors.ErrCodeSearchQueryFailed},
		{"backend error", &stubSearcher{err: stderrors.New("connection reset")}, errors.ErrCodeSearchQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandler(createTestConfig(), tt.searcher, templates.NewRegistry(), logger.NewTestLogger(t))

			_, err := handler.Execute(context.Background(), &Input{Text: "bold"})
			requireCode(t, err, tt.code)
		})
	}
}

func TestHandler_Execute_Timeout(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubSearcher{err: context.DeadlineExceeded}, nil, logger.NewTestLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, err := handler.Execute(ctx, &Input{Text: "bold"})
	requireCode(t, err, errors.ErrCodeSearchTimeout)
}

func TestHandler_Execute_InvalidCategory(t *testing.T) {
	handler := NewHandler(createTestConfig(), &stubSearcher{}, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Category: "fancy"})
	requireCode(t, err, errors.ErrCodeInvalidInput)
}

// ==========================
// Registry Fallback
// ==========================

func TestHandler_Execute_RegistryFallback(t *testing.T) {
	cfg := createTestConfig()
	cfg.RegistryFallback = true
	handler := NewHandler(cfg, &stubSearcher{err: stderrors.New("no route to host")}, templates.NewRegistry(), logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Text: "clean"})
	require.NoError(t, err)

	assert.Equal(t, "registry", output.Source)
	require.Len(t, output.Hits, 2)
	assert.Equal(t, "minimal-clean", output.Hits[0].TemplateID)
	assert.Equal(t, 3.0, output.Hits[0].Score)
	assert.Equal(t, "modern-professional", output.Hits[1].TemplateID)
	assert.Equal(t, int64(2), output.Total)
}

func TestHandler_SearchRegistry(t *testing.T) {
	reg := templates.NewRegistry()
	reg.Create("Bold Invoice", nil)
	handler := NewHandler(createTestConfig(), nil, reg, logger.NewTestLogger(t))

	tests := []struct {
		name  string
		input *Input
		want  []string
	}{
		{"text", &Input{Text: "bold"}, []string{"creative-bold", ""}},
		{"category only", &Input{Category: models.CategoryCorporate}, []string{"classic-corporate"}},
		{"text and category", &Input{Text: "bold", Category: models.CategoryCreative}, []string{"creative-bold"}},
		{"no match", &Input{Text: "zzz"}, []string{}},
		{"size limit", &Input{Size: 2}, []string{"modern-professional", "minimal-clean"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, "registry", output.Source)
			require.Len(t, output.Hits, len(tt.want))
			for i, id := range tt.want {
				if id != "" {
					assert.Equal(t, id, output.Hits[i].TemplateID)
				}
			}
		})
	}
}

func TestHandler_Execute_NoBackends(t *testing.T) {
	handler := NewHandler(createTestConfig(), nil, nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{})
	requireCode(t, err, errors.ErrCodeSearchQueryFailed)
}
