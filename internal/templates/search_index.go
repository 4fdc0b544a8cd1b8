package templates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"invoice-template-workers/internal/models"
)

const (
	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SearchIndex mirrors the catalog into Elasticsearch for full-text lookup.
type SearchIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewSearchIndex(client *elasticsearch.Client, index string) *SearchIndex {
	return &SearchIndex{client: client, index: index}
}

type SearchQuery struct {
	Text     string
	Category models.TemplateCategory
	Size     int
}

type SearchHit struct {
	TemplateID string                  `json:"templateId"`
	Name       string                  `json:"name"`
	Category   models.TemplateCategory `json:"category"`
	Origin     models.TemplateOrigin   `json:"origin"`
	Score      float64                 `json:"score"`
}

type indexedTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Origin      string `json:"origin"`
	Layout      string `json:"layout"`
	IsActive    bool   `json:"is_active"`
}

const indexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "name":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "description": {"type": "text"},
      "category":    {"type": "keyword"},
      "origin":      {"type": "keyword"},
      "layout":      {"type": "keyword"},
      "is_active":   {"type": "boolean"}
    }
  }
}`

// EnsureIndex creates the catalog index with its mapping when it does not
// exist yet. It reports whether the index was created.
func (s *SearchIndex) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := esapi.IndicesExistsRequest{Index: []string{s.index}}.Do(ctx, s.client)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", s.index, err)
	}
	exists.Body.Close()
	if exists.StatusCode == 200 {
		return false, nil
	}
	if exists.StatusCode != 404 {
		return false, fmt.Errorf("check index %s: %s", s.index, exists.Status())
	}

	res, err := esapi.IndicesCreateRequest{
		Index: s.index,
		Body:  strings.NewReader(indexMapping),
	}.Do(ctx, s.client)
	if err != nil {
		return false, fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return false, fmt.Errorf("create index %s: %s", s.index, res.Status())
	}
	return true, nil
}

// Index writes or replaces one template document.
func (s *SearchIndex) Index(ctx context.Context, t models.Template) error {
	body, err := json.Marshal(indexedTemplate{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Category:    string(t.Category),
		Origin:      string(t.Origin),
		Layout:      string(t.Config.Layout),
		IsActive:    t.IsActive,
	})
	if err != nil {
		return fmt.Errorf("encode template document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      s.index,
		DocumentID: t.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("index template %s: %w", t.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index template %s: %s", t.ID, res.Status())
	}
	return nil
}

// Remove deletes a template document. A missing document is not an error.
func (s *SearchIndex) Remove(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: s.index, DocumentID: id, Refresh: "true"}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return fmt.Errorf("remove template %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove template %s: %s", id, res.Status())
	}
	return nil
}

// ErrIndexNotFound is returned by Search when the catalog index is missing.
var ErrIndexNotFound = errors.New("template index not found")

func (s *SearchIndex) Search(ctx context.Context, q SearchQuery) ([]SearchHit, int64, error) {
	body, err := json.Marshal(buildSearchQuery(q))
	if err != nil {
		return nil, 0, fmt.Errorf("encode search query: %w", err)
	}

	size := q.Size
	if size < 1 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, 0, fmt.Errorf("search templates: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return nil, 0, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, 0, fmt.Errorf("search templates: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Score  float64         `json:"_score"`
				Source indexedTemplate `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		hits = append(hits, SearchHit{
			TemplateID: h.ID,
			Name:       h.Source.Name,
			Category:   models.TemplateCategory(h.Source.Category),
			Origin:     models.TemplateOrigin(h.Source.Origin),
			Score:      h.Score,
		})
	}
	return hits, r.Hits.Total.Value, nil
}

func buildSearchQuery(q SearchQuery) map[string]interface{} {
	must := []interface{}{}
	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Text,
				"fields": []string{"name^3", "description^2", "category"},
				"type":   "best_fields",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if q.Category != "" {
		boolQuery["filter"] = []interface{}{
			map[string]interface{}{"term": map[string]interface{}{"category": string(q.Category)}},
		}
	}

	return map[string]interface{}{"query": map[string]interface{}{"bool": boolQuery}}
}
