package database

import (
	"context"
	"encoding/json"
	"fmt"

	"invoice-template-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ClusterRed is the health status at which the catalog index cannot serve searches.
const ClusterRed = "red"

// ElasticsearchClient backs the template catalog index.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("elasticsearch: no addresses configured")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

// Health returns the cluster status: green, yellow or red.
func (c *ElasticsearchClient) Health(ctx context.Context) (string, error) {
	res, err := c.Client.Cluster.Health(c.Client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("elasticsearch health request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", fmt.Errorf("elasticsearch health error: %s", res.Status())
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode cluster health: %w", err)
	}
	return body.Status, nil
}

// Ping succeeds once the cluster answers with a yellow or green status.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	status, err := c.Health(ctx)
	if err != nil {
		return err
	}
	if status == ClusterRed {
		return fmt.Errorf("elasticsearch cluster is %s", status)
	}
	return nil
}
