// Package index publishes faculty records to an Elasticsearch index for search.
package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/jonathan/faculty-enricher/internal/logger"
	"github.com/jonathan/faculty-enricher/internal/types"
)

// DefaultIndex is the index name used when none is configured.
const DefaultIndex = "faculty_records"

// Config configures the Elasticsearch connection.
type Config struct {
	URL      string `json:"url"`
	Index    string `json:"index,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper `json:"-"`
}

// indexMapping keeps URLs and location as exact-match keywords and the prose fields searchable.
const indexMapping = `{
  "mappings": {
    "properties": {
      "id":                      {"type": "keyword"},
      "faculty_name":            {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "faculty_department_name": {"type": "text"},
      "faculty_university_name": {"type": "text"},
      "faculty_phone":           {"type": "keyword"},
      "faculty_email":           {"type": "keyword"},
      "faculty_expertise":       {"type": "text"},
      "faculty_homepage_url":    {"type": "keyword"},
      "faculty_department_url":  {"type": "keyword"},
      "faculty_university_url":  {"type": "keyword"},
      "faculty_biodata":         {"type": "text"},
      "faculty_location":        {"type": "keyword"}
    }
  }
}`

// Elastic is a record sink that bulk-indexes records by ID.
type Elastic struct {
	client *es.Client
	index  string
	log    logger.Logger
}

// normalizeURL normalizes the Elasticsearch URL by adding http:// prefix if missing
func normalizeURL(url string) string {
	if url == "" {
		return "http://localhost:9200"
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "http://" + url
	}
	return url
}

// NewElastic creates the Elasticsearch client. It does not contact the server.
func NewElastic(cfg Config, log logger.Logger) (*Elastic, error) {
	if log == nil {
		log = logger.NewNop()
	}
	index := cfg.Index
	if index == "" {
		index = DefaultIndex
	}

	clientConfig := es.Config{
		Addresses: []string{normalizeURL(cfg.URL)},
		Transport: cfg.Transport,
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &Elastic{client: client, index: index, log: log}, nil
}

// Index returns the target index name.
func (e *Elastic) Index() string {
	return e.index
}

// EnsureIndex creates the index with its mapping when it does not exist yet.
func (e *Elastic) EnsureIndex(ctx context.Context) error {
	res, err := e.client.Indices.Exists([]string{e.index}, e.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", e.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status checking index %s: %s", e.index, res.Status())
	}

	res, err = e.client.Indices.Create(e.index,
		e.client.Indices.Create.WithContext(ctx),
		e.client.Indices.Create.WithBody(strings.NewReader(indexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", e.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", e.index, res.String())
	}
	e.log.Info("created index", logger.String("index", e.index))
	return nil
}

type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		ID     string `json:"_id"`
		Status int    `json:"status"`
		Error  *struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error,omitempty"`
	} `json:"items"`
}

// AddRecords implements the pipeline sink with a single bulk request.
func (e *Elastic) AddRecords(ctx context.Context, records []types.FacultyRecord) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range records {
		meta := map[string]any{
			"index": map[string]any{
				"_index": e.index,
				"_id":    r.ID.String(),
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk request failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk indexing error: %s", res.String())
	}

	var body bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("error decoding bulk response: %w", err)
	}
	if !body.Errors {
		e.log.Debug("indexed records", logger.String("index", e.index), logger.Int("count", len(records)))
		return nil
	}

	var failed []string
	for _, item := range body.Items {
		for _, result := range item {
			if result.Error != nil {
				failed = append(failed, fmt.Sprintf("%s: %s", result.ID, result.Error.Reason))
			}
		}
	}
	return fmt.Errorf("bulk indexing failed for %d of %d records: %s",
		len(failed), len(records), strings.Join(failed, "; "))
}
