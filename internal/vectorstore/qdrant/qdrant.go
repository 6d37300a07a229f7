package qdrant

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"recgate/internal/domain"
	"recgate/internal/vectorstore"
)

// Store is a minimal REST client to Qdrant, for deployments that index
// message embeddings there instead of Milvus. Points carry a user_id payload
// field; similarity follows the collection's configured distance, reported by
// Qdrant as a score where higher is more similar.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// scrollPageSize bounds a single per-user vector fetch. Users contribute one
// vector per message, so a page this size covers any realistic history.
const scrollPageSize = 1024

func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *Store) FetchVectors(ctx context.Context, userID string) ([]domain.Vector, error) {
	req := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "user_id", "match": map[string]any{"value": userID}},
			},
		},
		"limit":       scrollPageSize,
		"with_vector": true,
	}
	var resp struct {
		Result struct {
			Points []struct {
				Vector []float32 `json:"vector"`
			} `json:"points"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	var out []domain.Vector
	for _, p := range resp.Result.Points {
		if len(p.Vector) > 0 {
			out = append(out, domain.Vector(p.Vector))
		}
	}
	return out, nil
}

func (s *Store) Nearest(ctx context.Context, vector domain.Vector, limit int) ([]domain.SimilarityCandidate, error) {
	req := map[string]any{
		"vector":       vector,
		"limit":        limit * vectorstore.Oversample,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	url := fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection)
	if err := s.postJSON(ctx, url, req, &resp); err != nil {
		return nil, err
	}
	hits := make([]domain.SimilarityCandidate, 0, len(resp.Result))
	for _, r := range resp.Result {
		uid, _ := r.Payload["user_id"].(string)
		if uid == "" {
			continue
		}
		hits = append(hits, domain.SimilarityCandidate{UserID: uid, Score: r.Score})
	}
	return hits, nil
}

func (s *Store) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", s.url, s.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.StoreUnavailable("qdrant", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.StoreUnavailable("qdrant", fmt.Errorf("GET %s: %s", url, resp.Status))
	}
	return nil
}

func (s *Store) Close() error { return nil }

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return domain.StoreUnavailable("qdrant", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return domain.StoreUnavailable("qdrant", fmt.Errorf("POST %s: %s", url, resp.Status))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
