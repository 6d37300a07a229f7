package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"recgate/internal/domain"
	"recgate/internal/vectorstore"
)

// Store is an in-memory vector store using brute-force similarity. It exists
// for local runs and tests; scores are plain dot products, so higher is more
// similar for both inner-product and normalized (cosine) vectors.
type Store struct {
	mu        sync.RWMutex
	dimension int
	userIDs   []string
	vectors   []domain.Vector
}

func New(dimension int) *Store {
	return &Store{dimension: dimension}
}

// Add records a vector for the given user. It is the ingestion-side hook the
// external pipeline would use; tests seed fixtures through it.
func (s *Store) Add(userID string, vector domain.Vector) error {
	if userID == "" {
		return errors.New("empty user id")
	}
	if len(vector) != s.dimension {
		return fmt.Errorf("vector dimension %d does not match store dimension %d", len(vector), s.dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userIDs = append(s.userIDs, userID)
	s.vectors = append(s.vectors, vector)
	return nil
}

func (s *Store) FetchVectors(_ context.Context, userID string) ([]domain.Vector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Vector
	for i, id := range s.userIDs {
		if id == userID {
			out = append(out, s.vectors[i])
		}
	}
	return out, nil
}

func (s *Store) Nearest(_ context.Context, vector domain.Vector, limit int) ([]domain.SimilarityCandidate, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query vector dimension %d does not match store dimension %d", len(vector), s.dimension)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	hits := make([]domain.SimilarityCandidate, len(s.vectors))
	for i := range s.vectors {
		hits[i] = domain.SimilarityCandidate{UserID: s.userIDs[i], Score: dot(s.vectors[i], vector)}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if n := limit * vectorstore.Oversample; n < len(hits) {
		hits = hits[:n]
	}
	return hits, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func dot(a, b domain.Vector) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
