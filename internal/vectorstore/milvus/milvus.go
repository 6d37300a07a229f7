package milvus

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"recgate/internal/domain"
	"recgate/internal/vectorstore"
)

// Store talks to a Milvus collection holding one row per embedded message,
// with fields user_id (varchar), message_id (varchar) and embedding
// (float_vector indexed with HNSW).
type Store struct {
	c          client.Client
	collection string
	metric     entity.MetricType
	searchEF   int
	timeout    time.Duration
}

type Config struct {
	Host       string
	Port       int
	Collection string
	Metric     string // IP or COSINE, fixed per deployment
	SearchEF   int
	Timeout    time.Duration
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := client.NewGrpcClient(dialCtx, fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	if err != nil {
		return nil, domain.StoreUnavailable("milvus", err)
	}
	metric := entity.IP
	if cfg.Metric == "COSINE" {
		metric = entity.COSINE
	}
	searchEF := cfg.SearchEF
	if searchEF == 0 {
		searchEF = 128
	}
	return &Store{c: c, collection: cfg.Collection, metric: metric, searchEF: searchEF, timeout: timeout}, nil
}

// Milvus boolean expressions have no placeholder binding, so identifiers are
// never interpolated unless they match this strict character set.
var safeUserID = regexp.MustCompile(`^[A-Za-z0-9._:@-]+$`)

func (s *Store) FetchVectors(ctx context.Context, userID string) ([]domain.Vector, error) {
	if !safeUserID.MatchString(userID) {
		return nil, fmt.Errorf("%w: user id contains characters not allowed in a query expression", domain.ErrInvalidRequest)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	expr := fmt.Sprintf(`user_id == "%s"`, userID)
	rs, err := s.c.Query(ctx, s.collection, nil, expr, []string{"embedding"})
	if err != nil {
		return nil, domain.StoreUnavailable("milvus", err)
	}
	col := rs.GetColumn("embedding")
	if col == nil || col.Len() == 0 {
		return nil, nil
	}
	fv, ok := col.(*entity.ColumnFloatVector)
	if !ok {
		return nil, fmt.Errorf("milvus: embedding column has unexpected type %T", col)
	}
	data := fv.Data()
	out := make([]domain.Vector, len(data))
	for i, v := range data {
		out[i] = domain.Vector(v)
	}
	return out, nil
}

func (s *Store) Nearest(ctx context.Context, vector domain.Vector, limit int) ([]domain.SimilarityCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	sp, err := entity.NewIndexHNSWSearchParam(s.searchEF)
	if err != nil {
		return nil, fmt.Errorf("milvus: build search params: %w", err)
	}
	results, err := s.c.Search(
		ctx,
		s.collection,
		nil,
		"",
		[]string{"user_id"},
		[]entity.Vector{entity.FloatVector(vector)},
		"embedding",
		s.metric,
		limit*vectorstore.Oversample,
		sp,
	)
	if err != nil {
		return nil, domain.StoreUnavailable("milvus", err)
	}
	var hits []domain.SimilarityCandidate
	for _, result := range results {
		uids, ok := result.Fields.GetColumn("user_id").(*entity.ColumnVarChar)
		if !ok {
			continue
		}
		for i := 0; i < uids.Len() && i < len(result.Scores); i++ {
			hits = append(hits, domain.SimilarityCandidate{UserID: uids.Data()[i], Score: result.Scores[i]})
		}
	}
	return hits, nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	exists, err := s.c.HasCollection(ctx, s.collection)
	if err != nil {
		return domain.StoreUnavailable("milvus", err)
	}
	if !exists {
		return domain.StoreUnavailable("milvus", fmt.Errorf("collection %s not provisioned", s.collection))
	}
	return nil
}

func (s *Store) Close() error { return s.c.Close() }
