package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"recgate/internal/cache"
	"recgate/internal/domain"
	"recgate/internal/graph"
	"recgate/internal/profile"
	"recgate/internal/ranker"
	"recgate/internal/scorer"
	"recgate/internal/stats"
	"recgate/internal/vectorstore"
)

// Recommender sequences the recommendation pipeline: cache check, vector
// fetch, profile aggregation, similarity ranking, graph expansion, campaign
// scoring, cache store. Each request owns its intermediate data; the cache is
// the only shared resource.
type Recommender struct {
	vectors vectorstore.Store
	graph   graph.Store
	stats   stats.Store
	cache   cache.Cache
	ranker  *ranker.Ranker
	scorer  *scorer.Scorer
	ttl     time.Duration
	log     zerolog.Logger
}

func New(vectors vectorstore.Store, graphStore graph.Store, statsStore stats.Store, cacheStore cache.Cache, ttl time.Duration, log zerolog.Logger) *Recommender {
	return &Recommender{
		vectors: vectors,
		graph:   graphStore,
		stats:   statsStore,
		cache:   cacheStore,
		ranker:  ranker.New(vectors),
		scorer:  scorer.New(statsStore),
		ttl:     ttl,
		log:     log,
	}
}

// Recommend produces up to k campaign recommendations for the user, plus the
// similar users they were derived from. Either a complete response or an
// error comes back, never a partial result.
func (r *Recommender) Recommend(ctx context.Context, userID string, k int) (*domain.Recommendation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidRequest)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be a positive integer", domain.ErrInvalidRequest)
	}

	key := cache.Key(userID, k)
	payload, hit, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if hit {
		var rec domain.Recommendation
		if err := json.Unmarshal(payload, &rec); err == nil {
			return &rec, nil
		}
		r.log.Warn().Str("key", key).Msg("discarding undecodable cache entry")
	}

	vecs, err := r.vectors.FetchVectors(ctx, userID)
	if err != nil {
		return nil, err
	}
	profileVec, err := profile.Aggregate(vecs)
	if err != nil {
		if errors.Is(err, profile.ErrEmptyProfile) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoHistory, userID)
		}
		return nil, err
	}

	similar, err := r.ranker.RankSimilar(ctx, profileVec, userID, k)
	if err != nil {
		return nil, err
	}

	// With no similar users left after self-exclusion, fall back to the
	// user's own interaction history so returning customers still see
	// campaigns.
	seeds := similar
	if len(seeds) == 0 {
		seeds = []string{userID}
	}
	campaigns, err := r.graph.ExpandCampaigns(ctx, seeds)
	if err != nil {
		return nil, err
	}

	ranked, err := r.scorer.RankCampaigns(ctx, campaigns, k)
	if err != nil {
		return nil, err
	}
	if ranked == nil {
		ranked = []domain.CampaignCandidate{}
	}
	if similar == nil {
		similar = []string{}
	}
	rec := &domain.Recommendation{
		UserID:               userID,
		RecommendedCampaigns: ranked,
		SimilarUsers:         similar,
	}

	// Best effort: a failed cache write degrades performance, never the
	// response.
	if payload, err := json.Marshal(rec); err == nil {
		if err := r.cache.Put(ctx, key, payload, r.ttl); err != nil {
			r.log.Warn().Str("key", key).Err(err).Msg("cache write failed, serving uncached response")
		}
	}
	return rec, nil
}

// HealthReport carries one reachability outcome per required store.
type HealthReport struct {
	VectorStore bool `json:"vector_store_ok"`
	Graph       bool `json:"graph_ok"`
	Stats       bool `json:"stats_ok"`
	Cache       bool `json:"cache_ok"`
}

// Health probes every required store individually so a failing component is
// named instead of masked behind one aggregate error.
func (r *Recommender) Health(ctx context.Context) (HealthReport, bool) {
	report := HealthReport{
		VectorStore: r.probe(ctx, "vector store", r.vectors.Ping),
		Graph:       r.probe(ctx, "graph store", r.graph.Ping),
		Stats:       r.probe(ctx, "stats store", r.stats.Ping),
		Cache:       r.probe(ctx, "cache store", r.cache.Ping),
	}
	return report, report.VectorStore && report.Graph && report.Stats && report.Cache
}

func (r *Recommender) probe(ctx context.Context, name string, ping func(context.Context) error) bool {
	if err := ping(ctx); err != nil {
		r.log.Error().Str("store", name).Err(err).Msg("health probe failed")
		return false
	}
	return true
}
