package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recgate/internal/domain"
)

type fakeVectors struct {
	vectors      map[string][]domain.Vector
	hits         []domain.SimilarityCandidate
	fetchErr     error
	nearestErr   error
	fetchCalls   int
	nearestCalls int
}

func (f *fakeVectors) FetchVectors(_ context.Context, userID string) ([]domain.Vector, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.vectors[userID], nil
}

func (f *fakeVectors) Nearest(context.Context, domain.Vector, int) ([]domain.SimilarityCandidate, error) {
	f.nearestCalls++
	if f.nearestErr != nil {
		return nil, f.nearestErr
	}
	return f.hits, nil
}

func (f *fakeVectors) Ping(context.Context) error { return nil }
func (f *fakeVectors) Close() error               { return nil }

type fakeGraph struct {
	edges map[string][]string
	err   error
	calls int
	seeds [][]string
}

func (f *fakeGraph) ExpandCampaigns(_ context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	f.calls++
	f.seeds = append(f.seeds, userIDs)
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, uid := range userIDs {
		for _, cid := range f.edges[uid] {
			if _, ok := seen[cid]; ok {
				continue
			}
			seen[cid] = struct{}{}
			out = append(out, cid)
		}
	}
	return out, nil
}

func (f *fakeGraph) Ping(context.Context) error  { return nil }
func (f *fakeGraph) Close(context.Context) error { return nil }

type fakeStats struct {
	counts map[string]int64
	err    error
	calls  int
}

func (f *fakeStats) EngagementCount(_ context.Context, campaignID string) (int64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[campaignID], nil
}

func (f *fakeStats) Ping(context.Context) error { return nil }
func (f *fakeStats) Close() error               { return nil }

type cacheEntry struct {
	payload   []byte
	expiresAt time.Time
}

// fakeCache honors TTLs against a manually advanced clock.
type fakeCache struct {
	entries map[string]cacheEntry
	now     time.Time
	getErr  error
	putErr  error
	gets    int
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cacheEntry), now: time.Unix(1700000000, 0)}
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	e, ok := f.entries[key]
	if !ok || f.now.After(e.expiresAt) {
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (f *fakeCache) Put(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	f.entries[key] = cacheEntry{payload: payload, expiresAt: f.now.Add(ttl)}
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

type fixture struct {
	vectors *fakeVectors
	graph   *fakeGraph
	stats   *fakeStats
	cache   *fakeCache
	svc     *Recommender
}

func newFixture() *fixture {
	vectors := &fakeVectors{
		vectors: map[string][]domain.Vector{"bob": {{1, 0}}},
		hits: []domain.SimilarityCandidate{
			{UserID: "bob", Score: 1.0},
			{UserID: "carol", Score: 0.9},
			{UserID: "dave", Score: 0.8},
		},
	}
	graph := &fakeGraph{edges: map[string][]string{
		"carol": {"c1"},
		"dave":  {"c2"},
	}}
	stats := &fakeStats{counts: map[string]int64{"c1": 10, "c2": 3}}
	cache := newFakeCache()
	svc := New(vectors, graph, stats, cache, 60*time.Second, zerolog.Nop())
	return &fixture{vectors: vectors, graph: graph, stats: stats, cache: cache, svc: svc}
}

func TestRecommendComposesFullResponse(t *testing.T) {
	f := newFixture()
	rec, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)

	assert.Equal(t, "bob", rec.UserID)
	assert.Equal(t, []string{"carol", "dave"}, rec.SimilarUsers)
	require.Len(t, rec.RecommendedCampaigns, 2)
	assert.Equal(t, domain.CampaignCandidate{CampaignID: "c1", Score: 10}, rec.RecommendedCampaigns[0])
	assert.Equal(t, domain.CampaignCandidate{CampaignID: "c2", Score: 3}, rec.RecommendedCampaigns[1])
	assert.NotContains(t, rec.SimilarUsers, "bob")
}

func TestRecommendUserWithoutHistoryIsNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Recommend(context.Background(), "alice", 5)
	assert.ErrorIs(t, err, domain.ErrNoHistory)
	// downstream stages never ran
	assert.Zero(t, f.vectors.nearestCalls)
	assert.Zero(t, f.graph.calls)
	assert.Zero(t, f.stats.calls)
}

func TestRecommendRejectsNonPositiveK(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Recommend(context.Background(), "bob", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Zero(t, f.cache.gets)
	assert.Zero(t, f.vectors.fetchCalls)
}

func TestRecommendRejectsEmptyUserID(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Recommend(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestRecommendGraphOutageFailsWholeRequest(t *testing.T) {
	f := newFixture()
	f.graph.err = domain.StoreUnavailable("neo4j", errors.New("connection refused"))

	rec, err := f.svc.Recommend(context.Background(), "bob", 2)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	// no partial response with similar users but no campaigns
	assert.Nil(t, rec)
	assert.Zero(t, f.stats.calls)
	assert.Zero(t, f.cache.puts)
}

func TestRecommendVectorOutageFailsWholeRequest(t *testing.T) {
	f := newFixture()
	f.vectors.fetchErr = domain.StoreUnavailable("milvus", errors.New("connection refused"))
	_, err := f.svc.Recommend(context.Background(), "bob", 2)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestRecommendCacheHitSkipsStores(t *testing.T) {
	f := newFixture()
	first, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)

	second, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// all pipeline stages ran exactly once
	assert.Equal(t, 1, f.vectors.fetchCalls)
	assert.Equal(t, 1, f.vectors.nearestCalls)
	assert.Equal(t, 1, f.graph.calls)
	assert.Equal(t, 2, f.stats.calls)
}

func TestRecommendRecomputesAfterExpiry(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)

	f.cache.now = f.cache.now.Add(61 * time.Second)
	_, err = f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)

	assert.Equal(t, 2, f.vectors.fetchCalls)
	assert.Equal(t, 2, f.graph.calls)
}

func TestRecommendDifferentSizesUseDifferentCacheKeys(t *testing.T) {
	f := newFixture()
	rec2, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)
	rec1, err := f.svc.Recommend(context.Background(), "bob", 1)
	require.NoError(t, err)

	assert.Len(t, rec2.RecommendedCampaigns, 2)
	assert.Len(t, rec1.RecommendedCampaigns, 1)
	assert.Equal(t, 2, f.vectors.fetchCalls)
}

func TestRecommendCacheWriteFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.cache.putErr = domain.StoreUnavailable("redis", errors.New("connection refused"))

	rec, err := f.svc.Recommend(context.Background(), "bob", 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", rec.UserID)
}

func TestRecommendCacheReadFailureIsFatal(t *testing.T) {
	f := newFixture()
	f.cache.getErr = domain.StoreUnavailable("redis", errors.New("connection refused"))
	_, err := f.svc.Recommend(context.Background(), "bob", 2)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Zero(t, f.vectors.fetchCalls)
}

func TestRecommendFallsBackToOwnHistory(t *testing.T) {
	// bob is the only indexed user, so exclusion leaves no similar users;
	// his own interactions still produce campaigns
	f := newFixture()
	f.vectors.hits = []domain.SimilarityCandidate{{UserID: "bob", Score: 1.0}}
	f.graph.edges["bob"] = []string{"c9"}

	rec, err := f.svc.Recommend(context.Background(), "bob", 3)
	require.NoError(t, err)
	assert.Empty(t, rec.SimilarUsers)
	require.Len(t, rec.RecommendedCampaigns, 1)
	assert.Equal(t, "c9", rec.RecommendedCampaigns[0].CampaignID)
	require.Len(t, f.graph.seeds, 1)
	assert.Equal(t, []string{"bob"}, f.graph.seeds[0])
}

func TestHealthAggregatesProbes(t *testing.T) {
	f := newFixture()
	report, ok := f.svc.Health(context.Background())
	assert.True(t, ok)
	assert.True(t, report.VectorStore)
	assert.True(t, report.Graph)
	assert.True(t, report.Stats)
	assert.True(t, report.Cache)
}
