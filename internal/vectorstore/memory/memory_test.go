package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recgate/internal/domain"
	"recgate/internal/vectorstore"
)

func TestFetchVectorsByUser(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Add("bob", domain.Vector{1, 0}))
	require.NoError(t, s.Add("carol", domain.Vector{0, 1}))
	require.NoError(t, s.Add("bob", domain.Vector{0.5, 0.5}))

	got, err := s.FetchVectors(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	none, err := s.FetchVectors(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAddRejectsDimensionMismatch(t *testing.T) {
	s := New(2)
	assert.Error(t, s.Add("bob", domain.Vector{1, 2, 3}))
}

func TestNearestOrdersByDotProduct(t *testing.T) {
	s := New(2)
	require.NoError(t, s.Add("carol", domain.Vector{0.9, 0}))
	require.NoError(t, s.Add("dave", domain.Vector{0.8, 0}))
	require.NoError(t, s.Add("erin", domain.Vector{0, 1}))

	hits, err := s.Nearest(context.Background(), domain.Vector{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "carol", hits[0].UserID)
	assert.Equal(t, "dave", hits[1].UserID)
	assert.InDelta(t, 0.9, hits[0].Score, 1e-6)
}

func TestNearestOversamples(t *testing.T) {
	s := New(1)
	for i := 0; i < 20; i++ {
		require.NoError(t, s.Add("u", domain.Vector{float32(i)}))
	}
	hits, err := s.Nearest(context.Background(), domain.Vector{1}, 2)
	require.NoError(t, err)
	// limit*Oversample raw hits come back so upstream dedup has material
	assert.Len(t, hits, 2*vectorstore.Oversample)
}

func TestNearestRejectsWrongDimension(t *testing.T) {
	s := New(2)
	_, err := s.Nearest(context.Background(), domain.Vector{1}, 3)
	assert.Error(t, err)
}
