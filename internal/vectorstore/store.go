package vectorstore

import (
	"context"

	"recgate/internal/domain"
)

// Oversample is the factor applied to the caller's limit before querying the
// underlying index. The raw hit list still contains duplicates (one per
// indexed message) and possibly the subject user; oversampling leaves enough
// candidates after upstream deduplication and self-exclusion.
const Oversample = 5

// Store retrieves stored embedding vectors and performs approximate
// nearest-neighbor search over them.
type Store interface {
	// FetchVectors returns all vectors recorded for the user, in no
	// particular order. A user with no vectors yields an empty slice, not an
	// error.
	FetchVectors(ctx context.Context, userID string) ([]domain.Vector, error)

	// Nearest queries the index for limit*Oversample hits near the given
	// vector and returns them as raw (user, score) candidates. Higher score
	// always means more similar.
	Nearest(ctx context.Context, vector domain.Vector, limit int) ([]domain.SimilarityCandidate, error)

	// Ping probes store reachability for health checks.
	Ping(ctx context.Context) error

	Close() error
}
