package profile

import (
	"errors"
	"fmt"

	"recgate/internal/domain"
)

// ErrEmptyProfile means the user contributed no vectors. Callers surface it
// as "user has no history", not as a generic failure.
var ErrEmptyProfile = errors.New("no vectors to aggregate")

// Aggregate reduces a user's message vectors to one profile vector by
// element-wise arithmetic mean. Aggregating a single vector returns it
// unchanged. A dimension mismatch between inputs means the deployment is
// misconfigured and fails the whole request.
func Aggregate(vectors []domain.Vector) (domain.Vector, error) {
	if len(vectors) == 0 {
		return nil, ErrEmptyProfile
	}
	dim := len(vectors[0])
	sums := make([]float64, dim)
	for _, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector dimension mismatch: got %d, want %d", len(v), dim)
		}
		for i, x := range v {
			sums[i] += float64(x)
		}
	}
	n := float64(len(vectors))
	out := make(domain.Vector, dim)
	for i, sum := range sums {
		out[i] = float32(sum / n)
	}
	return out, nil
}
