package ranker

import (
	"context"
	"sort"

	"recgate/internal/domain"
	"recgate/internal/vectorstore"
)

// Ranker turns raw oversampled ANN hits into an ordered list of distinct
// similar users.
type Ranker struct {
	store vectorstore.Store
}

func New(store vectorstore.Store) *Ranker {
	return &Ranker{store: store}
}

// RankSimilar queries the vector store around the profile vector and returns
// up to limit distinct user ids, most similar first. The excluded user never
// appears in the output; a user indexed under several messages collapses to
// its best score. Ties keep first-seen order. An empty result is not an
// error.
func (r *Ranker) RankSimilar(ctx context.Context, profile domain.Vector, excludeUserID string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	hits, err := r.store.Nearest(ctx, profile, limit)
	if err != nil {
		return nil, err
	}
	// Explicit first-seen ordered map: order carries insertion order, best
	// carries the max score observed per user.
	order := make([]string, 0, len(hits))
	best := make(map[string]float32, len(hits))
	for _, h := range hits {
		if h.UserID == "" || h.UserID == excludeUserID {
			continue
		}
		if prev, seen := best[h.UserID]; seen {
			if h.Score > prev {
				best[h.UserID] = h.Score
			}
			continue
		}
		best[h.UserID] = h.Score
		order = append(order, h.UserID)
	}
	sort.SliceStable(order, func(i, j int) bool { return best[order[i]] > best[order[j]] })
	if limit < len(order) {
		order = order[:limit]
	}
	return order, nil
}
