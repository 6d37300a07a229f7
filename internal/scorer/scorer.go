package scorer

import (
	"context"
	"sort"

	"recgate/internal/domain"
	"recgate/internal/stats"
)

// Scorer attaches engagement counters to campaign candidates and ranks them.
type Scorer struct {
	stats stats.Store
}

func New(store stats.Store) *Scorer {
	return &Scorer{stats: store}
}

// RankCampaigns returns up to limit campaigns ordered by descending
// engagement. Campaigns with no recorded statistics score 0; ties keep the
// input order. Empty input returns empty without touching the store.
func (s *Scorer) RankCampaigns(ctx context.Context, campaignIDs []string, limit int) ([]domain.CampaignCandidate, error) {
	if len(campaignIDs) == 0 || limit <= 0 {
		return nil, nil
	}
	ranked := make([]domain.CampaignCandidate, 0, len(campaignIDs))
	for _, cid := range campaignIDs {
		n, err := s.stats.EngagementCount(ctx, cid)
		if err != nil {
			return nil, err
		}
		ranked = append(ranked, domain.CampaignCandidate{CampaignID: cid, Score: n})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
