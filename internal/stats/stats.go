package stats

import "context"

// Store looks up aggregated engagement counters by campaign.
type Store interface {
	// EngagementCount returns the recorded engagement counter for the
	// campaign. A campaign with no recorded statistics counts as 0, which is
	// normal rather than an error.
	EngagementCount(ctx context.Context, campaignID string) (int64, error)

	// Ping probes store reachability for health checks.
	Ping(ctx context.Context) error

	Close() error
}
