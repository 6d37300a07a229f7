package graph

import "context"

// Store expands users into campaigns through the historical interaction
// graph.
type Store interface {
	// ExpandCampaigns returns the distinct campaigns reachable from any of
	// the given users via a single INTERACTED_WITH edge. Empty input returns
	// empty without touching the store.
	ExpandCampaigns(ctx context.Context, userIDs []string) ([]string, error)

	// Ping probes store reachability for health checks.
	Ping(ctx context.Context) error

	Close(ctx context.Context) error
}
