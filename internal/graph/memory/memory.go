package memory

import (
	"context"
	"sync"
)

// Store is an in-memory interaction graph keyed by user. Duplicate edges
// collapse on expansion; output order follows first occurrence.
type Store struct {
	mu    sync.RWMutex
	edges map[string][]string
}

func New(edges map[string][]string) *Store {
	if edges == nil {
		edges = make(map[string][]string)
	}
	return &Store{edges: edges}
}

// AddEdge records an interaction between a user and a campaign.
func (s *Store) AddEdge(userID, campaignID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edges[userID] = append(s.edges[userID], campaignID)
}

func (s *Store) ExpandCampaigns(_ context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var campaigns []string
	for _, uid := range userIDs {
		for _, cid := range s.edges[uid] {
			if _, ok := seen[cid]; ok {
				continue
			}
			seen[cid] = struct{}{}
			campaigns = append(campaigns, cid)
		}
	}
	return campaigns, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close(context.Context) error { return nil }
