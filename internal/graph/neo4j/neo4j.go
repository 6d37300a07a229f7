package neo4j

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"recgate/internal/domain"
)

// Store traverses the interaction graph in Neo4j. User identifiers are bound
// as query parameters, never interpolated into the Cypher text.
type Store struct {
	driver neo4j.DriverWithContext
}

type Config struct {
	URI      string
	User     string
	Password string
}

const expandQuery = `
UNWIND $uids AS uid
MATCH (:User {id: uid})-[:INTERACTED_WITH]->(c:Campaign)
RETURN DISTINCT c.id AS campaign_id`

func New(cfg Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, domain.StoreUnavailable("neo4j", err)
	}
	return &Store{driver: driver}, nil
}

func (s *Store) ExpandCampaigns(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, expandQuery, map[string]any{"uids": userIDs})
	if err != nil {
		return nil, domain.StoreUnavailable("neo4j", err)
	}
	var campaigns []string
	for result.Next(ctx) {
		if v, ok := result.Record().Get("campaign_id"); ok {
			if id, ok := v.(string); ok && id != "" {
				campaigns = append(campaigns, id)
			}
		}
	}
	if err := result.Err(); err != nil {
		return nil, domain.StoreUnavailable("neo4j", err)
	}
	return campaigns, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return domain.StoreUnavailable("neo4j", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return s.driver.Close(ctx) }
