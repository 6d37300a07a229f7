package sqlite

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"

	"recgate/internal/domain"
)

// Store reads the campaign_stats table maintained by the out-of-band
// analytics aggregation job.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.StoreUnavailable("sqlite", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) EngagementCount(ctx context.Context, campaignID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT engagements FROM campaign_stats WHERE campaign_id = ?`, campaignID,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, domain.StoreUnavailable("sqlite", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return domain.StoreUnavailable("sqlite", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
