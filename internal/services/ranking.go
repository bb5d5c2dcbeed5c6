package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const MaxPageSize = 100

var (
	ErrPaginationDisabled = errors.New("browsing beyond the first page is disabled")
	ErrInvalidPage        = errors.New("invalid page request")
)

type RankingConfig struct {
	// Ordering of the "best" board; the "worst" board uses its reverse.
	Ordering          Ordering
	PaginationEnabled bool
}

// RankingService serves leaderboard pages over the ledger. Pages are
// offset-based, so they are only stable while no write reorders the scope.
type RankingService struct {
	db  *gorm.DB
	cfg RankingConfig
}

func NewRankingService(db *gorm.DB, cfg RankingConfig) *RankingService {
	return &RankingService{db: db, cfg: cfg}
}

func (s *RankingService) Best() Ordering {
	return s.cfg.Ordering
}

func (s *RankingService) Worst() Ordering {
	return s.cfg.Ordering.Reverse()
}

func (s *RankingService) PaginationEnabled() bool {
	return s.cfg.PaginationEnabled
}

// Page fetches one row more than requested to learn whether another page
// exists without a count query.
func (s *RankingService) Page(scope string, offset, pageSize int, ordering Ordering) ([]Row, bool, error) {
	if offset < 0 || pageSize < 1 || pageSize > MaxPageSize {
		return nil, false, fmt.Errorf("%w: offset=%d size=%d", ErrInvalidPage, offset, pageSize)
	}
	if offset > 0 && !s.cfg.PaginationEnabled {
		return nil, false, ErrPaginationDisabled
	}

	q := `SELECT e.participant_id, COALESCE(p.name, '') AS name, e.value, e.attempts, e.updated_at,
			ROW_NUMBER() OVER (ORDER BY ` + rankingOrder(ordering) + `) AS position
		FROM ledger_entries e
		LEFT JOIN participants p ON p.id = e.participant_id
		WHERE e.scope = ?
		ORDER BY position
		LIMIT ? OFFSET ?`

	var rows []Row
	if err := s.db.Raw(q, scope, pageSize+1, offset).Scan(&rows).Error; err != nil {
		return nil, false, fmt.Errorf("%w: page of %s at %d: %w", ErrStoreUnavailable, scope, offset, err)
	}

	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}
	return rows, hasMore, nil
}
