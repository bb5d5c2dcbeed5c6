package services

import (
	"errors"
	"testing"
)

func seedRanking(t *testing.T, l *StakeLedger) {
	t.Helper()
	seed := []Delta{
		{Participant: participant(1, "five"), Amount: 5},
		{Participant: participant(2, "early two"), Amount: 2},
		{Participant: participant(3, "late two"), Amount: 2},
	}
	for _, d := range seed {
		if _, err := l.Adjust(testScope, d); err != nil {
			t.Fatalf("Adjust returned error: %v", err)
		}
	}
}

func ids(rows []Row) []int64 {
	out := make([]int64, len(rows))
	for i, r := range rows {
		out[i] = r.ParticipantID
	}
	return out
}

func TestPageOrderingAndTieBreak(t *testing.T) {
	l := newTestLedger(t, LedgerConfig{})
	seedRanking(t, l)
	r := NewRankingService(l.db, RankingConfig{Ordering: OrderAscending, PaginationEnabled: true})

	best, _, err := r.Page(testScope, 0, 10, r.Best())
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if got := ids(best); len(got) != 3 || got[0] != 3 || got[1] != 2 || got[2] != 1 {
		t.Fatalf("ascending ids = %v, want [3 2 1]", got)
	}
	if best[0].Name != "late two" || best[0].Position != 1 || best[2].Position != 3 {
		t.Fatalf("unexpected rows: %+v", best)
	}

	// only the primary direction flips; equal values keep the recency order
	worst, _, err := r.Page(testScope, 0, 10, r.Worst())
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if got := ids(worst); len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 2 {
		t.Fatalf("descending ids = %v, want [1 3 2]", got)
	}
}

func TestPageFetchesOneExtra(t *testing.T) {
	l := newTestLedger(t, LedgerConfig{})
	seedRanking(t, l)
	r := NewRankingService(l.db, RankingConfig{Ordering: OrderAscending, PaginationEnabled: true})

	rows, hasMore, err := r.Page(testScope, 0, 2, OrderAscending)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if len(rows) != 2 || !hasMore {
		t.Fatalf("first page: %d rows hasMore=%v, want 2 true", len(rows), hasMore)
	}

	rows, hasMore, err = r.Page(testScope, 2, 2, OrderAscending)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if len(rows) != 1 || hasMore {
		t.Fatalf("second page: %d rows hasMore=%v, want 1 false", len(rows), hasMore)
	}
	if rows[0].Position != 3 {
		t.Fatalf("position on second page = %d, want 3", rows[0].Position)
	}
}

func TestPageRespectsPaginationToggle(t *testing.T) {
	l := newTestLedger(t, LedgerConfig{})
	seedRanking(t, l)
	r := NewRankingService(l.db, RankingConfig{Ordering: OrderAscending})

	if _, _, err := r.Page(testScope, 0, 2, OrderAscending); err != nil {
		t.Fatalf("first page returned error: %v", err)
	}
	if _, _, err := r.Page(testScope, 2, 2, OrderAscending); !errors.Is(err, ErrPaginationDisabled) {
		t.Fatalf("error = %v, want %v", err, ErrPaginationDisabled)
	}
}

func TestPageValidatesBounds(t *testing.T) {
	r := NewRankingService(newTestDB(t), RankingConfig{PaginationEnabled: true})
	for _, tc := range []struct{ offset, size int }{{-1, 10}, {0, 0}, {0, MaxPageSize + 1}} {
		if _, _, err := r.Page(testScope, tc.offset, tc.size, OrderAscending); !errors.Is(err, ErrInvalidPage) {
			t.Fatalf("Page(%d, %d) error = %v, want %v", tc.offset, tc.size, err, ErrInvalidPage)
		}
	}
}

func TestPageOfEmptyScope(t *testing.T) {
	r := NewRankingService(newTestDB(t), RankingConfig{PaginationEnabled: true})
	rows, hasMore, err := r.Page("chat:empty", 0, 10, OrderDescending)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}
	if len(rows) != 0 || hasMore {
		t.Fatalf("empty scope returned %d rows hasMore=%v", len(rows), hasMore)
	}
}
