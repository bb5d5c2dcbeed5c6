package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/moeinovic/bassuli/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	ErrEntryNotFound    = errors.New("ledger entry not found")
	ErrSameParticipant  = errors.New("paired delta needs two distinct participants")
	ErrAlreadyTreated   = errors.New("already treated today")
)

// Ordering is the primary sort direction of a scope's ranking. Ties are always
// broken by the most recent update first, then by name.
type Ordering int

const (
	OrderAscending Ordering = iota
	OrderDescending
)

func (o Ordering) Reverse() Ordering {
	if o == OrderAscending {
		return OrderDescending
	}
	return OrderAscending
}

func (o Ordering) String() string {
	if o == OrderDescending {
		return "descending"
	}
	return "ascending"
}

// Direction tells CheckSufficient how a balance is compared to a threshold.
type Direction int

const (
	AtMost Direction = iota
	AtLeast
)

func (d Direction) Satisfied(value, threshold int) bool {
	if d == AtLeast {
		return value >= threshold
	}
	return value <= threshold
}

// ParseVariant maps a game variant to its ranking order and balance check.
func ParseVariant(variant string) (Ordering, Direction, error) {
	switch variant {
	case "severity":
		return OrderAscending, AtMost, nil
	case "accumulation":
		return OrderDescending, AtLeast, nil
	}
	return 0, 0, fmt.Errorf("unknown ledger variant %q", variant)
}

type LedgerConfig struct {
	InitialValue   int
	Ordering       Ordering
	RankingEnabled bool
}

type Delta struct {
	Participant models.Participant
	Amount      int
}

type DeltaResult struct {
	ParticipantID int64 `json:"participant_id"`
	Value         int   `json:"value"`
	Rank          int   `json:"rank,omitempty"`
	Ranked        bool  `json:"ranked"`
}

// Row is a ranked ledger line joined with the participant's display name.
type Row struct {
	ParticipantID int64     `json:"participant_id"`
	Name          string    `json:"name"`
	Value         int       `json:"value"`
	Attempts      int       `json:"attempts"`
	UpdatedAt     time.Time `json:"updated_at"`
	Position      int       `json:"position"`
}

type StakeLedger struct {
	db  *gorm.DB
	cfg LedgerConfig
	now func() time.Time
}

func NewStakeLedger(db *gorm.DB, cfg LedgerConfig) *StakeLedger {
	return &StakeLedger{
		db:  db,
		cfg: cfg,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (l *StakeLedger) Config() LedgerConfig {
	return l.cfg
}

func (l *StakeLedger) Balance(scope string, participantID int64) (int, error) {
	var entry models.LedgerEntry
	err := l.db.Where("scope = ? AND participant_id = ?", scope, participantID).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return l.cfg.InitialValue, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: balance of %d in %s: %w", ErrStoreUnavailable, participantID, scope, err)
	}
	return entry.Value, nil
}

func (l *StakeLedger) CheckSufficient(scope string, participantID int64, threshold int, dir Direction) (bool, error) {
	value, err := l.Balance(scope, participantID)
	if err != nil {
		return false, err
	}
	return dir.Satisfied(value, threshold), nil
}

// ApplyPairedDelta changes both balances in one transaction. Ranks returned
// with the results are read inside that transaction.
func (l *StakeLedger) ApplyPairedDelta(scope string, a, b Delta) (DeltaResult, DeltaResult, error) {
	if a.Participant.ID == b.Participant.ID {
		return DeltaResult{}, DeltaResult{}, ErrSameParticipant
	}

	var resA, resB DeltaResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if resA, err = l.upsertWithDelta(tx, scope, a); err != nil {
			return err
		}
		if resB, err = l.upsertWithDelta(tx, scope, b); err != nil {
			return err
		}
		if err = l.fillRank(tx, scope, &resA); err != nil {
			return err
		}
		return l.fillRank(tx, scope, &resB)
	})
	if err != nil {
		return DeltaResult{}, DeltaResult{}, fmt.Errorf("%w: paired delta in %s: %w", ErrStoreUnavailable, scope, err)
	}
	return resA, resB, nil
}

func (l *StakeLedger) Adjust(scope string, d Delta) (DeltaResult, error) {
	return l.adjust(scope, d, false)
}

// AdjustDaily is Adjust limited to one call per participant, scope and UTC
// day. It returns ErrAlreadyTreated on a repeat.
func (l *StakeLedger) AdjustDaily(scope string, d Delta) (DeltaResult, error) {
	return l.adjust(scope, d, true)
}

func (l *StakeLedger) adjust(scope string, d Delta, daily bool) (DeltaResult, error) {
	var res DeltaResult
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if daily {
			res, err = l.upsertDaily(tx, scope, d)
		} else {
			res, err = l.upsertWithDelta(tx, scope, d)
		}
		if err != nil {
			return err
		}
		return l.fillRank(tx, scope, &res)
	})
	if errors.Is(err, ErrAlreadyTreated) {
		return DeltaResult{}, err
	}
	if err != nil {
		return DeltaResult{}, fmt.Errorf("%w: adjust %d in %s: %w", ErrStoreUnavailable, d.Participant.ID, scope, err)
	}
	return res, nil
}

// Rank returns ok=false when ranking is disabled, which is distinct from
// ErrEntryNotFound.
func (l *StakeLedger) Rank(scope string, participantID int64) (int, bool, error) {
	if !l.cfg.RankingEnabled {
		return 0, false, nil
	}
	pos, err := rankOf(l.db, scope, participantID, l.cfg.Ordering)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, ErrEntryNotFound
	}
	if err != nil {
		return 0, false, fmt.Errorf("%w: rank of %d in %s: %w", ErrStoreUnavailable, participantID, scope, err)
	}
	return pos, true, nil
}

// Entry returns the participant's row; Position is zero when ranking is
// disabled.
func (l *StakeLedger) Entry(scope string, participantID int64) (Row, error) {
	var row Row
	err := l.db.Table("ledger_entries AS e").
		Select("e.participant_id, COALESCE(p.name, '') AS name, e.value, e.attempts, e.updated_at").
		Joins("LEFT JOIN participants p ON p.id = e.participant_id").
		Where("e.scope = ? AND e.participant_id = ?", scope, participantID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Row{}, ErrEntryNotFound
	}
	if err != nil {
		return Row{}, fmt.Errorf("%w: entry of %d in %s: %w", ErrStoreUnavailable, participantID, scope, err)
	}
	if pos, ok, err := l.Rank(scope, participantID); err != nil {
		return Row{}, err
	} else if ok {
		row.Position = pos
	}
	return row, nil
}

func (l *StakeLedger) upsertWithDelta(tx *gorm.DB, scope string, d Delta) (DeltaResult, error) {
	now := l.now()
	if err := refreshName(tx, d.Participant, now); err != nil {
		return DeltaResult{}, err
	}

	entry := l.newEntry(scope, d, now)
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}, {Name: "participant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      gorm.Expr("ledger_entries.value + ?", d.Amount),
			"attempts":   gorm.Expr("ledger_entries.attempts + 1"),
			"updated_at": now,
		}),
	}).Create(&entry).Error
	if err != nil {
		return DeltaResult{}, fmt.Errorf("upsert %d by %d: %w", d.Participant.ID, d.Amount, err)
	}
	return readBack(tx, scope, d.Participant.ID)
}

// upsertDaily only updates a row whose last treatment is before today, so two
// racing calls cannot both pass.
func (l *StakeLedger) upsertDaily(tx *gorm.DB, scope string, d Delta) (DeltaResult, error) {
	now := l.now()
	if err := refreshName(tx, d.Participant, now); err != nil {
		return DeltaResult{}, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	entry := l.newEntry(scope, d, now)
	entry.TreatedAt = &now
	result := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "scope"}, {Name: "participant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      gorm.Expr("ledger_entries.value + ?", d.Amount),
			"attempts":   gorm.Expr("ledger_entries.attempts + 1"),
			"updated_at": now,
			"treated_at": now,
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "(ledger_entries.treated_at IS NULL OR ledger_entries.treated_at < ?)", Vars: []interface{}{today}},
		}},
	}).Create(&entry)
	if result.Error != nil {
		return DeltaResult{}, fmt.Errorf("daily upsert %d by %d: %w", d.Participant.ID, d.Amount, result.Error)
	}
	if result.RowsAffected == 0 {
		return DeltaResult{}, ErrAlreadyTreated
	}
	return readBack(tx, scope, d.Participant.ID)
}

func (l *StakeLedger) newEntry(scope string, d Delta, now time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		Scope:         scope,
		ParticipantID: d.Participant.ID,
		Value:         l.cfg.InitialValue + d.Amount,
		Attempts:      1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func refreshName(tx *gorm.DB, p models.Participant, now time.Time) error {
	if p.Name == "" {
		return nil
	}
	row := models.Participant{ID: p.ID, Name: p.Name, CreatedAt: now, UpdatedAt: now}
	err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("refresh participant %d: %w", p.ID, err)
	}
	return nil
}

func readBack(tx *gorm.DB, scope string, participantID int64) (DeltaResult, error) {
	var stored models.LedgerEntry
	if err := tx.Where("scope = ? AND participant_id = ?", scope, participantID).Take(&stored).Error; err != nil {
		return DeltaResult{}, fmt.Errorf("read back %d: %w", participantID, err)
	}
	return DeltaResult{ParticipantID: participantID, Value: stored.Value}, nil
}

func (l *StakeLedger) fillRank(tx *gorm.DB, scope string, res *DeltaResult) error {
	if !l.cfg.RankingEnabled {
		return nil
	}
	pos, err := rankOf(tx, scope, res.ParticipantID, l.cfg.Ordering)
	if err != nil {
		return fmt.Errorf("rank of %d: %w", res.ParticipantID, err)
	}
	res.Rank, res.Ranked = pos, true
	return nil
}

func rankingOrder(o Ordering) string {
	dir := "ASC"
	if o == OrderDescending {
		dir = "DESC"
	}
	return "e.value " + dir + ", e.updated_at DESC, COALESCE(p.name, '') ASC, e.participant_id ASC"
}

func rankOf(db *gorm.DB, scope string, participantID int64, o Ordering) (int, error) {
	q := `SELECT position FROM (
			SELECT e.participant_id, ROW_NUMBER() OVER (ORDER BY ` + rankingOrder(o) + `) AS position
			FROM ledger_entries e
			LEFT JOIN participants p ON p.id = e.participant_id
			WHERE e.scope = ?
		) ranked
		WHERE participant_id = ?`
	var pos int
	if err := db.Raw(q, scope, participantID).Row().Scan(&pos); err != nil {
		return 0, err
	}
	return pos, nil
}
