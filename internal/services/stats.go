package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/moeinovic/bassuli/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WinnerStats struct {
	WinRate          float64 `json:"win_rate"`
	WinStreakCurrent int     `json:"win_streak_current"`
	WinStreakMax     int     `json:"win_streak_max"`
}

type LoserStats struct {
	WinRate float64 `json:"win_rate"`
	// PrevWinStreak is the streak the loser had before this battle.
	PrevWinStreak int `json:"prev_win_streak"`
}

type BattleStatsDelta struct {
	Winner WinnerStats `json:"winner"`
	Loser  LoserStats  `json:"loser"`
}

type BattleStatsService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewBattleStatsService(db *gorm.DB) *BattleStatsService {
	return &BattleStatsService{db: db, now: time.Now}
}

func (s *BattleStatsService) RecordBattle(scope string, winnerID, loserID int64, stake int) (*BattleStatsDelta, error) {
	var winner, loser models.BattleStats
	var prevStreak int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		prev, err := loadStats(tx, scope, loserID)
		if err != nil {
			return err
		}
		prevStreak = prev.WinStreakCurrent

		now := s.now()
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}, {Name: "participant_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"battles":            gorm.Expr("battle_stats.battles + 1"),
				"wins":               gorm.Expr("battle_stats.wins + 1"),
				"win_streak_current": gorm.Expr("battle_stats.win_streak_current + 1"),
				"win_streak_max": gorm.Expr("CASE WHEN battle_stats.win_streak_current + 1 > battle_stats.win_streak_max " +
					"THEN battle_stats.win_streak_current + 1 ELSE battle_stats.win_streak_max END"),
				"total_staked": gorm.Expr("battle_stats.total_staked + ?", stake),
				"updated_at":   now,
			}),
		}).Create(&models.BattleStats{
			Scope: scope, ParticipantID: winnerID,
			Battles: 1, Wins: 1, WinStreakCurrent: 1, WinStreakMax: 1, TotalStaked: int64(stake),
			UpdatedAt: now,
		}).Error
		if err != nil {
			return fmt.Errorf("winner %d: %w", winnerID, err)
		}

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "scope"}, {Name: "participant_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"battles":            gorm.Expr("battle_stats.battles + 1"),
				"losses":             gorm.Expr("battle_stats.losses + 1"),
				"win_streak_current": 0,
				"total_staked":       gorm.Expr("battle_stats.total_staked + ?", stake),
				"updated_at":         now,
			}),
		}).Create(&models.BattleStats{
			Scope: scope, ParticipantID: loserID,
			Battles: 1, Losses: 1, TotalStaked: int64(stake),
			UpdatedAt: now,
		}).Error
		if err != nil {
			return fmt.Errorf("loser %d: %w", loserID, err)
		}

		if winner, err = loadStats(tx, scope, winnerID); err != nil {
			return err
		}
		loser, err = loadStats(tx, scope, loserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("record battle in %s: %w", scope, err)
	}

	return &BattleStatsDelta{
		Winner: WinnerStats{
			WinRate:          winner.WinRate(),
			WinStreakCurrent: winner.WinStreakCurrent,
			WinStreakMax:     winner.WinStreakMax,
		},
		Loser: LoserStats{
			WinRate:       loser.WinRate(),
			PrevWinStreak: prevStreak,
		},
	}, nil
}

func (s *BattleStatsService) Get(scope string, participantID int64) (models.BattleStats, error) {
	return loadStats(s.db, scope, participantID)
}

func loadStats(db *gorm.DB, scope string, participantID int64) (models.BattleStats, error) {
	var st models.BattleStats
	err := db.Where("scope = ? AND participant_id = ?", scope, participantID).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.BattleStats{Scope: scope, ParticipantID: participantID}, nil
	}
	if err != nil {
		return models.BattleStats{}, fmt.Errorf("load stats of %d: %w", participantID, err)
	}
	return st, nil
}
