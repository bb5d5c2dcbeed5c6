package models

import "time"

type BattleStats struct {
	Scope            string    `gorm:"primaryKey;size:128" json:"scope"`
	ParticipantID    int64     `gorm:"primaryKey;autoIncrement:false" json:"participant_id"`
	Battles          int       `gorm:"not null;default:0" json:"battles"`
	Wins             int       `gorm:"not null;default:0" json:"wins"`
	Losses           int       `gorm:"not null;default:0" json:"losses"`
	WinStreakCurrent int       `gorm:"not null;default:0" json:"win_streak_current"`
	WinStreakMax     int       `gorm:"not null;default:0" json:"win_streak_max"`
	TotalStaked      int64     `gorm:"not null;default:0" json:"total_staked"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s BattleStats) WinRate() float64 {
	if s.Battles == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Battles)
}
