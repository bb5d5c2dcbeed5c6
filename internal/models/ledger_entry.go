package models

import "time"

// LedgerEntry is one participant's balance inside a scope. Rows are created on
// the first write and never deleted.
type LedgerEntry struct {
	Scope         string    `gorm:"primaryKey;size:128" json:"scope"`
	ParticipantID int64     `gorm:"primaryKey;autoIncrement:false;index" json:"participant_id"`
	Value         int       `gorm:"not null;default:0" json:"value"`
	Attempts      int       `gorm:"not null;default:0" json:"attempts"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `gorm:"index" json:"updated_at"`
	// TreatedAt is the last daily treatment; duels do not touch it.
	TreatedAt *time.Time `json:"treated_at,omitempty"`
}
