package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/moeinovic/bassuli/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

// Touch creates the participant or refreshes its display name.
func (s *ParticipantService) Touch(id int64, name string) (*models.Participant, error) {
	now := time.Now()
	p := models.Participant{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return nil, fmt.Errorf("%w: touch participant %d: %w", ErrStoreUnavailable, id, err)
	}
	return s.Get(id)
}

func (s *ParticipantService) Get(id int64) (*models.Participant, error) {
	var p models.Participant
	err := s.db.Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get participant %d: %w", ErrStoreUnavailable, id, err)
	}
	return &p, nil
}
