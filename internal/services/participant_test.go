package services

import (
	"errors"
	"testing"
)

func TestTouchRefreshesName(t *testing.T) {
	s := NewParticipantService(newTestDB(t))

	if _, err := s.Touch(5, "old"); err != nil {
		t.Fatalf("Touch returned error: %v", err)
	}
	p, err := s.Touch(5, "new")
	if err != nil {
		t.Fatalf("Touch returned error: %v", err)
	}
	if p.ID != 5 || p.Name != "new" {
		t.Fatalf("participant = %+v, want id 5 named new", p)
	}
}

func TestGetMissingParticipant(t *testing.T) {
	s := NewParticipantService(newTestDB(t))
	if _, err := s.Get(404); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrParticipantNotFound)
	}
}
