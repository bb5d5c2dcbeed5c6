package duel

import (
	"errors"
	"fmt"

	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"
)

type State int

const (
	Invited State = iota
	Resolved
	RejectedSamePerson
	RejectedConcurrent
	RejectedInsufficientInitiator
	RejectedInsufficientAcceptor
)

func (s State) String() string {
	switch s {
	case Invited:
		return "invited"
	case Resolved:
		return "resolved"
	case RejectedSamePerson:
		return "rejected_same_person"
	case RejectedConcurrent:
		return "rejected_concurrent"
	case RejectedInsufficientInitiator:
		return "rejected_insufficient_initiator"
	case RejectedInsufficientAcceptor:
		return "rejected_insufficient_acceptor"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrSamePerson           = errors.New("cannot duel yourself")
	ErrConcurrentResolution = errors.New("duel is already being resolved")
)

type Party string

const (
	PartyInitiator Party = "initiator"
	PartyAcceptor  Party = "acceptor"
)

type InsufficientBalanceError struct {
	Party Party
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s does not have enough to cover the stake", e.Party)
}

type Role string

const (
	RoleTop    Role = "top"
	RoleBottom Role = "bottom"
)

// Side is one participant's view of a resolved duel.
type Side struct {
	Participant models.Participant `json:"participant"`
	Role        Role               `json:"role"`
	Delta       int                `json:"delta"`
	Value       int                `json:"value"`
	Rank        int                `json:"rank,omitempty"`
	Ranked      bool               `json:"ranked"`
}

type Outcome struct {
	Stake  uint16                     `json:"stake"`
	Top    Side                       `json:"top"`
	Bottom Side                       `json:"bottom"`
	Winner Side                       `json:"winner"`
	Loser  Side                       `json:"loser"`
	Stats  *services.BattleStatsDelta `json:"stats,omitempty"`
}

// Resolution is either a rejection or a resolved outcome; infrastructure
// failures are returned as errors instead.
type Resolution struct {
	State      State      `json:"state"`
	Invitation Invitation `json:"-"`
	Rejection  error      `json:"-"`
	Outcome    *Outcome   `json:"outcome,omitempty"`
}

func (r Resolution) Rejected() bool {
	return r.State != Resolved
}

func rejected(state State, inv Invitation, err error) Resolution {
	return Resolution{State: state, Invitation: inv, Rejection: err}
}
