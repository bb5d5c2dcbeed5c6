package duel

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/moeinovic/bassuli/internal/models"
	"github.com/moeinovic/bassuli/internal/services"

	"golang.org/x/sync/errgroup"
)

type Ledger interface {
	CheckSufficient(scope string, participantID int64, threshold int, dir services.Direction) (bool, error)
	ApplyPairedDelta(scope string, a, b services.Delta) (services.DeltaResult, services.DeltaResult, error)
}

type StatsRecorder interface {
	RecordBattle(scope string, winnerID, loserID int64, stake int) (*services.BattleStatsDelta, error)
}

// Directory resolves the initiator's display name, which the token does not
// carry.
type Directory interface {
	Get(id int64) (*models.Participant, error)
}

// Rules are the per-call toggles of a duel.
type Rules struct {
	CheckAcceptor bool
	Direction     services.Direction
}

type Arbiter struct {
	codec  *TokenCodec
	locks  *LockRegistry
	ledger Ledger
	stats  StatsRecorder
	dir    Directory
	src    Source
	logger *slog.Logger
}

type ArbiterOption func(*Arbiter)

func WithSource(src Source) ArbiterOption {
	return func(a *Arbiter) { a.src = src }
}

func WithLogger(logger *slog.Logger) ArbiterOption {
	return func(a *Arbiter) { a.logger = logger }
}

func WithCodec(codec *TokenCodec) ArbiterOption {
	return func(a *Arbiter) { a.codec = codec }
}

func NewArbiter(ledger Ledger, stats StatsRecorder, dir Directory, opts ...ArbiterOption) *Arbiter {
	a := &Arbiter{
		codec:  NewTokenCodec(),
		locks:  NewLockRegistry(),
		ledger: ledger,
		stats:  stats,
		dir:    dir,
		src:    DefaultSource(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "arbiter")
	return a
}

func (a *Arbiter) Codec() *TokenCodec {
	return a.codec
}

func (a *Arbiter) CreateInvitation(initiatorID int64, stake uint16) string {
	return a.codec.Encode(initiatorID, stake)
}

// CanInitiate tells whether the initiator may offer a duel for the stake at
// all; buttons are not issued otherwise.
func (a *Arbiter) CanInitiate(scope string, initiatorID int64, stake uint16, rules Rules) (bool, error) {
	return a.ledger.CheckSufficient(scope, initiatorID, int(stake), rules.Direction)
}

// Resolve runs an accepted invitation to a terminal state. Business-rule
// rejections come back as a Resolution; the error is reserved for malformed
// tokens and store failures.
func (a *Arbiter) Resolve(scope, token string, acceptor models.Participant, rules Rules) (Resolution, error) {
	inv, err := a.codec.Decode(token)
	if err != nil {
		return Resolution{}, err
	}
	log := a.logger.With("scope", scope, "initiator", inv.InitiatorID, "acceptor", acceptor.ID, "stake", inv.Stake)

	if acceptor.ID == inv.InitiatorID {
		return rejected(RejectedSamePerson, inv, ErrSamePerson), nil
	}

	guard, ok := a.locks.TryLock(inv)
	if !ok {
		log.Info("duel already in progress")
		return rejected(RejectedConcurrent, inv, ErrConcurrentResolution), nil
	}
	defer guard.Release()

	initiatorOK, acceptorOK, err := a.checkBoth(scope, inv, acceptor.ID, rules)
	if err != nil {
		return Resolution{}, err
	}
	log.Debug("balances checked", "initiator_ok", initiatorOK, "acceptor_ok", acceptorOK)

	switch {
	case initiatorOK && acceptorOK:
	case acceptorOK:
		return rejected(RejectedInsufficientInitiator, inv, &InsufficientBalanceError{Party: PartyInitiator}), nil
	default:
		return rejected(RejectedInsufficientAcceptor, inv, &InsufficientBalanceError{Party: PartyAcceptor}), nil
	}

	initiator, err := a.lookupInitiator(inv.InitiatorID)
	if err != nil {
		return Resolution{}, err
	}

	top, bottom := initiator, acceptor
	if !chance(a.src, 0.5) {
		top, bottom = acceptor, initiator
	}
	topDelta := TopDamage(a.src)
	bottomDelta := BottomDamage(a.src)

	topRes, bottomRes, err := a.ledger.ApplyPairedDelta(scope,
		services.Delta{Participant: top, Amount: topDelta},
		services.Delta{Participant: bottom, Amount: bottomDelta},
	)
	if err != nil {
		log.Error("paired delta failed", "error", err)
		return Resolution{}, err
	}

	out := &Outcome{
		Stake:  inv.Stake,
		Top:    side(top, RoleTop, topDelta, topRes),
		Bottom: side(bottom, RoleBottom, bottomDelta, bottomRes),
	}
	// equal magnitudes go to top
	if abs(bottomDelta) < abs(topDelta) {
		out.Winner, out.Loser = out.Bottom, out.Top
	} else {
		out.Winner, out.Loser = out.Top, out.Bottom
	}

	if a.stats != nil {
		stats, err := a.stats.RecordBattle(scope, out.Winner.Participant.ID, out.Loser.Participant.ID, int(inv.Stake))
		if err != nil {
			log.Error("couldn't record battle statistics", "winner", out.Winner.Participant.ID, "loser", out.Loser.Participant.ID, "error", err)
		} else {
			out.Stats = stats
		}
	}

	log.Info("duel resolved", "winner", out.Winner.Participant.ID, "top_delta", topDelta, "bottom_delta", bottomDelta)
	return Resolution{State: Resolved, Invitation: inv, Outcome: out}, nil
}

func (a *Arbiter) checkBoth(scope string, inv Invitation, acceptorID int64, rules Rules) (bool, bool, error) {
	var initiatorOK, acceptorOK bool
	var g errgroup.Group
	g.Go(func() error {
		ok, err := a.ledger.CheckSufficient(scope, inv.InitiatorID, int(inv.Stake), rules.Direction)
		initiatorOK = ok
		return err
	})
	if rules.CheckAcceptor {
		g.Go(func() error {
			ok, err := a.ledger.CheckSufficient(scope, acceptorID, int(inv.Stake), rules.Direction)
			acceptorOK = ok
			return err
		})
	} else {
		acceptorOK = true
	}
	if err := g.Wait(); err != nil {
		return false, false, fmt.Errorf("check balances: %w", err)
	}
	return initiatorOK, acceptorOK, nil
}

func (a *Arbiter) lookupInitiator(id int64) (models.Participant, error) {
	if a.dir == nil {
		return models.Participant{ID: id}, nil
	}
	p, err := a.dir.Get(id)
	if errors.Is(err, services.ErrParticipantNotFound) {
		return models.Participant{ID: id}, nil
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("initiator %d: %w", id, err)
	}
	return *p, nil
}

func side(p models.Participant, role Role, delta int, res services.DeltaResult) Side {
	return Side{
		Participant: p,
		Role:        role,
		Delta:       delta,
		Value:       res.Value,
		Rank:        res.Rank,
		Ranked:      res.Ranked,
	}
}
