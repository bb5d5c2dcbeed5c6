package duel

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	TokenPrefix = "btf"

	tokenDelimiter = ":"

	// issue times are counted from 2024-06-22T00:00:00Z to keep tokens short
	anchorMillis int64 = 1719014400000
)

// Invitation is a duel proposal. It only exists inside a callback token and
// its identity is the whole tuple.
type Invitation struct {
	InitiatorID int64
	Stake       uint16
	IssuedAt    int64
}

func (i Invitation) Key() string {
	return fmt.Sprintf("%d:%d:%d", i.InitiatorID, i.Stake, i.IssuedAt)
}

// IssueTime converts the anchor-relative offset back to wall time.
func (i Invitation) IssueTime() time.Time {
	return time.UnixMilli(anchorMillis + i.IssuedAt).UTC()
}

type InvalidTokenError struct {
	Field  string
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid invitation token: %s: %s", e.Field, e.Reason)
}

// TokenCodec builds and parses invitation callback data. Tokens are not
// signed; they rely on the callback channel being opaque to third parties.
type TokenCodec struct {
	now func() time.Time
}

func NewTokenCodec() *TokenCodec {
	return &TokenCodec{now: time.Now}
}

func (c *TokenCodec) Encode(initiatorID int64, stake uint16) string {
	offset := c.now().UnixMilli() - anchorMillis
	return strings.Join([]string{
		TokenPrefix,
		strconv.FormatInt(initiatorID, 10),
		strconv.FormatUint(uint64(stake), 10),
		strconv.FormatInt(offset, 10),
	}, tokenDelimiter)
}

func (c *TokenCodec) Decode(token string) (Invitation, error) {
	parts := strings.Split(token, tokenDelimiter)
	if parts[0] != TokenPrefix {
		return Invitation{}, &InvalidTokenError{Field: "prefix", Reason: fmt.Sprintf("expected %q, got %q", TokenPrefix, parts[0])}
	}

	var inv Invitation
	uid, err := field(parts, 1, "uid")
	if err != nil {
		return Invitation{}, err
	}
	if inv.InitiatorID, err = strconv.ParseInt(uid, 10, 64); err != nil || inv.InitiatorID <= 0 {
		return Invitation{}, &InvalidTokenError{Field: "uid", Reason: fmt.Sprintf("%q is not a positive integer", uid)}
	}

	bet, err := field(parts, 2, "bet")
	if err != nil {
		return Invitation{}, err
	}
	stake, err := strconv.ParseUint(bet, 10, 16)
	if err != nil || stake == 0 {
		return Invitation{}, &InvalidTokenError{Field: "bet", Reason: fmt.Sprintf("%q is not a stake in 1..65535", bet)}
	}
	inv.Stake = uint16(stake)

	ts, err := field(parts, 3, "timestamp")
	if err != nil {
		return Invitation{}, err
	}
	if inv.IssuedAt, err = strconv.ParseInt(ts, 10, 64); err != nil {
		return Invitation{}, &InvalidTokenError{Field: "timestamp", Reason: fmt.Sprintf("%q is not an integer", ts)}
	}

	if len(parts) > 4 {
		return Invitation{}, &InvalidTokenError{Field: "token", Reason: fmt.Sprintf("unexpected %d trailing fields", len(parts)-4)}
	}
	return inv, nil
}

func HasPrefix(data string) bool {
	return strings.HasPrefix(data, TokenPrefix+tokenDelimiter)
}

func field(parts []string, i int, name string) (string, error) {
	if i >= len(parts) || parts[i] == "" {
		return "", &InvalidTokenError{Field: name, Reason: "missing"}
	}
	return parts[i], nil
}
