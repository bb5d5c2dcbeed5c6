package duel

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedCodec(at time.Time) *TokenCodec {
	return &TokenCodec{now: func() time.Time { return at }}
}

func TestTokenRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := fixedCodec(at)

	cases := []struct {
		uid   int64
		stake uint16
	}{
		{1, 1},
		{123456789, 10},
		{9007199254740993, 65535},
	}
	for _, tc := range cases {
		token := codec.Encode(tc.uid, tc.stake)
		if !strings.HasPrefix(token, "btf:") {
			t.Fatalf("token %q lacks prefix", token)
		}
		inv, err := codec.Decode(token)
		if err != nil {
			t.Fatalf("Decode(%q) returned error: %v", token, err)
		}
		if inv.InitiatorID != tc.uid || inv.Stake != tc.stake {
			t.Fatalf("Decode(%q) = %+v, want uid %d stake %d", token, inv, tc.uid, tc.stake)
		}
		if !inv.IssueTime().Equal(at) {
			t.Fatalf("issue time = %v, want %v", inv.IssueTime(), at)
		}
	}
}

func TestTokenOffsetIsRelativeToAnchor(t *testing.T) {
	codec := fixedCodec(time.UnixMilli(anchorMillis + 1500))
	if got := codec.Encode(7, 3); got != "btf:7:3:1500" {
		t.Fatalf("Encode = %q, want btf:7:3:1500", got)
	}
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	codec := NewTokenCodec()
	cases := []struct {
		token string
		field string
	}{
		{"", "prefix"},
		{"top:page:2", "prefix"},
		{"btf", "uid"},
		{"btf::5:100", "uid"},
		{"btf:abc:5:100", "uid"},
		{"btf:-4:5:100", "uid"},
		{"btf:42", "bet"},
		{"btf:42:x:100", "bet"},
		{"btf:42:0:100", "bet"},
		{"btf:42:70000:100", "bet"},
		{"btf:42:5", "timestamp"},
		{"btf:42:5:soon", "timestamp"},
		{"btf:42:5:100:extra", "token"},
	}
	for _, tc := range cases {
		_, err := codec.Decode(tc.token)
		var invalid *InvalidTokenError
		if !errors.As(err, &invalid) {
			t.Fatalf("Decode(%q) error = %v, want InvalidTokenError", tc.token, err)
		}
		if invalid.Field != tc.field {
			t.Fatalf("Decode(%q) field = %q, want %q", tc.token, invalid.Field, tc.field)
		}
	}
}

func TestHasPrefix(t *testing.T) {
	if !HasPrefix("btf:1:2:3") {
		t.Fatal("expected invitation data to match")
	}
	if HasPrefix("btfx:1") || HasPrefix("top:page:1") {
		t.Fatal("unexpected match for foreign callback data")
	}
}

func TestInvitationKeyCoversWholeTuple(t *testing.T) {
	a := Invitation{InitiatorID: 1, Stake: 5, IssuedAt: 100}
	b := Invitation{InitiatorID: 1, Stake: 5, IssuedAt: 101}
	if a.Key() == b.Key() {
		t.Fatalf("distinct invitations share key %q", a.Key())
	}
}
