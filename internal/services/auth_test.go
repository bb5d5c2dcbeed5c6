package services

import "testing"

func TestOperatorTokenRoundTrip(t *testing.T) {
	s := NewAuthService("test-secret")
	token, err := s.GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	operator, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if operator != "ops" {
		t.Fatalf("operator = %q, want ops", operator)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewAuthService("one").GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := NewAuthService("two").ValidateToken(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
	if _, err := NewAuthService("one").GenerateToken(""); err == nil {
		t.Fatal("expected empty operator to be rejected")
	}
}
