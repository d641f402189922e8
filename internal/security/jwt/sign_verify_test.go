package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func testManager() *Manager {
	return NewManager("0123456789abcdef0123456789abcdef", 30*time.Minute, 168*time.Hour, time.Minute)
}

func TestSignPairAndParse(t *testing.T) {
	m := testManager()
	access, refresh, err := m.SignPair("u-1", "frank", "user")
	if err != nil {
		t.Fatalf("SignPair: %v", err)
	}
	if access == refresh {
		t.Fatal("access and refresh tokens must differ")
	}

	ac, err := m.Parse(access)
	if err != nil {
		t.Fatalf("Parse(access): %v", err)
	}
	if ac.Subject != "u-1" || ac.Username != "frank" || ac.Role != "user" || ac.Type != TypeAccess {
		t.Fatalf("access claims %+v", ac)
	}

	rc, err := m.Parse(refresh)
	if err != nil {
		t.Fatalf("Parse(refresh): %v", err)
	}
	if rc.Type != TypeRefresh {
		t.Fatalf("refresh type %q; want %q", rc.Type, TypeRefresh)
	}
	if ac.ID == rc.ID {
		t.Fatal("jti must be unique per token")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := testManager()
	access, _, err := m.SignPair("u-1", "frank", "user")
	if err != nil {
		t.Fatalf("SignPair: %v", err)
	}
	other := NewManager("another-secret-another-secret-32", 30*time.Minute, 168*time.Hour, time.Minute)
	if _, err := other.Parse(access); err == nil {
		t.Fatal("token signed with a different secret parsed")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := testManager()
	claims := newClaims("u-1", "frank", "user", TypeAccess, "jti-1", -2*time.Minute)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	// expired beyond the one-minute leeway
	if _, err := m.Parse(tok); err == nil {
		t.Fatal("expired token parsed")
	}
}

func TestParseRejectsUnsignedAlg(t *testing.T) {
	m := testManager()
	claims := newClaims("u-1", "frank", "admin", TypeAccess, "jti-1", time.Hour)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := m.Parse(tok); err == nil {
		t.Fatal("alg=none token parsed")
	}
}
