package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// SignPair issues an access/refresh token pair for the user.
func (m *Manager) SignPair(userID, username, role string) (access, refresh string, err error) {
	access, err = m.sign(userID, username, role, TypeAccess, m.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = m.sign(userID, username, role, TypeRefresh, m.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (m *Manager) sign(userID, username, role, typ string, ttl time.Duration) (string, error) {
	jti, err := randJTI()
	if err != nil {
		return "", err
	}
	claims := newClaims(userID, username, role, typ, jti, ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse verifies HS256 signature, expiry and leeway, returning claims.
// Callers still have to check the Type claim for the endpoint at hand.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithLeeway(m.clockSkew), jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
