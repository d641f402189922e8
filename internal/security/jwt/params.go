package jwtutil

import "time"

// Token type claim values. Refresh tokens are stateless; the type claim is
// what keeps one endpoint from accepting the other's token.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	clockSkew  time.Duration
}

func NewManager(secret string, accessTTL, refreshTTL, clockSkew time.Duration) *Manager {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	if clockSkew < 0 {
		clockSkew = 0
	}
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		clockSkew:  clockSkew,
	}
}

func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }
