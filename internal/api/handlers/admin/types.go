package admin

import (
	"context"
	"time"
)

type UserRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // "user" | "admin"
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type AuditRow struct {
	ID        int64     `json:"id"`
	AdminID   string    `json:"admin_id"`
	Action    string    `json:"action"`
	TargetID  *string   `json:"target_id,omitempty"`
	Meta      any       `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

type ListFilter struct {
	Query  string // matches email or username, case-insensitive
	Role   string
	Active *bool
	Page   int
	Size   int
}

type AuditFilter struct {
	ActorID  string
	TargetID string
	Action   string
	Since    *time.Time
	Until    *time.Time
	Page     int
	Size     int
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type StatsResponse struct {
	UsersTotal     int `json:"users_total"`
	UsersActive    int `json:"users_active"`
	BooksTotal     int `json:"books_total"`
	BooksAvailable int `json:"books_available"`
	SignupsLast24h int `json:"signups_last_24h"`
}

// Store is implemented by store/admin against PostgreSQL. The two mutations
// write their audit row in the same transaction, so a role or activation
// change without a matching audit entry cannot happen.
type Store interface {
	ListUsers(ctx context.Context, f ListFilter) ([]UserRow, int, error)
	GetUser(ctx context.Context, id string) (*UserRow, error)
	SetUserRole(ctx context.Context, id, role, adminID string) error
	SetUserActive(ctx context.Context, id string, active bool, adminID string) error
	AdminCount(ctx context.Context) (int, error)

	CountUsers(ctx context.Context) (total, active int, err error)
	CountBooks(ctx context.Context) (total, available int, err error)
	CountSignupsLast24h(ctx context.Context) (int, error)

	ListAudit(ctx context.Context, f AuditFilter) ([]AuditRow, int, error)
}
