package adminstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	admin "github.com/mirtitov/library-catalog/internal/api/handlers/admin"
	"github.com/mirtitov/library-catalog/internal/store/dbx"
)

type Store struct{ db *sql.DB }

func New(db *sql.DB) admin.Store { return &Store{db: db} }

// ---------- helpers ----------

func buildListUsersWhere(f admin.ListFilter) (string, []any) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if f.Query != "" {
		args = append(args, "%"+strings.TrimSpace(f.Query)+"%")
		clauses = append(clauses, fmt.Sprintf("(email ILIKE $%d OR username ILIKE $%d)", len(args), len(args)))
	}
	if f.Role != "" {
		args = append(args, f.Role)
		clauses = append(clauses, fmt.Sprintf("role = $%d", len(args)))
	}
	if f.Active != nil {
		args = append(args, *f.Active)
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func buildAuditWhere(f admin.AuditFilter) (string, []any) {
	clauses := make([]string, 0, 5)
	args := make([]any, 0, 5)
	if f.ActorID != "" {
		args = append(args, f.ActorID)
		clauses = append(clauses, fmt.Sprintf("admin_id = $%d", len(args)))
	}
	if f.TargetID != "" {
		args = append(args, f.TargetID)
		clauses = append(clauses, fmt.Sprintf("target_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		clauses = append(clauses, fmt.Sprintf("action = $%d", len(args)))
	}
	if f.Since != nil {
		args = append(args, *f.Since)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.Until != nil {
		args = append(args, *f.Until)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

// ---------- users ----------

func (s *Store) ListUsers(ctx context.Context, f admin.ListFilter) ([]admin.UserRow, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 200 {
		f.Size = 25
	}
	where, args := buildListUsersWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Size
	argsWithPage := append(append([]any{}, args...), f.Size, offset)
	listSQL := `
SELECT user_id, email, username, role, is_active, created_at
FROM users
` + where + `
ORDER BY created_at DESC
LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]admin.UserRow, 0, f.Size)
	for rows.Next() {
		var u admin.UserRow
		if err := rows.Scan(&u.ID, &u.Email, &u.Username, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*admin.UserRow, error) {
	const q = `
SELECT user_id, email, username, role, is_active, created_at
FROM users
WHERE user_id = $1`
	var u admin.UserRow
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.Role, &u.IsActive, &u.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// SetUserRole updates the role and its audit row in one transaction.
func (s *Store) SetUserRole(ctx context.Context, id, role, adminID string) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		const q = `UPDATE users SET role = $1, updated_at = now() WHERE user_id = $2`
		res, err := tx.ExecContext(ctx, q, role, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		return insertAudit(ctx, tx, adminID, "user.role.set", id, map[string]string{"role": role})
	})
}

// SetUserActive flips is_active and records user.activate / user.deactivate,
// both or neither.
func (s *Store) SetUserActive(ctx context.Context, id string, active bool, adminID string) error {
	return dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		const q = `UPDATE users SET is_active = $1, updated_at = now() WHERE user_id = $2`
		res, err := tx.ExecContext(ctx, q, active, id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return sql.ErrNoRows
		}
		action := "user.deactivate"
		if active {
			action = "user.activate"
		}
		return insertAudit(ctx, tx, adminID, action, id, nil)
	})
}

func (s *Store) AdminCount(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active`
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ---------- stats ----------

func (s *Store) CountUsers(ctx context.Context) (int, int, error) {
	const q = `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM users`
	var total, active int
	if err := s.db.QueryRowContext(ctx, q).Scan(&total, &active); err != nil {
		return 0, 0, err
	}
	return total, active, nil
}

func (s *Store) CountBooks(ctx context.Context) (int, int, error) {
	const q = `SELECT COUNT(*), COUNT(*) FILTER (WHERE available) FROM books`
	var total, available int
	if err := s.db.QueryRowContext(ctx, q).Scan(&total, &available); err != nil {
		return 0, 0, err
	}
	return total, available, nil
}

func (s *Store) CountSignupsLast24h(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM users WHERE created_at >= now() - interval '24 hours'`
	var n int
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ---------- audit ----------

func insertAudit(ctx context.Context, db dbx.Execer, adminID, action, targetID string, meta any) error {
	metaJSON := "{}"
	if meta != nil {
		b, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		metaJSON = string(b)
	}
	const q = `
INSERT INTO admin_audit (admin_id, action, target_id, meta, created_at)
VALUES ($1, $2, $3, $4::jsonb, $5)`
	_, err := db.ExecContext(ctx, q, adminID, action, nullIfEmpty(targetID), metaJSON, time.Now().UTC())
	return err
}

func (s *Store) ListAudit(ctx context.Context, f admin.AuditFilter) ([]admin.AuditRow, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 || f.Size > 200 {
		f.Size = 25
	}
	where, args := buildAuditWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_audit "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Size
	argsWithPage := append(append([]any{}, args...), f.Size, offset)
	listSQL := `
SELECT id, admin_id, action, target_id, meta, created_at
FROM admin_audit
` + where + `
ORDER BY created_at DESC
LIMIT $` + fmt.Sprint(len(args)+1) + ` OFFSET $` + fmt.Sprint(len(args)+2)

	rows, err := s.db.QueryContext(ctx, listSQL, argsWithPage...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]admin.AuditRow, 0, f.Size)
	for rows.Next() {
		var row admin.AuditRow
		var tgt sql.NullString
		var metaRaw json.RawMessage
		if err := rows.Scan(&row.ID, &row.AdminID, &row.Action, &tgt, &metaRaw, &row.CreatedAt); err != nil {
			return nil, 0, err
		}
		if tgt.Valid {
			row.TargetID = &tgt.String
		}
		if len(metaRaw) == 0 {
			row.Meta = map[string]any{}
		} else {
			var m any
			if err := json.Unmarshal(metaRaw, &m); err == nil {
				row.Meta = m
			} else {
				row.Meta = string(metaRaw)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
