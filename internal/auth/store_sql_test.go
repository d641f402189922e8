package auth_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mirtitov/library-catalog/internal/auth"
)

func userRow(id, email, username string) *sqlmock.Rows {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"user_id", "email", "username", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(id, email, username, "$argon2id$...", "user", true, now, now)
}

func TestCreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := auth.NewSQLStore(db)

	insertRe := regexp.MustCompile(
		`INSERT INTO users \(user_id, email, username, password_hash\)\s+` +
			`VALUES \(\$1, \$2, \$3, \$4\)\s+` +
			`RETURNING user_id, email, username, password_hash, role, is_active, created_at, updated_at`,
	)
	mock.ExpectQuery(insertRe.String()).
		WithArgs(sqlmock.AnyArg(), "frank@example.com", "frank", "hash").
		WillReturnRows(userRow("u-1", "frank@example.com", "frank"))

	u, err := store.CreateUser(t.Context(), "frank@example.com", "frank", "hash")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.ID != "u-1" || u.Role != "user" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindByLogin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := auth.NewSQLStore(db)

	selectRe := regexp.MustCompile(
		`SELECT user_id, email, username, password_hash, role, is_active, created_at, updated_at\s+` +
			`FROM users\s+WHERE username = \$1 OR email = lower\(\$1\)\s+LIMIT 1`,
	)
	mock.ExpectQuery(selectRe.String()).
		WithArgs("Frank@Example.com").
		WillReturnRows(userRow("u-1", "frank@example.com", "frank"))

	u, err := store.FindByLogin(t.Context(), "Frank@Example.com")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if u.Username != "frank" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := auth.NewSQLStore(db)

	mock.ExpectQuery(`SELECT .+ FROM users\s+WHERE user_id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	if _, err := store.FindByID(t.Context(), "nope"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got %v; want sql.ErrNoRows", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := auth.NewSQLStore(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE user_id = $2`,
	)).
		WithArgs("newhash", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.UpdatePasswordHash(t.Context(), "u-1", "newhash"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
