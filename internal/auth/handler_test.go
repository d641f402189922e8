package auth_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mirtitov/library-catalog/internal/api/middlewares"
	"github.com/mirtitov/library-catalog/internal/auth"
	jwtutil "github.com/mirtitov/library-catalog/internal/security/jwt"
	"github.com/mirtitov/library-catalog/internal/security/password"
)

type userStoreMock struct {
	createFn     func(ctx context.Context, email, username, passwordHash string) (auth.User, error)
	findLoginFn  func(ctx context.Context, login string) (auth.User, error)
	findIDFn     func(ctx context.Context, id string) (auth.User, error)
	updateHashFn func(ctx context.Context, userID, newHash string) error
}

func (m *userStoreMock) CreateUser(ctx context.Context, email, username, passwordHash string) (auth.User, error) {
	return m.createFn(ctx, email, username, passwordHash)
}
func (m *userStoreMock) FindByLogin(ctx context.Context, login string) (auth.User, error) {
	return m.findLoginFn(ctx, login)
}
func (m *userStoreMock) FindByID(ctx context.Context, id string) (auth.User, error) {
	return m.findIDFn(ctx, id)
}
func (m *userStoreMock) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	return m.updateHashFn(ctx, userID, newHash)
}

func testTokens() *jwtutil.Manager {
	return jwtutil.NewManager("test-secret-test-secret-test-sec", 30*time.Minute, 168*time.Hour, time.Minute)
}

func activeUser(hash string) auth.User {
	return auth.User{
		ID: "u-1", Email: "frank@example.com", Username: "frank",
		PasswordHash: hash, Role: "user", IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRegister(t *testing.T) {
	m := &userStoreMock{
		createFn: func(ctx context.Context, email, username, passwordHash string) (auth.User, error) {
			if email != "frank@example.com" {
				t.Fatalf("email not lowercased: %q", email)
			}
			if !strings.HasPrefix(passwordHash, "$argon2id$") {
				t.Fatalf("hash %q is not argon2id", passwordHash)
			}
			u := activeUser(passwordHash)
			u.Email, u.Username = email, username
			return u, nil
		},
	}
	h := auth.New(m, testTokens())

	rec := postJSON(h.Register, `{"email":"Frank@Example.com","username":"frank","password":"password1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID              string            `json:"id"`
		Email           string            `json:"email"`
		Role            string            `json:"role"`
		PasswordWarning *password.Warning `json:"password_warning"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "u-1" || resp.Email != "frank@example.com" || resp.Role != "user" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if resp.PasswordWarning == nil {
		t.Fatal("weak password registered without a warning")
	}
}

func TestRegister_Validation(t *testing.T) {
	h := auth.New(&userStoreMock{}, testTokens())

	rec := postJSON(h.Register, `{"email":"not-an-email","username":"ab","password":"short"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d; want 422", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type %q", ct)
	}
	var p struct {
		FieldErrors []struct {
			Field string `json:"field"`
		} `json:"field_errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := map[string]bool{}
	for _, fe := range p.FieldErrors {
		got[fe.Field] = true
	}
	for _, want := range []string{"email", "username", "password"} {
		if !got[want] {
			t.Errorf("missing field error %q in %s", want, rec.Body.String())
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	m := &userStoreMock{
		createFn: func(ctx context.Context, email, username, passwordHash string) (auth.User, error) {
			return auth.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}
	h := auth.New(m, testTokens())

	rec := postJSON(h.Register, `{"email":"frank@example.com","username":"frank","password":"password1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d; want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"email"`) {
		t.Fatalf("conflict body lacks field: %s", rec.Body.String())
	}
}

func TestLoginAndRefresh(t *testing.T) {
	hash, err := password.Hash("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	m := &userStoreMock{
		findLoginFn: func(ctx context.Context, login string) (auth.User, error) {
			if login != "frank" {
				return auth.User{}, sql.ErrNoRows
			}
			return activeUser(hash), nil
		},
		findIDFn: func(ctx context.Context, id string) (auth.User, error) {
			if id != "u-1" {
				return auth.User{}, sql.ErrNoRows
			}
			return activeUser(hash), nil
		},
	}
	tokens := testTokens()
	h := auth.New(m, tokens)

	rec := postJSON(h.Login, `{"username":"frank","password":"correct horse battery staple"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d body %s", rec.Code, rec.Body.String())
	}
	var pair auth.TokenPair
	if err := json.Unmarshal(rec.Body.Bytes(), &pair); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pair.TokenType != "bearer" || pair.ExpiresIn != 1800 {
		t.Fatalf("pair meta: %+v", pair)
	}
	claims, err := tokens.Parse(pair.AccessToken)
	if err != nil || claims.Type != jwtutil.TypeAccess || claims.Subject != "u-1" {
		t.Fatalf("access claims %+v err %v", claims, err)
	}

	// refresh with the refresh token issues a fresh pair
	rec = postJSON(h.Refresh, `{"refresh_token":"`+pair.RefreshToken+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status %d body %s", rec.Code, rec.Body.String())
	}

	// the access token is not accepted as a refresh token
	rec = postJSON(h.Refresh, `{"refresh_token":"`+pair.AccessToken+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh with access token: status %d; want 401", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := password.Hash("the real password")
	if err != nil {
		t.Fatal(err)
	}
	m := &userStoreMock{
		findLoginFn: func(ctx context.Context, login string) (auth.User, error) {
			return activeUser(hash), nil
		},
	}
	h := auth.New(m, testTokens())

	rec := postJSON(h.Login, `{"username":"frank","password":"guess"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d; want 401", rec.Code)
	}
}

func TestLogin_DisabledAccount(t *testing.T) {
	hash, err := password.Hash("correct horse battery staple")
	if err != nil {
		t.Fatal(err)
	}
	m := &userStoreMock{
		findLoginFn: func(ctx context.Context, login string) (auth.User, error) {
			u := activeUser(hash)
			u.IsActive = false
			return u, nil
		},
	}
	h := auth.New(m, testTokens())

	rec := postJSON(h.Login, `{"username":"frank","password":"correct horse battery staple"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d; want 403", rec.Code)
	}
}

func TestMe(t *testing.T) {
	m := &userStoreMock{
		findIDFn: func(ctx context.Context, id string) (auth.User, error) {
			return activeUser("hash"), nil
		},
	}
	h := auth.New(m, testTokens())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(middlewares.WithUserID(req.Context(), "u-1"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("profile leaks password material: %s", rec.Body.String())
	}

	// no identity in context
	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d; want 401", rec.Code)
	}
}
