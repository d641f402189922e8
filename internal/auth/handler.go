package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/api/middlewares"
	jwtutil "github.com/mirtitov/library-catalog/internal/security/jwt"
	"github.com/mirtitov/library-catalog/internal/security/password"
	"github.com/mirtitov/library-catalog/internal/validate"
)

type Handler struct {
	Store  UserStore
	Tokens *jwtutil.Manager
}

func New(store UserStore, tokens *jwtutil.Manager) *Handler {
	return &Handler{Store: store, Tokens: tokens}
}

type RegisterResponse struct {
	Profile
	PasswordWarning *password.Warning `json:"password_warning,omitempty"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	var fields []apperr.FieldError
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validate.ValidEmail(email) {
		fields = append(fields, apperr.FieldError{Field: "email", Code: "invalid", Message: "a valid email is required"})
	}
	username, err := validate.RequireBounded("username", req.Username, 3, 50)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "username", Code: "invalid", Message: err.Error()})
	}
	pwd, warn, err := password.Check(req.Password, username, email)
	if err != nil {
		fields = append(fields, apperr.FieldError{Field: "password", Code: "too_short", Message: err.Error()})
	}
	if len(fields) > 0 {
		apperr.Write(w, r, apperr.Validation(fields))
		return
	}

	hash, err := password.Hash(pwd)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "failed to hash password")
		return
	}

	u, err := h.Store.CreateUser(r.Context(), email, username, hash)
	if err != nil {
		// unique violations on email/username come back as 409 with the field
		apperr.HandleDBError(w, r, err, "Failed to create user")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{Profile: u.Profile(), PasswordWarning: warn})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	login := strings.TrimSpace(req.Username)
	if login == "" || req.Password == "" {
		h.unauthorized(w, r)
		return
	}
	u, err := h.Store.FindByLogin(r.Context(), login)
	if err != nil {
		// same response for unknown user and bad password
		h.unauthorized(w, r)
		return
	}
	ok, needsRehash, err := password.Verify(req.Password, u.PasswordHash)
	if err != nil || !ok {
		h.unauthorized(w, r)
		return
	}
	if !u.IsActive {
		apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "account is disabled")
		return
	}
	if needsRehash {
		if newPHC, err := password.Hash(req.Password); err == nil {
			_ = h.Store.UpdatePasswordHash(r.Context(), u.ID, newPHC)
		}
	}

	h.writePair(w, r, u)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", "refresh_token is required")
		return
	}

	claims, err := h.Tokens.Parse(req.RefreshToken)
	if err != nil || claims.Type != jwtutil.TypeRefresh {
		apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid refresh token")
		return
	}

	// role and active flag come from the row, not from year-old claims
	u, err := h.Store.FindByID(r.Context(), claims.Subject)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid refresh token")
		return
	}
	if !u.IsActive {
		apperr.WriteStatus(w, r, http.StatusForbidden, "Forbidden", "account is disabled")
		return
	}

	h.writePair(w, r, u)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middlewares.UserIDFrom(r.Context())
	if !ok {
		apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}
	u, err := h.Store.FindByID(r.Context(), userID)
	if errors.Is(err, sql.ErrNoRows) {
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "user not found")
		return
	}
	if err != nil {
		apperr.HandleDBError(w, r, err, "Failed to load user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, u.Profile())
}

func (h *Handler) writePair(w http.ResponseWriter, r *http.Request, u User) {
	access, refresh, err := h.Tokens.SignPair(u.ID, u.Username, u.Role)
	if err != nil {
		apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "failed to sign tokens")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(h.Tokens.AccessTTL().Seconds()),
	})
}

func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	apperr.WriteStatus(w, r, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
}
