package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/mirtitov/library-catalog/internal/api/apperr"
	"github.com/mirtitov/library-catalog/internal/api/httpx"
	"github.com/mirtitov/library-catalog/internal/models"
	"github.com/mirtitov/library-catalog/internal/validate"
)

// GET /api/v1/admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, size := pageParams(r)

	users, total, err := h.Sto.ListUsers(r.Context(), ListFilter{
		Query:  q.Get("query"),
		Role:   q.Get("role"),
		Active: validate.ParseBoolParam(q.Get("active")),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		apperr.HandleDBError(w, r, err, "Failed to list users")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": users, "total": total, "page": page, "size": size,
	})
}

// GET /api/v1/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.Sto.GetUser(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && user == nil) {
		apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "user not found")
		return
	}
	if err != nil {
		apperr.HandleDBError(w, r, err, "Failed to load user")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// PATCH /api/v1/admin/users/{id}/role
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor := adminID(r.Context())
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	var body SetRoleRequest
	if err := httpx.DecodeJSON(w, r, &body); err != nil {
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if !models.ValidRole(body.Role) {
		apperr.Write(w, r, apperr.Validation([]apperr.FieldError{
			{Field: "role", Code: "invalid", Message: "role must be \"user\" or \"admin\""},
		}))
		return
	}

	// Self-demotion is blocked while this is the only admin left.
	if actor == userID && body.Role != models.RoleAdmin {
		count, err := h.Sto.AdminCount(r.Context())
		if err != nil {
			apperr.HandleDBError(w, r, err, "Failed to update role")
			return
		}
		if count <= 1 {
			apperr.WriteStatus(w, r, http.StatusConflict, "Conflict", "cannot demote the last admin")
			return
		}
	}

	if !h.checkRateLimit(r.Context(), w, r, "setrole", actor, 50, time.Hour) {
		return
	}

	if err := h.Sto.SetUserRole(r.Context(), userID, body.Role, actor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "user not found")
			return
		}
		apperr.HandleDBError(w, r, err, "Failed to update role")
		return
	}
	httpx.NoContent(w)
}

// POST /api/v1/admin/users/{id}/deactivate
//
// A deactivated account keeps its rows but fails login and token refresh.
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// POST /api/v1/admin/users/{id}/activate
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actor := adminID(r.Context())
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	if actor == userID && !active {
		apperr.WriteStatus(w, r, http.StatusConflict, "Conflict", "cannot deactivate your own account")
		return
	}

	action := "user.deactivate"
	if active {
		action = "user.activate"
	}
	if !h.checkRateLimit(r.Context(), w, r, action, actor, 20, time.Hour) {
		return
	}

	if err := h.Sto.SetUserActive(r.Context(), userID, active, actor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apperr.WriteStatus(w, r, http.StatusNotFound, "Not Found", "user not found")
			return
		}
		apperr.HandleDBError(w, r, err, "Failed to update account")
		return
	}
	httpx.NoContent(w)
}
