package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/budgetoffice/staff-portal/internal/transport"
	"github.com/budgetoffice/staff-portal/internal/users"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

type UsersHandler struct {
	*transport.BaseHandler
	Service PortalService
}

func NewUsersHandler(svc PortalService) *UsersHandler {
	return &UsersHandler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

// List handles GET /users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Store().Snapshot()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": snap.AllUsers,
		"total": len(snap.AllUsers),
	})
}

// Create handles POST /users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto users.CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.Service.CreateUser(r.Context(), dto) {
		h.writeStoreError(w)
		return
	}

	h.WriteJSON(w, http.StatusCreated, h.Service.Store().Snapshot().AllUsers)
}

// Approve handles PATCH /users/{id}/approve.
func (h *UsersHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	if !h.Service.ApproveUser(r.Context(), userID) {
		h.writeStoreError(w)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Store().Snapshot().AllUsers)
}

// Reject handles DELETE /users/{id}: removes the user from the local list
// only.
func (h *UsersHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		h.WriteError(w, http.StatusBadRequest, "user id is required")
		return
	}

	h.Service.RejectUser(userID)
	h.WriteJSON(w, http.StatusOK, h.Service.Store().Snapshot().AllUsers)
}

func (h *UsersHandler) writeStoreError(w http.ResponseWriter) {
	snap := h.Service.Store().Snapshot()
	message := snap.Error
	if message == "" {
		message = "request failed"
	}
	h.WriteError(w, http.StatusBadGateway, message)
}

// RequireSession rejects requests while no one is signed in.
func RequireSession(svc PortalService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !svc.Store().Snapshot().IsAuthenticated {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUserAdmin limits the user-admin surface to the director and the
// ICT head.
func RequireUserAdmin(svc PortalService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := svc.Store().Snapshot()
			if snap.User == nil || !snap.User.Role.CanManageUsers() {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
