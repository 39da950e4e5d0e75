package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/budgetoffice/staff-portal/internal/store"
	"github.com/budgetoffice/staff-portal/internal/transport"
	"github.com/budgetoffice/staff-portal/internal/users"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

// PortalService is what the handlers need from the store's operation layer.
type PortalService interface {
	SignIn(ctx context.Context, email, password string) bool
	SignOut(ctx context.Context)
	CreateUser(ctx context.Context, dto users.CreateUserDTO) bool
	ApproveUser(ctx context.Context, userID string) bool
	RejectUser(userID string) bool
	RequestPasswordReset(ctx context.Context, email string) bool
	ResetPassword(ctx context.Context, resetToken, newPassword string) bool
	LoadNominalRoll(ctx context.Context) bool
	Store() *store.Store
}

type SessionHandler struct {
	*transport.BaseHandler
	Service PortalService
}

func NewSessionHandler(svc PortalService) *SessionHandler {
	return &SessionHandler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

type signInDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d signInDTO) Validate() error {
	if d.Email == "" {
		return users.ValidationError{Msg: "email is required"}
	}
	if d.Password == "" {
		return users.ValidationError{Msg: "password is required"}
	}
	return nil
}

// SignIn handles POST /session.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var dto signInDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.Service.SignIn(r.Context(), dto.Email, dto.Password) {
		snap := h.Service.Store().Snapshot()
		message := snap.Error
		if message == "" {
			message = "sign in failed"
		}
		h.WriteError(w, http.StatusUnauthorized, message)
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.Store().Snapshot())
}

// SignOut handles DELETE /session.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.Service.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /state: the full snapshot the UI renders from.
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.Store().Snapshot())
}

type forgotPasswordDTO struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /password/forgot.
func (h *SessionHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto forgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Email == "" {
		h.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	if !h.Service.RequestPasswordReset(r.Context(), dto.Email) {
		h.writeStoreError(w)
		return
	}

	h.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "reset requested"})
}

type resetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ResetPassword handles POST /password/reset.
func (h *SessionHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto resetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Token == "" || dto.NewPassword == "" {
		h.WriteError(w, http.StatusBadRequest, "token and new_password are required")
		return
	}

	if !h.Service.ResetPassword(r.Context(), dto.Token, dto.NewPassword) {
		h.writeStoreError(w)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

func (h *SessionHandler) writeStoreError(w http.ResponseWriter) {
	snap := h.Service.Store().Snapshot()
	message := snap.Error
	if message == "" {
		message = "request failed"
	}
	h.WriteError(w, http.StatusBadGateway, message)
}
