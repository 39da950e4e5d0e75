package stubgateway

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/budgetoffice/staff-portal/internal"
	"github.com/budgetoffice/staff-portal/internal/transport"
	"github.com/budgetoffice/staff-portal/internal/transport/middleware"
	"github.com/budgetoffice/staff-portal/internal/users"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

// envelope is the wire shape the portal's gateway client expects.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

type Handler struct {
	*transport.BaseHandler
	Service *Service
	db      *sql.DB
}

func NewHandler(svc *Service, db *sql.DB) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
		db:          db,
	}
}

// Routes mounts the full gateway contract.
func Routes(h *Handler, lg *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg))
	router.Use(middleware.RecoveryMiddleware(lg))

	router.Get("/health", h.Health)

	router.Post("/auth/login", h.Login)
	router.Get("/auth/profile", h.Profile)
	router.Post("/auth/logout", h.Logout)
	router.Post("/auth/forgot-password", h.ForgotPassword)
	router.Post("/auth/reset-password", h.ResetPassword)

	router.Group(func(r chi.Router) {
		r.Use(h.requireToken)
		r.Get("/staff/nominal-roll", h.NominalRoll)

		r.Group(func(ar chi.Router) {
			ar.Use(h.requireAdminRole)
			ar.Get("/users", h.ListUsers)
			ar.Post("/users", h.CreateUser)
			ar.Patch("/users/{id}/approve", h.ApproveUser)
		})
	})

	return router
}

func (h *Handler) writeSuccess(w http.ResponseWriter, status int, data interface{}) {
	h.WriteJSON(w, status, envelope{Success: true, Data: data})
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := internal.IsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	} else {
		h.Logger.Error("unexpected stub gateway error", "error", err)
	}

	h.WriteJSON(w, status, envelope{Success: false, Message: message})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.WriteJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Message: err.Error()})
		return
	}
	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "OK"})
}

type loginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto loginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeFailure(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	user, token, err := h.Service.Authenticate(dto.Email, dto.Password)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"token": token,
	})
}

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if token == "" {
		h.writeFailure(w, internal.ErrInvalidToken)
		return
	}

	user, err := h.Service.ProfileFromToken(token)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// Best-effort contract: tokens are stateless, nothing to revoke.
	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "signed out"})
}

type forgotPasswordDTO struct {
	Email string `json:"email"`
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var dto forgotPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Email == "" {
		h.writeFailure(w, internal.NewValidationError("email is required", internal.ErrCodeInvalidEmail))
		return
	}

	if err := h.Service.RequestPasswordReset(dto.Email); err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusAccepted, map[string]string{"status": "reset requested"})
}

type resetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var dto resetPasswordDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Token == "" {
		h.writeFailure(w, internal.NewValidationError("token and new_password are required", internal.ErrCodeValidationFailed))
		return
	}

	if err := h.Service.ResetPassword(dto.Token, dto.NewPassword); err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, map[string]string{"status": "password reset"})
}

func (h *Handler) NominalRoll(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.NominalRoll()
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, records)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListUsers()
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, list)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto users.CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.writeFailure(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return
	}

	user, err := h.Service.CreateUser(dto)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusCreated, user)
}

func (h *Handler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	activationToken, err := h.Service.ApproveUser(userID)
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, map[string]string{
		"user_id":          userID,
		"activation_token": activationToken,
	})
}

type ctxKey string

const ctxUserKey ctxKey = "stub-user"

// requireToken validates the Bearer token and stores the caller on the
// request context.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.writeFailure(w, internal.ErrInvalidToken)
			return
		}

		user, err := h.Service.ProfileFromToken(token)
		if err != nil {
			h.writeFailure(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requireAdminRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(ctxUserKey).(*users.User)
		if !ok || user == nil || !user.Role.CanManageUsers() {
			h.writeFailure(w, internal.ErrInsufficientRole)
			return
		}
		next.ServeHTTP(w, r)
	})
}
