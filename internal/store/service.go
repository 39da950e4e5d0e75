package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/budgetoffice/staff-portal/internal/gateway"
	"github.com/budgetoffice/staff-portal/internal/session"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// Service runs the async operations that sit between the UI intents and the
// gateway. Every operation catches gateway failures, surfaces them through
// the state's error field and reports success as a bool; none of them panic
// or return errors to the caller.
type Service struct {
	store  *Store
	gw     gateway.Client
	creds  session.CredentialStore
	logger *slog.Logger
}

func NewService(st *Store, gw gateway.Client, creds session.CredentialStore, logger *slog.Logger) *Service {
	return &Service{
		store:  st,
		gw:     gw,
		creds:  creds,
		logger: logger,
	}
}

// Store exposes the underlying state container for snapshots and dispatch.
func (s *Service) Store() *Store {
	return s.store
}

// SignIn authenticates against the gateway, persists the token, installs the
// session and loads the initial data for the role.
func (s *Service) SignIn(ctx context.Context, email, password string) bool {
	s.store.Dispatch(SetError{})
	s.store.Dispatch(SetLoading{Loading: true})

	result, err := s.gw.Login(ctx, email, password)
	if err != nil {
		s.fail("sign in failed", "Unable to sign in. Please try again.", err)
		return false
	}

	if err := s.creds.Save(result.Token); err != nil {
		// The in-memory session still works; only restarts lose it.
		s.logger.Warn("failed to persist session token", "error", err)
	}

	s.store.Dispatch(LoginSuccess{User: result.User, Token: result.Token})
	s.loadInitialData(ctx, result.User.Role)
	s.store.Dispatch(SetLoading{Loading: false})

	s.logger.Info("signed in",
		"user_id", result.User.ID,
		"role", result.User.Role,
		"landing_page", s.store.Snapshot().CurrentPage)
	return true
}

// SignOut clears persisted credentials, notifies the gateway best-effort and
// resets the state.
func (s *Service) SignOut(ctx context.Context) {
	snap := s.store.Snapshot()

	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted credentials", "error", err)
	}

	if snap.Token != "" {
		// Fire and forget: the session is gone locally either way.
		token := snap.Token
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.gw.Logout(ctx, token)
		}()
	}

	s.store.Dispatch(Logout{})
	s.logger.Info("signed out")
}

// CheckAuthentication revalidates a persisted token at startup. Any failure
// clears the credentials completely; the store must never be left looking
// authenticated with a dead token.
func (s *Service) CheckAuthentication(ctx context.Context) bool {
	token, err := s.creds.Load()
	if err != nil {
		if !errors.Is(err, session.ErrNoCredentials) {
			s.logger.Warn("failed to load persisted credentials", "error", err)
			s.cleanup()
		}
		return false
	}

	if session.TokenExpired(token) {
		s.logger.Info("persisted token already expired, clearing session")
		s.cleanup()
		return false
	}

	user, err := s.gw.GetProfile(ctx, token)
	if err != nil {
		s.logger.Info("token revalidation failed, clearing session", "error", err)
		s.cleanup()
		return false
	}

	s.store.Dispatch(LoginSuccess{User: *user, Token: token})
	s.loadInitialData(ctx, user.Role)
	s.store.Dispatch(SetLoading{Loading: false})

	s.logger.Info("session restored", "user_id", user.ID, "role", user.Role)
	return true
}

// LoadNominalRoll fetches the staff listing into the store. Responses that
// arrive after the session changed are dropped.
func (s *Service) LoadNominalRoll(ctx context.Context) bool {
	epoch := s.store.Epoch()
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated {
		s.store.Dispatch(SetError{Message: "No active session"})
		return false
	}

	records, err := s.gw.GetNominalRoll(ctx, snap.Token)
	if err != nil {
		if s.store.Epoch() == epoch {
			s.fail("nominal roll load failed", "Unable to load the nominal roll.", err)
		}
		return false
	}

	if s.store.Epoch() != epoch {
		s.logger.Debug("dropping stale nominal roll response", "epoch", epoch)
		return false
	}

	s.store.Dispatch(SetStaffData{Records: records})
	return true
}

// LoadAllUsers fetches the admin user list. Same staleness rules as the
// nominal roll.
func (s *Service) LoadAllUsers(ctx context.Context) bool {
	epoch := s.store.Epoch()
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated {
		s.store.Dispatch(SetError{Message: "No active session"})
		return false
	}

	list, err := s.gw.GetAllUsers(ctx, snap.Token)
	if err != nil {
		if s.store.Epoch() == epoch {
			s.fail("user list load failed", "Unable to load users.", err)
		}
		return false
	}

	if s.store.Epoch() != epoch {
		s.logger.Debug("dropping stale user list response", "epoch", epoch)
		return false
	}

	s.store.Dispatch(SetAllUsers{Users: list})
	return true
}

// CreateUser submits a new account and reloads the user list from the
// gateway. No optimistic local patching.
func (s *Service) CreateUser(ctx context.Context, dto users.CreateUserDTO) bool {
	if err := dto.Validate(); err != nil {
		s.store.Dispatch(SetError{Message: err.Error()})
		return false
	}

	snap := s.store.Snapshot()
	if !snap.IsAuthenticated {
		s.store.Dispatch(SetError{Message: "No active session"})
		return false
	}

	s.store.Dispatch(SetLoading{Loading: true})

	if err := s.gw.CreateUser(ctx, snap.Token, dto); err != nil {
		s.fail("create user failed", "Unable to create the user.", err)
		return false
	}

	if !s.LoadAllUsers(ctx) {
		return false
	}

	s.store.Dispatch(SetLoading{Loading: false})
	s.logger.Info("user created", "email", dto.Email, "role", dto.Role)
	return true
}

// ApproveUser approves a pending account and reloads the user list.
func (s *Service) ApproveUser(ctx context.Context, userID string) bool {
	snap := s.store.Snapshot()
	if !snap.IsAuthenticated {
		s.store.Dispatch(SetError{Message: "No active session"})
		return false
	}

	s.store.Dispatch(SetLoading{Loading: true})

	if err := s.gw.ApproveUser(ctx, snap.Token, userID); err != nil {
		s.fail("approve user failed", "Unable to approve the user.", err)
		return false
	}

	if !s.LoadAllUsers(ctx) {
		return false
	}

	s.store.Dispatch(SetLoading{Loading: false})
	s.logger.Info("user approved", "user_id", userID)
	return true
}

// RejectUser removes a pending user from the local list only. Nothing is
// deleted on the backend.
func (s *Service) RejectUser(userID string) bool {
	s.store.Dispatch(RemoveUser{ID: userID})
	s.logger.Info("user rejected locally", "user_id", userID)
	return true
}

// RequestPasswordReset asks the gateway to mail a reset token.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) bool {
	s.store.Dispatch(SetError{})
	s.store.Dispatch(SetLoading{Loading: true})

	if err := s.gw.ForgotPassword(ctx, email); err != nil {
		s.fail("password reset request failed", "Unable to request a password reset.", err)
		return false
	}

	s.store.Dispatch(SetLoading{Loading: false})
	return true
}

// ResetPassword completes a reset with the mailed token.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) bool {
	s.store.Dispatch(SetError{})
	s.store.Dispatch(SetLoading{Loading: true})

	if err := s.gw.ResetPassword(ctx, resetToken, newPassword); err != nil {
		s.fail("password reset failed", "Unable to reset the password.", err)
		return false
	}

	s.store.Dispatch(SetLoading{Loading: false})
	return true
}

func (s *Service) loadInitialData(ctx context.Context, role users.Role) {
	s.LoadNominalRoll(ctx)
	if role.CanManageUsers() {
		s.LoadAllUsers(ctx)
	}
}

// cleanup is the full sign-out path for broken sessions: persisted
// credentials gone, state back to initial defaults.
func (s *Service) cleanup() {
	if err := s.creds.Clear(); err != nil {
		s.logger.Warn("failed to clear persisted credentials", "error", err)
	}
	s.store.Dispatch(Logout{})
}

// fail converts a gateway error to the single user-visible error string:
// the server's own message when it sent one, a generic fallback otherwise.
func (s *Service) fail(logMsg, fallback string, err error) {
	s.logger.Error(logMsg, "error", err)

	message := fallback
	if apiErr, ok := gateway.IsAPIError(err); ok && apiErr.Message != "" {
		message = apiErr.Message
	}
	s.store.Dispatch(SetError{Message: message})
}
