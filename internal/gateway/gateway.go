// Package gateway is the client for the budget office's staff backend.
package gateway

import (
	"context"
	"fmt"

	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User  users.User `json:"user"`
	Token string     `json:"token"`
}

// Client is everything the portal needs from the backend. All calls honor
// ctx; business failures come back as *APIError.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetProfile(ctx context.Context, token string) (*users.User, error)
	GetNominalRoll(ctx context.Context, token string) ([]staff.Record, error)
	GetAllUsers(ctx context.Context, token string) ([]users.User, error)
	CreateUser(ctx context.Context, token string, dto users.CreateUserDTO) error
	ApproveUser(ctx context.Context, token, userID string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	Logout(ctx context.Context, token string) error
}

// APIError is a failure the backend reported itself: a response that parsed
// fine but carried success=false or a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// IsAPIError unwraps a backend-reported failure if err is one.
func IsAPIError(err error) (*APIError, bool) {
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}
