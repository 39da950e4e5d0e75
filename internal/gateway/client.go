package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/budgetoffice/staff-portal/internal"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// Config wires the HTTP client to a backend deployment.
type Config struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
}

// HTTPClient implements Client over the backend's REST API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

func NewHTTPClient(config Config, logger *slog.Logger) *HTTPClient {
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		baseURL:    config.BaseURL,
		apiKey:     config.APIKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, token string) (*users.User, error) {
	var u users.User
	if err := c.call(ctx, http.MethodGet, "/auth/profile", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) GetNominalRoll(ctx context.Context, token string) ([]staff.Record, error) {
	var records []staff.Record
	if err := c.call(ctx, http.MethodGet, "/staff/nominal-roll", token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) GetAllUsers(ctx context.Context, token string) ([]users.User, error) {
	var list []users.User
	if err := c.call(ctx, http.MethodGet, "/users", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) CreateUser(ctx context.Context, token string, dto users.CreateUserDTO) error {
	return c.call(ctx, http.MethodPost, "/users", token, dto, nil)
}

func (c *HTTPClient) ApproveUser(ctx context.Context, token, userID string) error {
	return c.call(ctx, http.MethodPatch, "/users/"+userID+"/approve", token, nil, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.call(ctx, http.MethodPost, "/auth/forgot-password", "", body, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "new_password": newPassword}
	return c.call(ctx, http.MethodPost, "/auth/reset-password", "", body, nil)
}

// Logout notifies the backend that the session ended. Best effort: the
// caller has already dropped the token, so failures are only logged.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	if err := c.call(ctx, http.MethodPost, "/auth/logout", token, nil, nil); err != nil {
		c.logger.Warn("logout notification failed", "error", err)
		return err
	}
	return nil
}

// call performs one round trip, unwraps the response envelope and decodes
// data into out when out is non-nil.
func (c *HTTPClient) call(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = &bytes.Buffer{}
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	c.logger.Debug("gateway request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if !env.Success || resp.StatusCode >= 400 {
		c.logger.Warn("gateway rejected request",
			"method", method,
			"path", path,
			"status_code", resp.StatusCode,
			"message", env.Message)
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("gateway response missing data for %s %s", method, path)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode gateway data: %w", err)
		}
	}

	return nil
}
