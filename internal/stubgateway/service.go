// Package stubgateway is a self-contained stand-in for the budget office
// backend, good enough to develop and demo the portal against. It is a dev
// fixture, not the product.
package stubgateway

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/budgetoffice/staff-portal/internal"
	staffDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/staff"
	userDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/user"
	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/users"
)

// RepositoryAPI is the data access the service needs.
type RepositoryAPI interface {
	GetUserByEmail(email string) (*userDatamodel.User, error)
	GetUserByID(id string) (*userDatamodel.User, error)
	ListUsers() ([]userDatamodel.User, error)
	CreateUser(u *userDatamodel.User) error
	UpdateUserStatus(id, status string) error
	SetPassword(id, passwordHash, status string) error
	ListStaffRecords() ([]staffDatamodel.Record, error)
	CreateResetToken(t *userDatamodel.PasswordResetToken) error
	GetResetToken(token string) (*userDatamodel.PasswordResetToken, error)
	DeleteResetToken(token string) error
}

// Claims are the stub's JWT claims.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Config struct {
	JWTSecret     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
	BCryptCost    int
}

type Service struct {
	repo          RepositoryAPI
	jwtSecret     []byte
	tokenTTL      time.Duration
	resetTokenTTL time.Duration
	bcryptCost    int
	logger        *slog.Logger
}

func NewService(repo RepositoryAPI, cfg Config, logger *slog.Logger) *Service {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	resetTTL := cfg.ResetTokenTTL
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	cost := cfg.BCryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		repo:          repo,
		jwtSecret:     []byte(cfg.JWTSecret),
		tokenTTL:      tokenTTL,
		resetTokenTTL: resetTTL,
		bcryptCost:    cost,
		logger:        logger,
	}
}

// Authenticate validates credentials and issues a session token. Only
// ACTIVE accounts may sign in.
func (s *Service) Authenticate(email, password string) (*users.User, string, error) {
	u, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", internal.ErrInvalidCredentials
	}

	if u.Status != string(users.StatusActive) {
		return nil, "", internal.ErrUserNotActive
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}

	domainUser := toDomainUser(u)
	return &domainUser, token, nil
}

// ProfileFromToken validates a session token and returns its user.
func (s *Service) ProfileFromToken(tokenString string) (*users.User, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if u.Status != string(users.StatusActive) {
		return nil, internal.ErrUserNotActive
	}

	domainUser := toDomainUser(u)
	return &domainUser, nil
}

// NominalRoll returns every staff record.
func (s *Service) NominalRoll() ([]staff.Record, error) {
	models, err := s.repo.ListStaffRecords()
	if err != nil {
		return nil, err
	}

	records := make([]staff.Record, 0, len(models))
	for i := range models {
		records = append(records, toDomainStaff(&models[i]))
	}
	return records, nil
}

// ListUsers returns every account, newest last.
func (s *Service) ListUsers() ([]users.User, error) {
	models, err := s.repo.ListUsers()
	if err != nil {
		return nil, err
	}

	list := make([]users.User, 0, len(models))
	for i := range models {
		list = append(list, toDomainUser(&models[i]))
	}
	return list, nil
}

// CreateUser registers a new account pending approval. No password yet:
// that is set during activation.
func (s *Service) CreateUser(dto users.CreateUserDTO) (*users.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetUserByEmail(dto.Email); err == nil {
		return nil, internal.ErrUserAlreadyExists
	}

	now := time.Now()
	model := &userDatamodel.User{
		ID:        uuid.NewString(),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Role:      string(dto.Role),
		Status:    string(users.StatusPendingApproval),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateUser(model); err != nil {
		return nil, err
	}

	s.logger.Info("user created", "user_id", model.ID, "email", model.Email, "role", model.Role)
	domainUser := toDomainUser(model)
	return &domainUser, nil
}

// ApproveUser moves a pending account to approved-pending-activation and
// issues the activation token an admin would forward to the new user.
func (s *Service) ApproveUser(userID string) (string, error) {
	u, err := s.repo.GetUserByID(userID)
	if err != nil {
		return "", err
	}

	if u.Status != string(users.StatusPendingApproval) {
		return "", internal.ErrInvalidUserStatus
	}

	if err := s.repo.UpdateUserStatus(userID, string(users.StatusApprovedPendingActivation)); err != nil {
		return "", err
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(&userDatamodel.PasswordResetToken{
		Token:     token,
		UserID:    userID,
		Purpose:   userDatamodel.TokenPurposeActivation,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return "", err
	}

	s.logger.Info("user approved", "user_id", userID)
	return token, nil
}

// RequestPasswordReset issues a reset token for an existing account. The
// real backend mails it; the stub logs it.
func (s *Service) RequestPasswordReset(email string) error {
	u, err := s.repo.GetUserByEmail(email)
	if err != nil {
		// Do not reveal whether the account exists.
		s.logger.Info("password reset requested for unknown email", "email", email)
		return nil
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(&userDatamodel.PasswordResetToken{
		Token:     token,
		UserID:    u.ID,
		Purpose:   userDatamodel.TokenPurposeReset,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
		CreatedAt: time.Now(),
	}); err != nil {
		return err
	}

	s.logger.Info("password reset token issued", "user_id", u.ID, "token", token)
	return nil
}

// ResetPassword completes a reset or a first activation. Activation flips
// the account to ACTIVE.
func (s *Service) ResetPassword(token, newPassword string) error {
	t, err := s.repo.GetResetToken(token)
	if err != nil {
		return err
	}

	if time.Now().After(t.ExpiresAt) {
		_ = s.repo.DeleteResetToken(token)
		return internal.ErrResetTokenExpired
	}

	if len(newPassword) < 8 {
		return internal.NewValidationError("password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.SetPassword(t.UserID, string(hash), string(users.StatusActive)); err != nil {
		return err
	}

	if err := s.repo.DeleteResetToken(token); err != nil {
		s.logger.Warn("failed to delete used reset token", "error", err)
	}

	s.logger.Info("password set", "user_id", t.UserID, "purpose", t.Purpose)
	return nil
}

func (s *Service) issueToken(u *userDatamodel.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: u.ID,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   u.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *Service) validateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, internal.ErrInvalidToken
}

func toDomainUser(m *userDatamodel.User) users.User {
	return users.User{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Email:      m.Email,
		Role:       users.Role(m.Role),
		Status:     users.Status(m.Status),
		Department: m.Department,
		CreatedAt:  m.CreatedAt,
	}
}

func toDomainStaff(m *staffDatamodel.Record) staff.Record {
	return staff.Record{
		ID:                     m.ID,
		FullName:               m.FullName,
		Rank:                   m.Rank,
		GradeLevel:             m.GradeLevel,
		Step:                   m.Step,
		Department:             m.Department,
		LGA:                    m.LGA,
		Office:                 m.Office,
		Phone:                  m.Phone,
		Status:                 staff.Status(m.Status),
		DateOfBirth:            m.DateOfBirth,
		FirstAppointmentDate:   m.FirstAppointmentDate,
		ExpectedRetirementDate: m.ExpectedRetirementDate,
		LeaveEndDate:           m.LeaveEndDate,
		PromotionDue:           m.PromotionDue,
		TimeOffDue:             m.TimeOffDue,
		RetirementDue:          m.RetirementDue,
		Remarks:                m.Remarks,
	}
}
