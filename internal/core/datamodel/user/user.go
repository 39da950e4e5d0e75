// Package user holds the persisted shape of backend user accounts, used by
// the stub gateway's database.
package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Role         string    `gorm:"size:50;not null" json:"role"`
	Status       string    `gorm:"size:50;not null" json:"status"`
	Department   string    `gorm:"size:255" json:"department"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// PasswordResetToken covers both flows that set a password: reset for
// active accounts and first activation for approved ones.
type PasswordResetToken struct {
	Token     string    `gorm:"primaryKey;size:64"`
	UserID    string    `gorm:"size:36;index;not null"`
	Purpose   string    `gorm:"size:20;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

const (
	TokenPurposeReset      = "reset"
	TokenPurposeActivation = "activation"
)
