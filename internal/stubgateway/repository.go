package stubgateway

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/budgetoffice/staff-portal/internal"
	staffDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/staff"
	userDatamodel "github.com/budgetoffice/staff-portal/internal/core/datamodel/user"
)

// Repository is the stub gateway's data access layer over GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByID(id string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ListUsers() ([]userDatamodel.User, error) {
	var list []userDatamodel.User
	err := r.db.Order("created_at ASC").Find(&list).Error
	return list, err
}

func (r *Repository) CreateUser(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *Repository) UpdateUserStatus(id, status string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *Repository) SetPassword(id, passwordHash, status string) error {
	return r.db.Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"status":        status,
			"updated_at":    time.Now(),
		}).Error
}

func (r *Repository) ListStaffRecords() ([]staffDatamodel.Record, error) {
	var records []staffDatamodel.Record
	err := r.db.Order("full_name ASC").Find(&records).Error
	return records, err
}

func (r *Repository) CreateStaffRecord(rec *staffDatamodel.Record) error {
	return r.db.Create(rec).Error
}

func (r *Repository) CreateResetToken(t *userDatamodel.PasswordResetToken) error {
	return r.db.Create(t).Error
}

func (r *Repository) GetResetToken(token string) (*userDatamodel.PasswordResetToken, error) {
	var t userDatamodel.PasswordResetToken
	err := r.db.Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repository) DeleteResetToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&userDatamodel.PasswordResetToken{}).Error
}
