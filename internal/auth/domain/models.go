package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/edupay/feereport/internal/guard"
	"gorm.io/datatypes"
)

// User carries its resolved permission and mask sets verbatim. They are
// derived from the policy registry once at account creation; later role-table
// edits do not retroactively change already-issued tokens.
type User struct {
	ID           snowflake.ID                `gorm:"primaryKey" json:"id"`
	Username     string                      `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Role         string                      `gorm:"not null" json:"role"`
	Permissions  datatypes.JSONSlice[string] `gorm:"not null" json:"permissions"`
	FieldMasks   datatypes.JSONSlice[string] `gorm:"not null" json:"field_masks"`
	CreatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

type CreateUserRequest struct {
	Username string
	Password string
	Role     string
}

type LoginRequest struct {
	Username string
	Password string
}

type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Authenticate(ctx context.Context, rawToken string) (guard.Claims, error)
}

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrUserExists         = errors.New("user_exists")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrInvalidRole        = errors.New("invalid_role")
)
