package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a login account for the league site. Only admin accounts may call
// the privileged challenge-stats endpoints.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PasswordHash string    `json:"-" gorm:"not null"`
	DisplayName  string    `json:"displayName" gorm:"uniqueIndex;not null"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

type UserSession struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID           uuid.UUID `json:"userId" gorm:"type:uuid;not null"`
	RefreshTokenHash string    `json:"-" gorm:"not null"`
	ExpiresAt        time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

// AuthContext is the request-scoped authorization carried into every
// privileged engine call. There is no process-wide session object.
type AuthContext struct {
	UserID      uuid.UUID
	DisplayName string
	IsAdmin     bool
}
