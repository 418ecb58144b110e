package domain

import (
	"time"

	"gorm.io/gorm"
)

// Identity is the credential record behind a Profile. Administrators have no profile.
type Identity struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email        string         `gorm:"size:191" json:"email"`
	PasswordHash string         `gorm:"size:100;not null" json:"-"`
	IsAdmin      bool           `gorm:"not null;default:false" json:"isAdmin"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Identity) TableName() string { return "identities" }

// AuthToken records an issued bearer token by its jti. A token only authenticates
// while its row exists, is not revoked and has not expired.
type AuthToken struct {
	ID         string     `gorm:"primaryKey;size:36"`
	IdentityID uint       `gorm:"index;not null"`
	ExpiresAt  time.Time  `gorm:"not null"`
	RevokedAt  *time.Time `gorm:"index"`
	CreatedAt  time.Time
}

func (AuthToken) TableName() string { return "auth_tokens" }

// Active reports whether the token can still authenticate at now.
func (t *AuthToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
