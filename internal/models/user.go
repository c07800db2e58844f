package models

import "time"

type User struct {
	BaseModel
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	Name          string     `gorm:"not null" json:"name"`
	Phone         string     `json:"phone"`
	Role          UserRole   `gorm:"not null;default:'tenant'" json:"role"`
	Status        UserStatus `gorm:"not null;default:'active'" json:"status"`
	EmailVerified bool       `gorm:"default:false" json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
