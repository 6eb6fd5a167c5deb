package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleClient   = "client"
	RoleAdvocate = "advocate"
	RoleAdmin    = "admin"
)

type User struct {
	gorm.Model
	FullName              string    `gorm:"column:full_name;size:255;not null" json:"full_name"`
	Email                 string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash          string    `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role                  string    `gorm:"column:role;size:20;not null;default:client" json:"role"`
	Phone                 string    `gorm:"column:phone;size:20" json:"phone"`
	Address               string    `gorm:"column:address;type:text" json:"address"`
	Verified              bool      `gorm:"column:verified;default:false" json:"verified"`
	EmailVerified         bool      `gorm:"column:email_verified;default:false" json:"email_verified"`
	EmailVerificationCode string    `gorm:"size:6" json:"-"`
	VerificationExpiry    time.Time `json:"-"`
	Refresh               string    `gorm:"column:refresh_token;size:255" json:"-"`
	RefreshTokenExpiredAt time.Time `gorm:"column:refresh_token_expired_at" json:"-"`

	Advocate *Advocate `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"advocate,omitempty"`
}

type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null"`
	Token     string    `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}
