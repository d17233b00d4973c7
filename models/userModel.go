package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserStatusActive    = "Active"
	UserStatusInactive  = "Inactive"
	UserStatusSuspended = "Suspended"

	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

type User struct {
	gorm.Model
	Name                 string     `json:"name"`
	Email                string     `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password             string     `json:"-"`
	Avatar               string     `json:"avatar"`
	Mobile               string     `json:"mobile"`
	RefreshToken         string     `json:"-"`
	VerifyEmail          bool       `json:"verifyEmail"`
	VerificationToken    string     `json:"-" gorm:"index;size:64"`
	LastLoginDate        *time.Time `json:"lastLoginDate"`
	Status               string     `json:"status" gorm:"size:16"`
	ForgotPasswordOTP    string     `json:"-" gorm:"size:16"`
	ForgotPasswordExpiry *time.Time `json:"-"`
	ForgotPasswordTries  int        `json:"-"`
	PasswordResetUntil   *time.Time `json:"-"`
	Role                 string     `json:"role" gorm:"size:16"`
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
