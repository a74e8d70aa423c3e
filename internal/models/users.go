package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Preferences are stored inline on the users table.
type Preferences struct {
	Theme         string        `gorm:"type:varchar(10)" json:"theme"`
	Volume        float64       `json:"volume"`
	Autoplay      bool          `json:"autoplay"`
	Notifications Notifications `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         "dark",
		Volume:        0.7,
		Autoplay:      true,
		Notifications: Notifications{Email: true, Push: true},
	}
}

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Username     string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"username"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Role         string      `gorm:"type:varchar(20);default:'user'" json:"role"`
	Avatar       string      `json:"avatar"`
	IsActive     bool        `json:"isActive"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
	Preferences  Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// NewUser returns an active user with default preferences and a hashed
// password. Email is stored lowercased.
func NewUser(username, email, password string) (*User, error) {
	u := &User{
		Username:    strings.TrimSpace(username),
		Email:       NormalizeEmail(email),
		Role:        RoleUser,
		IsActive:    true,
		Preferences: DefaultPreferences(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
