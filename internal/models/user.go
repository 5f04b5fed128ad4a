package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents a login account. Its ID is shared with the Profile row.
type User struct {
	ID          string     `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	Password    string     `json:"-" db:"password_hash"` // Never expose in JSON
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"`
}

// Profile carries the gamification counters for a user.
type Profile struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	AvatarURL        *string   `json:"avatar_url" db:"avatar_url"`
	ClassLevel       *string   `json:"class_level" db:"class_level"`
	XP               int       `json:"xp" db:"xp"`
	Level            int       `json:"level" db:"level"`
	Streak           int       `json:"streak" db:"streak"`
	QuestStreak      int       `json:"quest_streak" db:"quest_streak"`
	TotalDays        int       `json:"total_days" db:"total_days"`
	LastActivityDate *Date     `json:"last_activity_date" db:"last_activity_date"`
	LastQuestDate    *Date     `json:"last_quest_date" db:"last_quest_date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// CreateUserRequest represents the request to create a new user
type CreateUserRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required,min=1,max=50"`
	ClassLevel string `json:"class_level" validate:"max=30"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdateRequest represents a profile update request
type ProfileUpdateRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=50"`
	AvatarURL  string `json:"avatar_url" validate:"omitempty,url"`
	ClassLevel string `json:"class_level" validate:"max=30"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies a password against the user's hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
