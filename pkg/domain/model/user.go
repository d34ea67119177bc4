package model

import (
	"time"

	"github.com/umbrella-sec/umbrella/pkg/domain/types"
)

// User represents a dashboard user account
type User struct {
	ID           types.UserID `json:"id" firestore:"id"`
	Username     string       `json:"username" firestore:"username"`
	Email        string       `json:"email" firestore:"email"`
	PasswordHash string       `json:"-" firestore:"password_hash"`
	IsActive     bool         `json:"is_active" firestore:"is_active"`
	Roles        []string     `json:"roles" firestore:"roles"`
	CreatedAt    time.Time    `json:"created_at" firestore:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" firestore:"updated_at"`
}

// NewUser creates a new active User instance
func NewUser(username, email string, roles []string) *User {
	now := time.Now()
	return &User{
		ID:        types.NewUserID(),
		Username:  username,
		Email:     email,
		IsActive:  true,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasRole checks whether the user holds the given role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
