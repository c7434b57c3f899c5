package models

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	UserID     string    `json:"id" bson:"userid"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email" bson:"email"`
	Password   string    `json:"-" bson:"password"`
	Role       string    `json:"role" bson:"role"`
	Phone      string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ProfilePic string    `json:"profilePic,omitempty" bson:"profilepic,omitempty"`
	IsVerified bool      `json:"isVerified" bson:"isverified"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updated_at"`
}

// NewUser validates and normalizes registration input. The password here is
// already hashed; plaintext never reaches a model.
func NewUser(id, name, email, hashedPassword, role, phone string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" {
		return nil, errors.New("name and email are required")
	}
	if role == "" {
		role = RoleUser
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	now := time.Now().UTC()
	return &User{
		UserID:    id,
		Name:      name,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		Phone:     strings.TrimSpace(phone),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
