package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleBoss    Role = "boss"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleBoss, RoleAdmin:
		return true
	}
	return false
}

// Staff reports whether the role may operate rentals on behalf of others.
func (r Role) Staff() bool { return r == RoleManager || r == RoleBoss || r == RoleAdmin }

type UserStatus string

const (
	UserActive UserStatus = "active"
	UserLocked UserStatus = "locked"
)

type User struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Email        string     `json:"email" bson:"email"`
	PasswordHash string     `json:"-" bson:"password_hash"`
	Role         Role       `json:"role" bson:"role"`
	Status       UserStatus `json:"status" bson:"status"`
	Avatar       string     `json:"avatar,omitempty" bson:"avatar"`
	Phone        string     `json:"phone,omitempty" bson:"phone"`
	CreatedAt    time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" bson:"updated_at"`
}

func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (u *User) Validate() error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if !strings.Contains(u.Email, "@") {
		return errors.New("invalid email")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if !u.Role.Valid() {
		return errors.New("invalid role")
	}
	if u.Status == "" {
		u.Status = UserActive
	}
	return nil
}

func (u User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
