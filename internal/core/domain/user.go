package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleUser:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

type User struct {
	ID          string
	Email       string
	DisplayName string
	Role        Role
	CreatedAt   time.Time
}

// Principal is the authenticated caller of a command or view.
type Principal struct {
	ID          string
	DisplayName string
	Role        Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (u User) Principal() Principal {
	return Principal{ID: u.ID, DisplayName: u.DisplayName, Role: u.Role}
}

type Credentials struct {
	Email    string
	Password string
}

type RegisterUserInput struct {
	Email       string
	Password    string
	DisplayName string
}
