package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the account role returned by the server at login.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Session is what the client remembers about the logged-in operator.
type Session struct {
	Token          string
	Role           Role
	Username       string
	DisplayName    string
	LoginTimestamp int64 // epoch milliseconds
}

// Anonymous reports whether the session grants nothing. A token without a
// role breaks the session invariant and is treated as anonymous too.
func (s Session) Anonymous() bool {
	return s.Token == "" || s.Role == ""
}

func (s Session) LoginTime() time.Time {
	return time.UnixMilli(s.LoginTimestamp)
}

// Age is the time elapsed since login.
func (s Session) Age(now time.Time) time.Duration {
	return now.Sub(s.LoginTime())
}

// Name prefers the display name and falls back to the username.
func (s Session) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Username
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type ValidateTokenResponse struct {
	Role string `json:"role"`
}

// NewUser is the admin form for provisioning an account.
type NewUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}
