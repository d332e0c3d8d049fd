package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// User is an organization account. Password material never leaves the
// server; only the argon2id hash is stored.
type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	OrganizationName string    `json:"organization_name"`
	IsAdmin          bool      `json:"is_admin"`
	CreatedAt        time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
	InviteToken      string `json:"invite_token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo is the public projection of a User.
type UserInfo struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	OrganizationName string `json:"organization_name"`
	IsAdmin          bool   `json:"is_admin"`
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.OrganizationName = strings.TrimSpace(r.OrganizationName)
	r.InviteToken = strings.TrimSpace(r.InviteToken)
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.OrganizationName == "" {
		return fmt.Errorf("organization_name is required")
	}
	if r.InviteToken == "" {
		return fmt.Errorf("invite_token is required")
	}
	return nil
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// ToUserInfo converts User to UserInfo (without sensitive data)
func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:               u.ID,
		Email:            u.Email,
		OrganizationName: u.OrganizationName,
		IsAdmin:          u.IsAdmin,
	}
}
