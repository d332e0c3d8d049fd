package domain

import (
	"fmt"
	"strings"
	"time"
)

// InviteToken gates registration. One token per email at a time; a token
// flips used=false to used=true exactly once, inside the registration
// transaction.
type InviteToken struct {
	ID        int64     `json:"-"`
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Used      bool      `json:"-"`
	CreatedAt time.Time `json:"-"`
}

type CreateInviteRequest struct {
	Email string `json:"email"`
}

func (r *CreateInviteRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *CreateInviteRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}
