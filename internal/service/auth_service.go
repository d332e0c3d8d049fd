package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/charitymap/charitymap-api/internal/domain"
	"github.com/charitymap/charitymap-api/internal/mailer"
	"github.com/charitymap/charitymap-api/internal/repo/postgres"
	"github.com/charitymap/charitymap-api/pkg/auth"
	"github.com/charitymap/charitymap-api/pkg/config"
	"github.com/charitymap/charitymap-api/pkg/events"
	"github.com/charitymap/charitymap-api/pkg/logger"
)

type AuthService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.SessionResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.SessionResponse, error)
	// CreateInvite returns the existing unused invite for the email when
	// one exists, otherwise mints a new one. The second result reports
	// whether an existing invite was reused.
	CreateInvite(ctx context.Context, req *domain.CreateInviteRequest) (*domain.InviteToken, bool, error)
	VerifyInvite(ctx context.Context, token string) (*domain.InviteToken, error)
	InviteURL(token string) string
}

type authService struct {
	users   postgres.UsersRepo
	invites postgres.InvitesRepo
	mailer  mailer.Service
	bus     events.Publisher
	config  *config.Config
}

func NewAuthService(
	users postgres.UsersRepo,
	invites postgres.InvitesRepo,
	mailer mailer.Service,
	bus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		users:   users,
		invites: invites,
		mailer:  mailer,
		bus:     bus,
		config:  config,
	}
}

func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.SessionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Msg: err.Error()}
	}

	// Pre-checks give precise diagnostics; the registration transaction in
	// the repo is the final arbiter for both guards.
	invite, err := s.invites.FindUnusedByToken(ctx, req.InviteToken)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite == nil {
		return nil, domain.ErrInvalidInvite
	}
	if invite.Email != req.Email {
		return nil, domain.ErrInviteEmailMismatch
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.CreateWithInvite(ctx, req.Email, hash, req.OrganizationName, req.InviteToken)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
		UserID:           user.ID,
		Email:            user.Email,
		OrganizationName: user.OrganizationName,
		RegisteredAt:     time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish user.registered", "error", err, "user_id", user.ID)
	}

	// Registration implies login.
	return s.newSession(user)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.SessionResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, &domain.ValidationError{Msg: err.Error()}
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	valid, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, domain.ErrInvalidCredentials
	}

	return s.newSession(user)
}

func (s *authService) CreateInvite(ctx context.Context, req *domain.CreateInviteRequest) (*domain.InviteToken, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, &domain.ValidationError{Msg: err.Error()}
	}

	// Idempotent per email: an unconsumed invite is handed back unchanged.
	existing, err := s.invites.FindUnusedByEmail(ctx, req.Email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up invite: %w", err)
	}
	if existing != nil {
		return existing, true, nil
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate invite token: %w", err)
	}

	invite, err := s.invites.Create(ctx, token, req.Email)
	if err != nil {
		return nil, false, fmt.Errorf("failed to store invite: %w", err)
	}

	if err := s.mailer.SendInviteEmail(invite.Email, s.InviteURL(invite.Token), invite.Token); err != nil {
		// Admins still see the token in the response, so a mail failure
		// does not fail invite creation.
		logger.ErrorContext(ctx, "Failed to send invite email", "error", err, "email", invite.Email)
	}

	if err := s.bus.Publish(ctx, events.InviteCreated, events.InviteCreatedEvent{
		Email:     invite.Email,
		Reused:    false,
		CreatedAt: invite.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish invite.created", "error", err, "email", invite.Email)
	}

	return invite, false, nil
}

func (s *authService) VerifyInvite(ctx context.Context, token string) (*domain.InviteToken, error) {
	invite, err := s.invites.FindUnusedByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if invite == nil {
		return nil, domain.ErrInvalidInvite
	}
	return invite, nil
}

func (s *authService) InviteURL(token string) string {
	return fmt.Sprintf("%s/register?token=%s", s.config.Frontend.BaseURL, token)
}

func (s *authService) newSession(user *domain.User) (*domain.SessionResponse, error) {
	token, err := auth.NewSessionToken(user.ID, user.Email, s.config.Auth.JWTSecret, s.config.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}
	return &domain.SessionResponse{
		Token: token,
		User:  user.ToUserInfo(),
	}, nil
}

// newInviteToken returns a URL-safe token with 32 bytes of entropy.
func newInviteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
