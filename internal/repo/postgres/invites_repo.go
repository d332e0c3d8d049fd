package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charitymap/charitymap-api/internal/domain"
)

type InvitesRepo interface {
	FindUnusedByEmail(ctx context.Context, email string) (*domain.InviteToken, error)
	FindUnusedByToken(ctx context.Context, token string) (*domain.InviteToken, error)
	Create(ctx context.Context, token, email string) (*domain.InviteToken, error)
}

type InvitesRepoImpl struct{ pool *pgxpool.Pool }

func NewInvitesRepo(pool *pgxpool.Pool) *InvitesRepoImpl { return &InvitesRepoImpl{pool: pool} }

const inviteCols = `id, token, email, used, created_at`

func (r *InvitesRepoImpl) FindUnusedByEmail(ctx context.Context, email string) (*domain.InviteToken, error) {
	const q = `SELECT ` + inviteCols + ` FROM invite_tokens WHERE email=$1 AND used=false`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var inv domain.InviteToken
	err := r.pool.QueryRow(ctx, q, email).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.Used, &inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitesRepoImpl) FindUnusedByToken(ctx context.Context, token string) (*domain.InviteToken, error) {
	// Used and unknown tokens look identical to callers.
	const q = `SELECT ` + inviteCols + ` FROM invite_tokens WHERE token=$1 AND used=false`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var inv domain.InviteToken
	err := r.pool.QueryRow(ctx, q, token).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.Used, &inv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitesRepoImpl) Create(ctx context.Context, token, email string) (*domain.InviteToken, error) {
	const q = `INSERT INTO invite_tokens (token, email) VALUES ($1,$2) RETURNING ` + inviteCols
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var inv domain.InviteToken
	err := r.pool.QueryRow(ctx, q, token, email).Scan(
		&inv.ID, &inv.Token, &inv.Email, &inv.Used, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

var _ InvitesRepo = (*InvitesRepoImpl)(nil)
