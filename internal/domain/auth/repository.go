package auth

import (
	"context"

	"facture/internal/core/id"
)

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Exists(ctx context.Context, email string) (bool, error)

	// GetCompanyIDs returns the companies the user belongs to.
	GetCompanyIDs(ctx context.Context, userID id.ID) ([]id.ID, error)

	// AddToCompany records company membership.
	AddToCompany(ctx context.Context, userID, companyID id.ID) error
}

// TokenRepository persists refresh tokens.
type TokenRepository interface {
	Create(ctx context.Context, t *RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	Revoke(ctx context.Context, tokenID id.ID) error
	RevokeAllForUser(ctx context.Context, userID id.ID) error
	DeleteExpired(ctx context.Context) (int64, error)
}
