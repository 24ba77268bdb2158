package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/appctx"
	"facture/internal/core/id"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	companyID := id.New().String()
	user := &appctx.UserContext{
		UserID:     id.New().String(),
		Email:      "owner@example.com",
		Name:       "Owner",
		Role:       "owner",
		CompanyIDs: []string{companyID},
		IsOwner:    true,
	}

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, parsed.UserID)
	assert.Equal(t, user.Email, parsed.Email)
	assert.Equal(t, user.Role, parsed.Role)
	assert.Equal(t, []string{companyID}, parsed.CompanyIDs)
	assert.True(t, parsed.IsOwner)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	verifier := NewJWTService(DefaultJWTConfig("secret-b"))

	token, _, err := issuer.GenerateAccessToken(&appctx.UserContext{UserID: id.New().String()})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	cfg := DefaultJWTConfig("test-secret")
	cfg.AccessTokenTTL = -time.Minute
	svc := NewJWTService(cfg)

	token, _, err := svc.GenerateAccessToken(&appctx.UserContext{UserID: id.New().String()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}
