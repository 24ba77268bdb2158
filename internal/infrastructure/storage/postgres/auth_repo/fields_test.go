package auth_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/id"
	"facture/internal/domain/auth"
	"facture/internal/infrastructure/storage/postgres"
)

// The insert statements are built from StructToMap over the auth models.
// These tests pin the field maps so the write path and the column lists
// used by the read path stay in sync.

func TestUserInsertFields(t *testing.T) {
	u := auth.NewUser("jane@example.com", "hash")
	u.Name = "Jane"

	fields := postgres.StructToMap(u)

	for _, col := range userCols {
		require.Contains(t, fields, col, "column %q missing from insert fields", col)
	}
	assert.Len(t, fields, len(userCols))

	assert.Equal(t, u.ID, fields["id"])
	assert.Equal(t, "jane@example.com", fields["email"])
	assert.Equal(t, "hash", fields["password_hash"])
	assert.Equal(t, auth.RoleStaff, fields["role"])

	// Loaded relations carry db:"-" and must not reach the statement.
	assert.NotContains(t, fields, "company_ids")
	assert.NotContains(t, fields, "-")
}

func TestRefreshTokenInsertFields(t *testing.T) {
	tok := &auth.RefreshToken{
		ID:        id.New(),
		UserID:    id.New(),
		TokenHash: "abc",
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}

	fields := postgres.StructToMap(tok)

	for _, col := range tokenCols {
		require.Contains(t, fields, col, "column %q missing from insert fields", col)
	}
	assert.Len(t, fields, len(tokenCols))

	assert.Equal(t, tok.UserID, fields["user_id"])
	assert.Equal(t, "abc", fields["token_hash"])
}
