package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditDiff(t *testing.T) {
	oldState := map[string]any{
		"name":     "ACME",
		"currency": "USD",
		"total":    100,
	}
	newState := map[string]any{
		"name":     "ACME Corp",
		"currency": "USD",
		"total":    100,
		"notes":    "net 30",
	}

	changes := AuditDiff(oldState, newState)

	assert.Len(t, changes, 2)
	assert.Equal(t, map[string]any{"old": "ACME", "new": "ACME Corp"}, changes["name"])
	assert.Equal(t, map[string]any{"old": nil, "new": "net 30"}, changes["notes"])
	assert.NotContains(t, changes, "currency")
}

func TestAuditDiff_NoChanges(t *testing.T) {
	state := map[string]any{"name": "ACME"}
	assert.Empty(t, AuditDiff(state, state))
}
