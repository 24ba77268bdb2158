package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/id"
)

func strPtr(s string) *string { return &s }

func TestValidate(t *testing.T) {
	ctx := context.Background()

	c := New(id.New(), "ACME Corp")
	require.NoError(t, c.Validate(ctx))

	tests := []struct {
		name   string
		mutate func(*Customer)
		valid  bool
	}{
		{"valid prefix", func(c *Customer) { c.Prefix = "ACME" }, true},
		{"numeric prefix", func(c *Customer) { c.Prefix = "A1" }, true},
		{"lowercase prefix", func(c *Customer) { c.Prefix = "acme" }, false},
		{"too long prefix", func(c *Customer) { c.Prefix = "ABCDEFGHI" }, false},
		{"prefix with dash", func(c *Customer) { c.Prefix = "AC-ME" }, false},
		{"valid email", func(c *Customer) { c.Email = strPtr("billing@acme.test") }, true},
		{"bad email", func(c *Customer) { c.Email = strPtr("not-an-email") }, false},
		{"empty currency", func(c *Customer) { c.Currency = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(id.New(), "ACME Corp")
			tt.mutate(c)
			err := c.Validate(ctx)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSeriesPrefix(t *testing.T) {
	c := New(id.New(), "ACME Corp")
	assert.Equal(t, "", c.SeriesPrefix())

	c.Prefix = "ACME"
	assert.Equal(t, "ACME", c.SeriesPrefix())
}

func TestNew_Defaults(t *testing.T) {
	companyID := id.New()
	c := New(companyID, "ACME Corp")

	assert.Equal(t, companyID, c.CompanyID)
	assert.Equal(t, "ACME Corp", c.Name)
	assert.Equal(t, "USD", c.Currency)
	assert.False(t, c.DeletionMark)
	assert.Equal(t, 1, c.Version)
}
