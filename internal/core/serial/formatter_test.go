package serial

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/id"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestFormatter(src *MockSource, companyID id.ID) *Formatter {
	f := NewFormatter(src, src, src).ForEntity("invoice").ForCompany(companyID)
	f.now = fixedClock(time.Date(2021, time.June, 15, 10, 30, 0, 0, time.UTC))
	return f
}

func TestFormatter_SequencePadding(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	tests := []struct {
		name   string
		format string
		last   int64
		seeded bool
		want   string
	}{
		{"default width six", "{{SEQUENCE}}", 41, true, "000042"},
		{"explicit width", "{{SEQUENCE:4}}", 6, true, "0007"},
		{"no pad needed", "{{SEQUENCE:2}}", 122, true, "123"},
		{"zero width", "{{SEQUENCE:0}}", 8, true, "9"},
		{"malformed width falls back", "{{SEQUENCE:abc}}", 0, true, "000001"},
		{"first number is one", "{{SEQUENCE:3}}", 0, false, "001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewMockSource()
			if tt.seeded {
				src.SetSequence(companyID, "invoice", tt.last)
			}
			f := newTestFormatter(src, companyID).WithFormat(tt.format)

			got, err := f.NextNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatter_DateFormat(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"default year", "{{DATE_FORMAT}}", "2021"},
		{"short year", "{{DATE_FORMAT:y}}", "21"},
		{"year month day", "{{DATE_FORMAT:Ymd}}", "20210615"},
		{"separated", "{{DATE_FORMAT:Y-m}}", "2021-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFormatter(NewMockSource(), companyID).WithFormat(tt.format)

			got, err := f.NextNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatter_RandomSequence(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	t.Run("length and alphabet", func(t *testing.T) {
		hexRE := regexp.MustCompile(`^[0-9a-f]+$`)
		for _, format := range []string{"{{RANDOM_SEQUENCE}}", "{{RANDOM_SEQUENCE:10}}", "{{RANDOM_SEQUENCE:3}}"} {
			f := newTestFormatter(NewMockSource(), companyID).WithFormat(format)
			got, err := f.NextNumber(ctx)
			require.NoError(t, err)

			want := 6
			switch format {
			case "{{RANDOM_SEQUENCE:10}}":
				want = 10
			case "{{RANDOM_SEQUENCE:3}}":
				want = 3
			}
			assert.Len(t, got, want)
			assert.Regexp(t, hexRE, got)
		}
	})

	t.Run("deterministic stub", func(t *testing.T) {
		f := newTestFormatter(NewMockSource(), companyID).WithFormat("R-{{RANDOM_SEQUENCE:4}}")
		f.randomHex = func(length int) (string, error) { return "abcd"[:length], nil }

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "R-abcd", got)
	})
}

func TestFormatter_CustomerSeries(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	t.Run("renders customer prefix", func(t *testing.T) {
		src := NewMockSource()
		customerID := id.New()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: "ACME"})

		f := newTestFormatter(src, companyID).WithFormat("{{CUSTOMER_SERIES}}-{{SEQUENCE:3}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "ACME-001", got)
	})

	t.Run("falls back without customer", func(t *testing.T) {
		f := newTestFormatter(NewMockSource(), companyID).WithFormat("{{CUSTOMER_SERIES}}")

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CST", got)
	})

	t.Run("falls back on empty prefix", func(t *testing.T) {
		src := NewMockSource()
		customerID := id.New()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: ""})

		f := newTestFormatter(src, companyID).WithFormat("{{CUSTOMER_SERIES}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CST", got)
	})

	t.Run("unknown customer is not an error", func(t *testing.T) {
		unknown := id.New()
		f := newTestFormatter(NewMockSource(), companyID).WithFormat("{{CUSTOMER_SERIES}}")
		require.NoError(t, f.SetCustomer(ctx, &unknown))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "CST", got)
	})
}

func TestFormatter_CustomerSequence(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	customerID := id.New()

	t.Run("scoped per customer", func(t *testing.T) {
		src := NewMockSource()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: "ACME"})
		src.SetCustomerSequence(companyID, "invoice", &customerID, 7)
		src.SetCustomerSequence(companyID, "invoice", nil, 99)

		f := newTestFormatter(src, companyID).WithFormat("{{CUSTOMER_SEQUENCE:3}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "008", got)
	})

	t.Run("default renders without padding", func(t *testing.T) {
		src := NewMockSource()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: "ACME"})
		src.SetCustomerSequence(companyID, "invoice", &customerID, 4)

		f := newTestFormatter(src, companyID).WithFormat("{{CUSTOMER_SEQUENCE}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "5", got)
	})

	t.Run("no customer draws from the shared bucket", func(t *testing.T) {
		src := NewMockSource()
		src.SetCustomerSequence(companyID, "invoice", nil, 11)

		f := newTestFormatter(src, companyID).WithFormat("{{CUSTOMER_SEQUENCE}}")

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "12", got)
	})
}

func TestFormatter_LiteralsAndUnknownTokens(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"series and delimiter verbatim", "{{SERIES:INV}}{{DELIMITER:-}}{{SEQUENCE:3}}", "INV-001"},
		{"literal text preserved in place", "INV/{{SEQUENCE:3}}/end", "INV/001/end"},
		{"unknown token passes through", "{{BOGUS}}-{{SEQUENCE:3}}", "{{BOGUS}}-001"},
		{"single braces pass through", "{SEQUENCE}", "{SEQUENCE}"},
		{"empty delimiter", "A{{DELIMITER:}}B", "AB"},
		{"no placeholders at all", "PLAIN", "PLAIN"},
		{"empty format uses default", "", "000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFormatter(NewMockSource(), companyID)
			if tt.format != "" {
				f = f.WithFormat(tt.format)
			}

			got, err := f.NextNumber(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatter_CountersAreIdempotent(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	src := NewMockSource()
	src.SetSequence(companyID, "invoice", 5)

	f := newTestFormatter(src, companyID).WithFormat("{{SEQUENCE:3}}")

	first, err := f.NextNumber(ctx)
	require.NoError(t, err)

	// The store advances between calls; the formatter must not notice.
	src.SetSequence(companyID, "invoice", 6)

	second, err := f.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	seq, ok := f.NextSequence()
	require.True(t, ok)
	assert.Equal(t, int64(6), seq)
}

func TestFormatter_ExistingDocumentSeeding(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	customerID := id.New()
	otherCustomerID := id.New()

	seq := func(n int64) *int64 { return &n }

	t.Run("reuses global and customer counters", func(t *testing.T) {
		src := NewMockSource()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: "ACME"})
		src.SetSequence(companyID, "invoice", 99)
		src.SetCustomerSequence(companyID, "invoice", &customerID, 99)

		docID := id.New()
		src.AddDocument(DocumentRef{
			ID:                     docID,
			SequenceNumber:         12,
			CustomerSequenceNumber: seq(3),
			CustomerID:             &customerID,
		})

		f := newTestFormatter(src, companyID).WithFormat("{{SEQUENCE:3}}/{{CUSTOMER_SEQUENCE:2}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))
		require.NoError(t, f.SetExistingDocument(ctx, docID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "012/03", got)
	})

	t.Run("customer mismatch draws a fresh customer counter", func(t *testing.T) {
		src := NewMockSource()
		src.AddCustomer(CustomerRef{ID: customerID, Prefix: "ACME"})
		src.SetCustomerSequence(companyID, "invoice", &customerID, 7)

		docID := id.New()
		src.AddDocument(DocumentRef{
			ID:                     docID,
			SequenceNumber:         12,
			CustomerSequenceNumber: seq(3),
			CustomerID:             &otherCustomerID,
		})

		f := newTestFormatter(src, companyID).WithFormat("{{SEQUENCE:3}}/{{CUSTOMER_SEQUENCE:2}}")
		require.NoError(t, f.SetCustomer(ctx, &customerID))
		require.NoError(t, f.SetExistingDocument(ctx, docID))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "012/08", got)
	})

	t.Run("unknown document is ignored", func(t *testing.T) {
		src := NewMockSource()
		src.SetSequence(companyID, "invoice", 4)

		f := newTestFormatter(src, companyID).WithFormat("{{SEQUENCE:3}}")
		require.NoError(t, f.SetExistingDocument(ctx, id.New()))

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "005", got)
	})
}

func TestFormatter_FormatResolution(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()

	t.Run("company setting applies", func(t *testing.T) {
		src := NewMockSource()
		src.SetFormat(companyID, "invoice", "INV-{{SEQUENCE:4}}")

		f := newTestFormatter(src, companyID)

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "INV-0001", got)
	})

	t.Run("explicit format wins over setting", func(t *testing.T) {
		src := NewMockSource()
		src.SetFormat(companyID, "invoice", "INV-{{SEQUENCE:4}}")

		f := newTestFormatter(src, companyID).WithFormat("X{{SEQUENCE:2}}")

		got, err := f.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "X01", got)
	})

	t.Run("entity types do not share formats or counters", func(t *testing.T) {
		src := NewMockSource()
		src.SetFormat(companyID, "invoice", "INV-{{SEQUENCE:3}}")
		src.SetFormat(companyID, "estimate", "EST-{{SEQUENCE:3}}")
		src.SetSequence(companyID, "invoice", 10)

		inv := newTestFormatter(src, companyID)
		got, err := inv.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "INV-011", got)

		est := newTestFormatter(src, companyID).ForEntity("estimate")
		got, err = est.NextNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, "EST-001", got)
	})
}

func TestFormatter_RequiresEntityAndCompany(t *testing.T) {
	ctx := context.Background()
	src := NewMockSource()

	_, err := NewFormatter(src, src, src).ForCompany(id.New()).NextNumber(ctx)
	assert.Error(t, err)

	_, err = NewFormatter(src, src, src).ForEntity("invoice").NextNumber(ctx)
	assert.Error(t, err)
}
