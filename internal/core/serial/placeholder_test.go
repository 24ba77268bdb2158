package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   []Placeholder
	}{
		{
			name:   "full format",
			format: "{{SERIES:INV}}{{DELIMITER:-}}{{DATE_FORMAT:Y}}-{{SEQUENCE:6}}",
			want: []Placeholder{
				{Kind: KindSeries, Value: "INV"},
				{Kind: KindDelimiter, Value: "-"},
				{Kind: KindDateFormat, Value: "Y"},
				{Kind: KindSequence, Value: "6"},
			},
		},
		{
			name:   "missing value argument",
			format: "{{SEQUENCE}}{{CUSTOMER_SERIES}}",
			want: []Placeholder{
				{Kind: KindSequence},
				{Kind: KindCustomerSeries},
			},
		},
		{
			name:   "empty value argument",
			format: "{{DELIMITER:}}",
			want:   []Placeholder{{Kind: KindDelimiter, Value: ""}},
		},
		{
			name:   "customer tokens disambiguated",
			format: "{{CUSTOMER_SEQUENCE:4}}{{CUSTOMER_SERIES}}",
			want: []Placeholder{
				{Kind: KindCustomerSequence, Value: "4"},
				{Kind: KindCustomerSeries},
			},
		},
		{
			name:   "duplicates kept in order",
			format: "{{SEQUENCE:2}}x{{SEQUENCE:8}}",
			want: []Placeholder{
				{Kind: KindSequence, Value: "2"},
				{Kind: KindSequence, Value: "8"},
			},
		},
		{
			name:   "unknown and malformed tokens skipped",
			format: "{{BOGUS:1}}{SEQUENCE}{{SEQUENCE",
			want:   nil,
		},
		{
			name:   "empty format",
			format: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Placeholders(tt.format))
		})
	}
}

func TestKindString(t *testing.T) {
	for name, kind := range kindByName {
		assert.Equal(t, name, kind.String())
	}
	assert.Equal(t, "UNKNOWN", Kind(99).String())
}
