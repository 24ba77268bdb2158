package serial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateLayout(t *testing.T) {
	ts := time.Date(2021, time.June, 5, 14, 7, 9, 0, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"Y", "2021"},
		{"y", "21"},
		{"Ymd", "20210605"},
		{"ymd", "210605"},
		{"Y-m-d", "2021-06-05"},
		{"d/m/Y", "05/06/2021"},
		{"jnY", "562021"},
		{"M Y", "Jun 2021"},
		{"D", "Sat"},
		{"H:i:s", "14:07:09"},
		{"g:ia", "2:07pm"},
		{`\Y Y`, "Y 2021"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, ts.Format(DateLayout(tt.pattern)))
		})
	}
}
