package serial

import "strings"

// phpLayout maps single PHP date() pattern characters to Go reference-time
// layout fragments. Characters without a mapping are copied verbatim, and a
// backslash escapes the next character, mirroring PHP's behavior.
var phpLayout = map[byte]string{
	'd': "02",
	'j': "2",
	'D': "Mon",
	'l': "Monday",
	'm': "01",
	'n': "1",
	'M': "Jan",
	'F': "January",
	'y': "06",
	'Y': "2006",
	'H': "15",
	'G': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
}

// DateLayout translates a PHP date() pattern into a Go time layout.
// Common patterns in number formats are "Y", "y", "ymd" and "Y-m".
func DateLayout(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) * 2)

	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if layout, ok := phpLayout[c]; ok {
			b.WriteString(layout)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
