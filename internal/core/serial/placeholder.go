// Package serial provides templated serial number generation for numbered
// documents (invoices, estimates, payments). A format template mixes literal
// text with {{NAME}} / {{NAME:VALUE}} placeholders; the formatter resolves
// per-company and per-customer counters and renders the final number.
//
// This is the domain contract plus pure rendering logic - counter and lookup
// implementations live in the infrastructure layer.
package serial

import (
	"regexp"
)

// Kind identifies a recognized placeholder. The set is closed: rendering
// switches exhaustively over it, so an unhandled kind is a compile-time smell
// rather than a silent runtime fallthrough.
type Kind int

const (
	// KindSequence renders the global per-company counter, zero-padded.
	KindSequence Kind = iota
	// KindDateFormat renders the current date with a PHP-style pattern.
	KindDateFormat
	// KindRandomSequence renders cryptographically random lowercase hex.
	KindRandomSequence
	// KindCustomerSeries renders the customer's prefix, or "CST" without one.
	KindCustomerSeries
	// KindCustomerSequence renders the per-customer counter, zero-padded.
	KindCustomerSequence
	// KindDelimiter injects its value argument verbatim.
	KindDelimiter
	// KindSeries injects its value argument verbatim.
	KindSeries
)

// String returns the placeholder name as it appears in templates.
func (k Kind) String() string {
	switch k {
	case KindSequence:
		return "SEQUENCE"
	case KindDateFormat:
		return "DATE_FORMAT"
	case KindRandomSequence:
		return "RANDOM_SEQUENCE"
	case KindCustomerSeries:
		return "CUSTOMER_SERIES"
	case KindCustomerSequence:
		return "CUSTOMER_SEQUENCE"
	case KindDelimiter:
		return "DELIMITER"
	case KindSeries:
		return "SERIES"
	}
	return "UNKNOWN"
}

var kindByName = map[string]Kind{
	"SEQUENCE":          KindSequence,
	"DATE_FORMAT":       KindDateFormat,
	"RANDOM_SEQUENCE":   KindRandomSequence,
	"CUSTOMER_SERIES":   KindCustomerSeries,
	"CUSTOMER_SEQUENCE": KindCustomerSequence,
	"DELIMITER":         KindDelimiter,
	"SERIES":            KindSeries,
}

// Placeholder is one recognized token extracted from a format template.
type Placeholder struct {
	Kind Kind

	// Value is the optional argument after the colon ({{SEQUENCE:4}} -> "4").
	// Empty when the token carries no argument.
	Value string
}

// Name returns the placeholder name as written in the template.
func (p Placeholder) Name() string {
	return p.Kind.String()
}

// placeholderRE matches recognized tokens only. Anything else - malformed
// braces, unknown names - is deliberately not matched and passes through the
// renderer as literal text (fail open, never fail loud).
var placeholderRE = regexp.MustCompile(
	`\{\{(SEQUENCE|DATE_FORMAT|RANDOM_SEQUENCE|CUSTOMER_SERIES|CUSTOMER_SEQUENCE|DELIMITER|SERIES)(?::([^}]*))?\}\}`,
)

// Placeholders scans a format template and returns the recognized tokens in
// left-to-right order. Duplicates are preserved as separate entries, each with
// its own value argument. The function is pure: no formatter state, no side
// effects. An empty or placeholder-free template yields an empty slice.
func Placeholders(format string) []Placeholder {
	matches := placeholderRE.FindAllStringSubmatch(format, -1)
	if len(matches) == 0 {
		return nil
	}

	result := make([]Placeholder, 0, len(matches))
	for _, m := range matches {
		kind, ok := kindByName[m[1]]
		if !ok {
			continue
		}
		result = append(result, Placeholder{Kind: kind, Value: m[2]})
	}
	return result
}
