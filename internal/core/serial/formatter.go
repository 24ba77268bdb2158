package serial

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"facture/internal/core/id"
)

const (
	// DefaultFormat is used when a company has not configured a number
	// format for an entity type.
	DefaultFormat = "{{SEQUENCE:6}}"

	// DefaultCustomerSeries is rendered by {{CUSTOMER_SERIES}} when no
	// customer is set or the customer has no prefix.
	DefaultCustomerSeries = "CST"

	defaultSequenceWidth = 6
	defaultRandomLength  = 6
)

// Formatter builds the next serial number for one document. It is a
// single-shot builder: configure it with the For*/Set* methods, then call
// NextNumber. Counter resolution is lazy and idempotent, so NextNumber may be
// called repeatedly (for example to preview a number and then persist it)
// without advancing counters twice.
//
// A Formatter is not safe for concurrent use; create one per operation.
type Formatter struct {
	counters  CounterSource
	customers CustomerSource
	formats   FormatSource

	entityType string
	companyID  id.ID
	customer   *CustomerRef
	format     string

	nextSequence         *int64
	nextCustomerSequence *int64

	now       func() time.Time
	randomHex func(length int) (string, error)
}

// NewFormatter creates a formatter over the given sources.
func NewFormatter(counters CounterSource, customers CustomerSource, formats FormatSource) *Formatter {
	return &Formatter{
		counters:  counters,
		customers: customers,
		formats:   formats,
		now:       time.Now,
		randomHex: randomHex,
	}
}

// ForEntity sets the entity type whose counters and format apply, e.g.
// "invoice" or "estimate".
func (f *Formatter) ForEntity(entityType string) *Formatter {
	f.entityType = entityType
	return f
}

// ForCompany scopes counter and format resolution to one company.
func (f *Formatter) ForCompany(companyID id.ID) *Formatter {
	f.companyID = companyID
	return f
}

// WithFormat overrides the company's configured format for this call.
func (f *Formatter) WithFormat(format string) *Formatter {
	f.format = format
	return f
}

// SetCustomer resolves and attaches the customer whose prefix and counter the
// number should use. A nil customerID or an unknown customer leaves the
// formatter without a customer; only lookup failures are reported.
func (f *Formatter) SetCustomer(ctx context.Context, customerID *id.ID) error {
	f.customer = nil
	if customerID == nil {
		return nil
	}
	c, err := f.customers.FindCustomer(ctx, *customerID)
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", customerID, err)
	}
	f.customer = c
	return nil
}

// SetExistingDocument seeds the counters from a stored document, so that
// re-rendering an existing record reuses its counters instead of advancing
// them. The customer counter is seeded only when the document belongs to the
// customer attached via SetCustomer; a document for another customer must
// still draw a fresh customer counter. An unknown document is not an error.
func (f *Formatter) SetExistingDocument(ctx context.Context, docID id.ID) error {
	if f.entityType == "" {
		return errors.New("serial: entity type not set")
	}
	doc, err := f.counters.FindDocument(ctx, f.entityType, docID)
	if err != nil {
		return fmt.Errorf("resolve document %s: %w", docID, err)
	}
	if doc == nil {
		return nil
	}

	seq := doc.SequenceNumber
	f.nextSequence = &seq

	if f.customer != nil && doc.CustomerID != nil && *doc.CustomerID == f.customer.ID && doc.CustomerSequenceNumber != nil {
		custSeq := *doc.CustomerSequenceNumber
		f.nextCustomerSequence = &custSeq
	}
	return nil
}

// ResolveNext fixes the counters the rendered number will use: the highest
// issued value plus one, or 1 when none exist. Counters already fixed, by a
// prior call or by SetExistingDocument, are left untouched.
func (f *Formatter) ResolveNext(ctx context.Context) error {
	if f.entityType == "" {
		return errors.New("serial: entity type not set")
	}
	if id.IsNil(f.companyID) {
		return errors.New("serial: company not set")
	}

	if f.nextSequence == nil {
		last, found, err := f.counters.LastSequence(ctx, f.entityType, f.companyID)
		if err != nil {
			return fmt.Errorf("last sequence for %s: %w", f.entityType, err)
		}
		next := int64(1)
		if found {
			next = last + 1
		}
		f.nextSequence = &next
	}

	if f.nextCustomerSequence == nil {
		var customerID *id.ID
		if f.customer != nil {
			customerID = &f.customer.ID
		}
		last, found, err := f.counters.LastCustomerSequence(ctx, f.entityType, f.companyID, customerID)
		if err != nil {
			return fmt.Errorf("last customer sequence for %s: %w", f.entityType, err)
		}
		next := int64(1)
		if found {
			next = last + 1
		}
		f.nextCustomerSequence = &next
	}

	return nil
}

// NextSequence returns the resolved global counter, once ResolveNext or
// SetExistingDocument has fixed it.
func (f *Formatter) NextSequence() (int64, bool) {
	if f.nextSequence == nil {
		return 0, false
	}
	return *f.nextSequence, true
}

// NextCustomerSequence returns the resolved per-customer counter.
func (f *Formatter) NextCustomerSequence() (int64, bool) {
	if f.nextCustomerSequence == nil {
		return 0, false
	}
	return *f.nextCustomerSequence, true
}

// NextNumber resolves the format template and counters and renders the
// serial number. The template comes from WithFormat when set, otherwise from
// the company's configured format for the entity type, falling back to
// DefaultFormat.
func (f *Formatter) NextNumber(ctx context.Context) (string, error) {
	format := f.format
	if format == "" {
		var err error
		format, err = f.formats.NumberFormat(ctx, f.companyID, f.entityType)
		if err != nil {
			return "", fmt.Errorf("number format for %s: %w", f.entityType, err)
		}
	}
	if format == "" {
		format = DefaultFormat
	}

	if err := f.ResolveNext(ctx); err != nil {
		return "", err
	}
	return f.render(format)
}

// render substitutes recognized placeholders in place, preserving literal
// text and unrecognized tokens byte for byte.
func (f *Formatter) render(format string) (string, error) {
	matches := placeholderRE.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 {
		return format, nil
	}

	var b strings.Builder
	b.Grow(len(format))

	pos := 0
	for _, m := range matches {
		b.WriteString(format[pos:m[0]])
		pos = m[1]

		name := format[m[2]:m[3]]
		value := ""
		if m[4] >= 0 {
			value = format[m[4]:m[5]]
		}

		out, err := f.renderPlaceholder(kindByName[name], value)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	b.WriteString(format[pos:])

	return b.String(), nil
}

func (f *Formatter) renderPlaceholder(kind Kind, value string) (string, error) {
	switch kind {
	case KindSequence:
		if f.nextSequence == nil {
			return "", errors.New("serial: sequence not resolved")
		}
		return padded(*f.nextSequence, widthOrDefault(value, defaultSequenceWidth)), nil

	case KindDateFormat:
		pattern := value
		if pattern == "" {
			pattern = "Y"
		}
		return f.now().Format(DateLayout(pattern)), nil

	case KindRandomSequence:
		length := widthOrDefault(value, defaultRandomLength)
		return f.randomHex(length)

	case KindCustomerSeries:
		if f.customer != nil && f.customer.Prefix != "" {
			return f.customer.Prefix, nil
		}
		return DefaultCustomerSeries, nil

	case KindCustomerSequence:
		if f.nextCustomerSequence == nil {
			return "", errors.New("serial: customer sequence not resolved")
		}
		return padded(*f.nextCustomerSequence, widthOrDefault(value, 0)), nil

	case KindDelimiter, KindSeries:
		return value, nil
	}

	return "", fmt.Errorf("serial: unhandled placeholder %d", kind)
}

// padded zero-pads n to width digits. A width of zero, or a number already
// wider than width, renders without padding.
func padded(n int64, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

// widthOrDefault parses a placeholder argument as a non-negative width.
// Empty or malformed arguments fall back to the default.
func widthOrDefault(value string, def int) int {
	if value == "" {
		return def
	}
	w, err := strconv.Atoi(value)
	if err != nil || w < 0 {
		return def
	}
	return w
}

// randomHex returns length lowercase hex characters from crypto/rand.
func randomHex(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random sequence: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}
