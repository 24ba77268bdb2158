// Package entity provides base types for all domain entities.
package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// CustomFields represents JSONB user-defined fields with type-safe accessors.
// Implements sql.Scanner and driver.Valuer for PostgreSQL JSONB mapping.
//
// Uses json.Number to preserve numeric precision: the default Go JSON decoder
// converts numbers to float64, losing precision for monetary decimals.
type CustomFields map[string]any

// Scan implements sql.Scanner for reading from PostgreSQL JSONB.
func (f *CustomFields) Scan(src any) error {
	if src == nil {
		*f = nil
		return nil
	}

	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	default:
		return fmt.Errorf("unsupported type for CustomFields: %T", src)
	}

	if len(source) == 0 {
		*f = nil
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(source))
	decoder.UseNumber()

	var result map[string]any
	if err := decoder.Decode(&result); err != nil {
		return fmt.Errorf("failed to decode CustomFields: %w", err)
	}

	*f = result
	return nil
}

// Value implements driver.Valuer for writing to PostgreSQL JSONB.
func (f CustomFields) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// GetString returns string value or empty string if not found/wrong type.
func (f CustomFields) GetString(key string) string {
	if f == nil {
		return ""
	}
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// GetInt returns int64 value, handling json.Number correctly.
func (f CustomFields) GetInt(key string) int64 {
	if f == nil {
		return 0
	}
	switch v := f[key].(type) {
	case json.Number:
		i, _ := v.Int64()
		return i
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// GetDecimal returns decimal.Decimal value with full precision.
// This is the preferred accessor for monetary values.
func (f CustomFields) GetDecimal(key string) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	switch v := f[key].(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// GetBool returns boolean value.
func (f CustomFields) GetBool(key string) bool {
	if f == nil {
		return false
	}
	if v, ok := f[key].(bool); ok {
		return v
	}
	return false
}

// Has checks if key exists (including nil values).
func (f CustomFields) Has(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f[key]
	return ok
}

// Set adds or updates a value. Returns self for chaining.
func (f *CustomFields) Set(key string, value any) CustomFields {
	if *f == nil {
		*f = make(CustomFields)
	}
	(*f)[key] = value
	return *f
}

// Clone creates a shallow copy.
func (f CustomFields) Clone() CustomFields {
	if f == nil {
		return nil
	}
	result := make(CustomFields, len(f))
	for k, v := range f {
		result[k] = v
	}
	return result
}
