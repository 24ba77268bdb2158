package company

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facture/internal/core/id"
)

type memSettingsRepo struct {
	values map[string]string
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{values: make(map[string]string)}
}

func (r *memSettingsRepo) Get(_ context.Context, _ id.ID, key string) (string, bool, error) {
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *memSettingsRepo) GetMany(_ context.Context, _ id.ID, keys []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, k := range keys {
		if v, ok := r.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (r *memSettingsRepo) Set(_ context.Context, _ id.ID, key, value string) error {
	r.values[key] = value
	return nil
}

func (r *memSettingsRepo) SetMany(_ context.Context, _ id.ID, values map[string]string) error {
	for k, v := range values {
		r.values[k] = v
	}
	return nil
}

func TestNumberFormatKey(t *testing.T) {
	assert.Equal(t, SettingInvoiceNumberFormat, NumberFormatKey("invoice"))
	assert.Equal(t, SettingEstimateNumberFormat, NumberFormatKey("estimate"))
	assert.Equal(t, SettingPaymentNumberFormat, NumberFormatKey("payment"))
}

func TestNumberFormat(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	svc := NewSettingsService(newMemSettingsRepo())

	format, err := svc.NumberFormat(ctx, companyID, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "", format, "unset format resolves to empty")

	require.NoError(t, svc.Set(ctx, companyID, SettingInvoiceNumberFormat, "INV-{{SEQUENCE:5}}"))

	format, err = svc.NumberFormat(ctx, companyID, "invoice")
	require.NoError(t, err)
	assert.Equal(t, "INV-{{SEQUENCE:5}}", format)
}

func TestGetMany_SkipsUnsetKeys(t *testing.T) {
	ctx := context.Background()
	companyID := id.New()
	svc := NewSettingsService(newMemSettingsRepo())

	require.NoError(t, svc.SetMany(ctx, companyID, map[string]string{
		SettingInvoiceNumberFormat: "INV-{{SEQUENCE:6}}",
	}))

	got, err := svc.GetMany(ctx, companyID, []string{
		SettingInvoiceNumberFormat,
		SettingEstimateNumberFormat,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SettingInvoiceNumberFormat: "INV-{{SEQUENCE:6}}"}, got)
}
