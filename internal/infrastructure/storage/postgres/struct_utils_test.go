package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"facture/internal/core/entity"
	"facture/internal/core/id"
)

type mockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
	Skip string `db:"-" json:"skip"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{
		"id", "company_id", "deletion_mark", "version", "custom_fields", "code", "name",
	}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "skip")
}

func TestStructToMap(t *testing.T) {
	companyID := id.New()
	cat := mockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				CompanyID:    companyID,
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "C-001",
		Name: "Test Name",
		Skip: "not stored",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, companyID, m["company_id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "C-001", m["code"])
	assert.Equal(t, "Test Name", m["name"])
	assert.NotContains(t, m, "skip")
	assert.NotContains(t, m, "-")
}
