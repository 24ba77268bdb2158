package serial

import (
	"context"
	"sync"

	"facture/internal/core/id"
)

// MockSource is an in-memory CounterSource, CustomerSource and FormatSource
// for tests and local development. Safe for concurrent use.
type MockSource struct {
	mu sync.Mutex

	// sequences is keyed by company and entity type.
	sequences map[counterKey]int64
	// customerSequences is keyed by company, entity type and customer
	// bucket (nil customer documents share one bucket per key).
	customerSequences map[customerCounterKey]int64

	documents map[id.ID]DocumentRef
	customers map[id.ID]CustomerRef
	formats   map[counterKey]string
}

type counterKey struct {
	companyID  id.ID
	entityType string
}

type customerCounterKey struct {
	companyID  id.ID
	entityType string
	customerID id.ID // id.Nil for the no-customer bucket
}

// NewMockSource creates an empty mock.
func NewMockSource() *MockSource {
	return &MockSource{
		sequences:         make(map[counterKey]int64),
		customerSequences: make(map[customerCounterKey]int64),
		documents:         make(map[id.ID]DocumentRef),
		customers:         make(map[id.ID]CustomerRef),
		formats:           make(map[counterKey]string),
	}
}

// SetSequence fixes the highest issued global counter.
func (m *MockSource) SetSequence(companyID id.ID, entityType string, last int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[counterKey{companyID, entityType}] = last
}

// SetCustomerSequence fixes the highest issued counter for a customer bucket.
// A nil customerID addresses the bucket of documents without a customer.
func (m *MockSource) SetCustomerSequence(companyID id.ID, entityType string, customerID *id.ID, last int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customerSequences[customerCounterKey{companyID, entityType, deref(customerID)}] = last
}

// AddDocument registers a stored document for FindDocument.
func (m *MockSource) AddDocument(doc DocumentRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
}

// AddCustomer registers a customer for FindCustomer.
func (m *MockSource) AddCustomer(c CustomerRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
}

// SetFormat configures the number format for an entity type.
func (m *MockSource) SetFormat(companyID id.ID, entityType, format string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.formats[counterKey{companyID, entityType}] = format
}

func (m *MockSource) LastSequence(_ context.Context, entityType string, companyID id.ID) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.sequences[counterKey{companyID, entityType}]
	return last, ok, nil
}

func (m *MockSource) LastCustomerSequence(_ context.Context, entityType string, companyID id.ID, customerID *id.ID) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.customerSequences[customerCounterKey{companyID, entityType, deref(customerID)}]
	return last, ok, nil
}

func (m *MockSource) FindDocument(_ context.Context, _ string, docID id.ID) (*DocumentRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.documents[docID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *MockSource) FindCustomer(_ context.Context, customerID id.ID) (*CustomerRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[customerID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MockSource) NumberFormat(_ context.Context, companyID id.ID, entityType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formats[counterKey{companyID, entityType}], nil
}

func deref(customerID *id.ID) id.ID {
	if customerID == nil {
		return id.Nil()
	}
	return *customerID
}
