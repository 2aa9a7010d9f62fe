package duty

import (
	"context"
	"sync"
	"time"

	"pharmacy-duty-api/core/domain"
	"pharmacy-duty-api/core/interfaces"
)

// mockDirectory is a mock implementation of the DirectoryAPI interface
type mockDirectory struct {
	fetchAllFunc       func(ctx context.Context) ([]domain.Pharmacy, error)
	fetchByCityFunc    func(ctx context.Context, citySlug, districtSlug string) ([]domain.Pharmacy, error)
	fetchCitiesFunc    func(ctx context.Context) ([]domain.City, error)
	fetchDistrictsFunc func(ctx context.Context, citySlug string) ([]domain.District, error)
	fetchByIDFunc      func(ctx context.Context, id string) (*domain.Pharmacy, error)

	mu          sync.Mutex
	byCityCalls int
	citiesCalls int
	allCalls    int
}

func (m *mockDirectory) FetchAllPharmacies(ctx context.Context) ([]domain.Pharmacy, error) {
	m.mu.Lock()
	m.allCalls++
	m.mu.Unlock()
	if m.fetchAllFunc != nil {
		return m.fetchAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockDirectory) FetchPharmaciesByCity(ctx context.Context, citySlug, districtSlug string) ([]domain.Pharmacy, error) {
	m.mu.Lock()
	m.byCityCalls++
	m.mu.Unlock()
	if m.fetchByCityFunc != nil {
		return m.fetchByCityFunc(ctx, citySlug, districtSlug)
	}
	return nil, nil
}

func (m *mockDirectory) FetchCities(ctx context.Context) ([]domain.City, error) {
	m.mu.Lock()
	m.citiesCalls++
	m.mu.Unlock()
	if m.fetchCitiesFunc != nil {
		return m.fetchCitiesFunc(ctx)
	}
	return nil, nil
}

func (m *mockDirectory) FetchDistricts(ctx context.Context, citySlug string) ([]domain.District, error) {
	if m.fetchDistrictsFunc != nil {
		return m.fetchDistrictsFunc(ctx, citySlug)
	}
	return nil, nil
}

func (m *mockDirectory) FetchPharmacyByID(ctx context.Context, id string) (*domain.Pharmacy, error) {
	if m.fetchByIDFunc != nil {
		return m.fetchByIDFunc(ctx, id)
	}
	return nil, nil
}

// fakeCache is an in-memory Cache backed by a plain map, with optional
// error injection for the failure-path tests.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error

	lastSetCtx context.Context
	setKeys    []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	data, ok := c.entries[key]
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	return data, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSetCtx = ctx
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// mockLogger is a mock implementation of the Logger interface
type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}
