package rate

import (
	"context"
	"fmt"
	"sync"

	"ratesync/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockDestination struct{ mock.Mock }

func (m *MockDestination) GetDatabase(ctx context.Context, databaseID string) (domain.DatabaseSchema, error) {
	args := m.Called(ctx, databaseID)
	schema, _ := args.Get(0).(domain.DatabaseSchema)
	return schema, args.Error(1)
}

func (m *MockDestination) QueryRows(ctx context.Context, databaseID string, q domain.RowQuery) ([]domain.Row, error) {
	args := m.Called(ctx, databaseID, q)
	rows, _ := args.Get(0).([]domain.Row)
	return rows, args.Error(1)
}

func (m *MockDestination) UpdateRow(ctx context.Context, rowID string, p domain.Payload) error {
	args := m.Called(ctx, rowID, p)
	return args.Error(0)
}

func (m *MockDestination) CreateRow(ctx context.Context, databaseID string, p domain.Payload) (domain.Row, error) {
	args := m.Called(ctx, databaseID, p)
	row, _ := args.Get(0).(domain.Row)
	return row, args.Error(1)
}

type MockFeedClient struct{ mock.Mock }

func (m *MockFeedClient) FetchSnapshot(ctx context.Context) (domain.FeedSnapshot, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(domain.FeedSnapshot)
	return s, args.Error(1)
}

// memoryDestination is a tiny in-memory database that evaluates row queries the way
// the real API does (equality on property values).
type memoryDestination struct {
	mu      sync.Mutex
	schema  domain.DatabaseSchema
	rows    map[string]domain.Payload
	order   []string
	creates int
	updates int
	queries int
}

func newMemoryDestination(schema domain.DatabaseSchema) *memoryDestination {
	return &memoryDestination{schema: schema, rows: make(map[string]domain.Payload)}
}

func (d *memoryDestination) GetDatabase(_ context.Context, _ string) (domain.DatabaseSchema, error) {
	return d.schema, nil
}

func (d *memoryDestination) QueryRows(_ context.Context, _ string, q domain.RowQuery) ([]domain.Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queries++
	for _, id := range d.order {
		if matches(d.rows[id], q) {
			return []domain.Row{{ID: id}}, nil
		}
	}
	return nil, nil
}

func (d *memoryDestination) UpdateRow(_ context.Context, rowID string, p domain.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	row, ok := d.rows[rowID]
	if !ok {
		return &domain.APIError{Method: "PATCH", StatusCode: 404, Code: "object_not_found"}
	}
	for k, v := range p {
		row[k] = v
	}
	d.updates++
	return nil
}

func (d *memoryDestination) CreateRow(_ context.Context, _ string, p domain.Payload) (domain.Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := fmt.Sprintf("page-%d", len(d.order)+1)
	row := make(domain.Payload, len(p))
	for k, v := range p {
		row[k] = v
	}
	d.rows[id] = row
	d.order = append(d.order, id)
	d.creates++
	return domain.Row{ID: id}, nil
}

func matches(row domain.Payload, q domain.RowQuery) bool {
	for _, c := range q {
		v, ok := row[c.Property]
		if !ok || v.Type != c.Type || v.Text != c.Equals {
			return false
		}
	}
	return true
}
