package adapters

import (
	"context"

	"ratesync/internal/domain"
)

type FeedClient interface {
	FetchSnapshot(ctx context.Context) (domain.FeedSnapshot, error)
}

// Destination is the document database rows are synced into.
type Destination interface {
	GetDatabase(ctx context.Context, databaseID string) (domain.DatabaseSchema, error)
	QueryRows(ctx context.Context, databaseID string, q domain.RowQuery) ([]domain.Row, error)
	UpdateRow(ctx context.Context, rowID string, p domain.Payload) error
	CreateRow(ctx context.Context, databaseID string, p domain.Payload) (domain.Row, error)
}

type RowCache interface {
	Get(q domain.RowQuery) (string, bool)
	Set(q domain.RowQuery, rowID string)
}
