package store

import "context"

// Store is the persistence contract shared by the Redis and Postgres
// backends. Deal states are read and replaced whole; there are no partial
// updates at this layer.
type Store interface {
	LoadDeal(ctx context.Context, dealID string) (DealState, bool, error)
	SaveDeal(ctx context.Context, state DealState) error
	ListDeals(ctx context.Context) ([]DealState, error)
	SaveCommentary(ctx context.Context, item Commentary) error
	ListCommentary(ctx context.Context) ([]Commentary, error)
	DeleteAll(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
