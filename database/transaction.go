package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs fn atomically. The context passed to fn must be used for
// every repository call that belongs to the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor uses client sessions (requires a replica set)
type MongoTransactor struct {
	Client *mongo.Client
}

func (t MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// NoTransaction executes fn directly (standalone servers, tests);
// counters stay correct through atomic single-document operators
type NoTransaction struct{}

func (NoTransaction) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
