package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// every repository call gets its own deadline
const timeout = 10 * time.Second

// Timeout derives the context of a single database call
func Timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// OpenConnection to the database; the returned client is shared by all repositories
func OpenConnection(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// make sure a connection has actually been made
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// CloseConnection closes the connection to the DB (when client is shut-down)
func CloseConnection(client *mongo.Client) error {
	ctx, cancel := Timeout(context.Background())
	defer cancel()
	return client.Disconnect(ctx)
}

// IsDuplicateKey reports a violated unique index
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
