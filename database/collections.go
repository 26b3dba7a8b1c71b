package database

import (
	"context"

	"bloggy-api/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	Users           = "users"
	Articles        = "articles"
	Comments        = "comments"
	Tags            = "tags"
	Categories      = "categories"
	Brands          = "brands"
	Products        = "products"
	Orders          = "orders"
	Books           = "books"
	DeliveryMethods = "deliveryMethods"
	Commercials     = "commercials"
)

var indexes = map[string][]mongo.IndexModel{
	Users: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	},
	Articles: {
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "summary", Value: "text"}},
			Options: options.Index().SetWeights(bson.D{
				{Key: "title", Value: 10},
				{Key: "summary", Value: 5},
			}),
		},
		{Keys: bson.D{{Key: "author", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	Comments: {
		{Keys: bson.D{{Key: "article", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "parent", Value: 1}}},
	},
	Tags:       {{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
	Categories: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
	Brands:     {{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
	Products: {
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	},
	Orders: {{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}}},
	Books: {
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "author", Value: "text"}}},
		{Keys: bson.D{{Key: "createdBy", Value: 1}}},
	},
	DeliveryMethods: {{Keys: bson.D{{Key: "shortName", Value: 1}}, Options: options.Index().SetUnique(true)}},
}

// EnsureIndexes creates the indexes of all collections (idempotent)
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexes {
		c, cancel := Timeout(ctx)
		_, err := db.Collection(coll).Indexes().CreateMany(c, models)
		cancel()
		if err != nil {
			return helpers.WrapError(err, helpers.FuncName()+" "+coll)
		}
	}
	return nil
}
