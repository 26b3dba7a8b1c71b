// Package repository implements the stores of the services package on MongoDB
package repository

import (
	"context"
	"errors"

	"bloggy-api/apperror"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/query"
	"bloggy-api/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	_ services.UserStore    = UserRepository{}
	_ services.ArticleStore = ArticleRepository{}
	_ services.CommentStore = CommentRepository{}
	_ services.ProductStore = ProductRepository{}
	_ services.OrderStore   = OrderRepository{}
	_ services.BookStore    = BookRepository{}
	_ services.LookupStore  = LookupRepository{}
)

// readErr maps a missing document to NOT_FOUND, anything else is a system error
func readErr(err error, entity string, id string, info string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperror.NotFound(entity, id)
	}
	return helpers.WrapError(err, info)
}

// writeErr maps duplicate keys (unique indexes) to CONFLICT
func writeErr(err error, info string) error {
	if database.IsDuplicateKey(err) {
		return apperror.Conflict("already exists")
	}
	return helpers.WrapError(err, info)
}

// matched reports NOT_FOUND when an update did not match any document
func matched(res *mongo.UpdateResult, err error, entity string, id primitive.ObjectID, info string) error {
	if err != nil {
		return writeErr(err, info)
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound(entity, id.Hex())
	}
	return nil
}

// modified reports whether a guarded update changed the document
func modified(res *mongo.UpdateResult, err error, info string) (bool, error) {
	if err != nil {
		return false, writeErr(err, info)
	}
	return res.ModifiedCount > 0, nil
}

// page runs the query pipeline and counts all matching documents
func page[T any](ctx context.Context, coll *mongo.Collection, q *query.Query, info string) ([]T, int64, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	total, err := coll.CountDocuments(ctx, q.CountFilter())
	if err != nil {
		return nil, 0, helpers.WrapError(err, info)
	}

	items := []T{}
	if total == 0 {
		return items, 0, nil
	}

	cursor, err := coll.Aggregate(ctx, q.Pipeline())
	if err != nil {
		return nil, 0, helpers.WrapError(err, info)
	}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, 0, helpers.WrapError(err, info)
	}

	return items, total, nil
}

// byIDs runs the expansions for a list of ids, keeping the order of the ids
func byIDs[T any](ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID, expand []query.Expansion, exclude []string, info string) ([]T, error) {
	items := []T{}
	if len(ids) == 0 {
		return items, nil
	}

	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}}}},
		{{Key: "$addFields", Value: bson.D{{Key: "_order", Value: bson.D{{Key: "$indexOfArray", Value: bson.A{ids, "$_id"}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_order", Value: 1}}}},
	}
	for _, e := range expand {
		p = append(p, e.Stages()...)
	}
	unset := bson.A{"_order"}
	for _, f := range exclude {
		unset = append(unset, f)
	}
	p = append(p, bson.D{{Key: "$unset", Value: unset}})

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	cursor, err := coll.Aggregate(ctx, p)
	if err != nil {
		return nil, helpers.WrapError(err, info)
	}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, info)
	}
	return items, nil
}

// one runs an expansion pipeline for a single document
func one[T any](ctx context.Context, coll *mongo.Collection, filter bson.D, expand []query.Expansion, exclude []string, entity string, id string, info string) (*T, error) {
	p := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$limit", Value: 1}},
	}
	for _, e := range expand {
		p = append(p, e.Stages()...)
	}
	if len(exclude) > 0 {
		unset := bson.A{}
		for _, f := range exclude {
			unset = append(unset, f)
		}
		p = append(p, bson.D{{Key: "$unset", Value: unset}})
	}

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	cursor, err := coll.Aggregate(ctx, p)
	if err != nil {
		return nil, helpers.WrapError(err, info)
	}

	var items []T
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, info)
	}
	if len(items) == 0 {
		return nil, apperror.NotFound(entity, id)
	}
	return &items[0], nil
}

// findOne with an optional projection
func findOne(ctx context.Context, coll *mongo.Collection, filter bson.D, dst interface{}, projection bson.D) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	opts := options.FindOne()
	if projection != nil {
		opts.SetProjection(projection)
	}
	return coll.FindOne(ctx, filter, opts).Decode(dst)
}

func byID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

func notFound(entity string, id primitive.ObjectID) error {
	return apperror.NotFound(entity, id.Hex())
}
