package repository

import (
	"context"
	"time"

	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository
type OrderRepository struct {
	Collection *mongo.Collection
}

func (r OrderRepository) Create(ctx context.Context, o *models.Order) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	if _, err := r.Collection.InsertOne(ctx, o); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

func (r OrderRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	if err := findOne(ctx, r.Collection, byID(id), &o, nil); err != nil {
		return nil, readErr(err, lookups.EntityOrder, id.Hex(), helpers.FuncName())
	}
	return &o, nil
}

// ListByUser returns the orders of a user, latest first
func (r OrderRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.D{{Key: "user", Value: userID}}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	orders := []models.Order{}
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	return orders, nil
}

func (r OrderRepository) SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.D{
		{Key: "isPaid", Value: true},
		{Key: "paidAt", Value: at},
		touch(at),
	}, helpers.FuncName())
}

func (r OrderRepository) SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return r.set(ctx, id, bson.D{
		{Key: "isDelivered", Value: true},
		{Key: "deliveredAt", Value: at},
		touch(at),
	}, helpers.FuncName())
}

func (r OrderRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.D, info string) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: fields}})
	return matched(res, err, lookups.EntityOrder, id, info)
}
