package repository

import (
	"context"

	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookRepository
type BookRepository struct {
	Collection *mongo.Collection
}

func (r BookRepository) List(ctx context.Context, q *query.Query) ([]models.Book, int64, error) {
	return page[models.Book](ctx, r.Collection, q, helpers.FuncName())
}

func (r BookRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var b models.Book
	if err := findOne(ctx, r.Collection, byID(id), &b, nil); err != nil {
		return nil, readErr(err, lookups.EntityBook, id.Hex(), helpers.FuncName())
	}
	return &b, nil
}

func (r BookRepository) Create(ctx context.Context, b *models.Book) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	if _, err := r.Collection.InsertOne(ctx, b); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

func (r BookRepository) Update(ctx context.Context, b *models.Book) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(b.ID), bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: b.Title},
		{Key: "author", Value: b.Author},
		{Key: "coverImage", Value: b.CoverImage},
		touch(b.UpdatedAt),
	}}})
	return matched(res, err, lookups.EntityBook, b.ID, helpers.FuncName())
}

func (r BookRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteOne(ctx, byID(id))
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.DeletedCount == 0 {
		return notFound(lookups.EntityBook, id)
	}
	return nil
}
