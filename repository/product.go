package repository

import (
	"context"

	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"
	"bloggy-api/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProductRepository
type ProductRepository struct {
	Collection *mongo.Collection
}

func (r ProductRepository) List(ctx context.Context, q *query.Query) ([]models.ProductView, int64, error) {
	return page[models.ProductView](ctx, r.Collection, q, helpers.FuncName())
}

// PriceRange over the filter of the list, ignoring the page window
func (r ProductRepository) PriceRange(ctx context.Context, q *query.Query) (*models.PriceRange, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	p := mongo.Pipeline{
		{{Key: "$match", Value: q.CountFilter()}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "min", Value: bson.D{{Key: "$min", Value: "$price"}}},
			{Key: "max", Value: bson.D{{Key: "$max", Value: "$price"}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, p)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var rows []models.PriceRange
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	if len(rows) == 0 {
		return &models.PriceRange{}, nil
	}
	return &rows[0], nil
}

func (r ProductRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ProductView, error) {
	return byIDs[models.ProductView](ctx, r.Collection, ids, services.ProductQuery.Expand, services.ProductQuery.Exclude, helpers.FuncName())
}

// GetBySlug is the detail view, reviews included
func (r ProductRepository) GetBySlug(ctx context.Context, slug string) (*models.ProductView, error) {
	return one[models.ProductView](ctx, r.Collection, bson.D{{Key: "slug", Value: slug}}, services.ProductQuery.Expand, nil,
		lookups.EntityProduct, slug, helpers.FuncName())
}

func (r ProductRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := findOne(ctx, r.Collection, byID(id), &p, nil); err != nil {
		return nil, readErr(err, lookups.EntityProduct, id.Hex(), helpers.FuncName())
	}
	return &p, nil
}

// Create; a taken slug is reported as CONFLICT
func (r ProductRepository) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	if _, err := r.Collection.InsertOne(ctx, p); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

// Update writes the editable fields; reviews and rating are left alone
func (r ProductRepository) Update(ctx context.Context, p *models.Product) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	set := bson.D{
		{Key: "name", Value: p.Name},
		{Key: "slug", Value: p.Slug},
		{Key: "images", Value: p.Images},
		{Key: "category", Value: p.Category},
		{Key: "brand", Value: p.Brand},
		{Key: "description", Value: p.Description},
		{Key: "isFeatured", Value: p.IsFeatured},
		{Key: "price", Value: p.Price},
		{Key: "stockCount", Value: p.StockCount},
		touch(p.UpdatedAt),
	}

	res, err := r.Collection.UpdateOne(ctx, byID(p.ID), bson.D{{Key: "$set", Value: set}})
	return matched(res, err, lookups.EntityProduct, p.ID, helpers.FuncName())
}

func (r ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteOne(ctx, byID(id))
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.DeletedCount == 0 {
		return notFound(lookups.EntityProduct, id)
	}
	return nil
}

// AddReview appends the review unless the user already reviewed the product;
// rating and numReviews are recomputed in the same update
func (r ProductRepository) AddReview(ctx context.Context, id primitive.ObjectID, review models.Review) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "reviews.user", Value: bson.D{{Key: "$ne", Value: review.User}}},
	}

	reviews := bson.D{{Key: "$concatArrays", Value: bson.A{
		bson.D{{Key: "$ifNull", Value: bson.A{"$reviews", bson.A{}}}},
		// user text may start with "$"
		bson.D{{Key: "$literal", Value: bson.A{review}}},
	}}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{{Key: "reviews", Value: reviews}}}},
		{{Key: "$set", Value: bson.D{
			{Key: "numReviews", Value: bson.D{{Key: "$size", Value: "$reviews"}}},
			{Key: "rating", Value: bson.D{{Key: "$round", Value: bson.A{bson.D{{Key: "$avg", Value: "$reviews.rating"}}, 1}}}},
			{Key: "updatedAt", Value: review.CreatedAt},
		}}},
	}

	res, err := r.Collection.UpdateOne(ctx, filter, update)
	return modified(res, err, helpers.FuncName())
}

// TakeStock only matches while enough is left
func (r ProductRepository) TakeStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "stockCount", Value: bson.D{{Key: "$gte", Value: quantity}}}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "stockCount", Value: -quantity}}}})
	return modified(res, err, helpers.FuncName())
}

func (r ProductRepository) ReturnStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(id), bson.D{{Key: "$inc", Value: bson.D{{Key: "stockCount", Value: quantity}}}})
	return matched(res, err, lookups.EntityProduct, id, helpers.FuncName())
}
