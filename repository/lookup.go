package repository

import (
	"context"
	"regexp"

	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// entity names of the taxonomy collections
var lookupEntities = map[string]string{
	lookups.TaxonomyTags:       lookups.EntityTag,
	lookups.TaxonomyCategories: lookups.EntityCategory,
	lookups.TaxonomyBrands:     lookups.EntityBrand,
	lookups.TaxonomyDelivery:   lookups.EntityDelivery,
}

// LookupRepository serves the small taxonomy collections; kind is the collection name
type LookupRepository struct {
	DB *mongo.Database
}

func (r LookupRepository) List(ctx context.Context, kind string) ([]models.Lookup, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.DB.Collection(kind).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	items := []models.Lookup{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	return items, nil
}

func (r LookupRepository) Exists(ctx context.Context, kind string, id primitive.ObjectID) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	n, err := r.DB.Collection(kind).CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return false, helpers.WrapError(err, helpers.FuncName())
	}
	return n > 0, nil
}

// FindByName matches the whole name, ignoring case
func (r LookupRepository) FindByName(ctx context.Context, kind string, name string) (*models.Lookup, error) {
	filter := bson.D{{Key: "name", Value: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}}}

	var l models.Lookup
	if err := findOne(ctx, r.DB.Collection(kind), filter, &l, nil); err != nil {
		return nil, readErr(err, lookupEntities[kind], name, helpers.FuncName())
	}
	return &l, nil
}

func (r LookupRepository) Create(ctx context.Context, kind string, l *models.Lookup) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	if _, err := r.DB.Collection(kind).InsertOne(ctx, l); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

func (r LookupRepository) DeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "price", Value: 1}})
	cursor, err := r.DB.Collection(database.DeliveryMethods).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	items := []models.DeliveryMethod{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	return items, nil
}

func (r LookupRepository) DeliveryMethod(ctx context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error) {
	var dm models.DeliveryMethod
	if err := findOne(ctx, r.DB.Collection(database.DeliveryMethods), byID(id), &dm, nil); err != nil {
		return nil, readErr(err, lookups.EntityDelivery, id.Hex(), helpers.FuncName())
	}
	return &dm, nil
}

// Commercials, newest first
func (r LookupRepository) Commercials(ctx context.Context) ([]models.Commercial, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.DB.Collection(database.Commercials).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	items := []models.Commercial{}
	if err = cursor.All(ctx, &items); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	return items, nil
}
