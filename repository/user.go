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
)

// UserRepository
type UserRepository struct {
	Collection *mongo.Collection
}

// Create a user; a taken email is reported as CONFLICT by the unique index
func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	if _, err := r.Collection.InsertOne(ctx, u); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

// Get reads the full account
func (r UserRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, r.Collection, byID(id), &u, nil); err != nil {
		return nil, readErr(err, lookups.EntityUser, id.Hex(), helpers.FuncName())
	}
	return &u, nil
}

// GetByEmail is used by the login (email is the login name)
func (r UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, r.Collection, bson.D{{Key: "email", Value: email}}, &u, nil); err != nil {
		return nil, readErr(err, lookups.EntityUser, email, helpers.FuncName())
	}
	return &u, nil
}

// Credentials reads what the token middleware needs
func (r UserRepository) Credentials(ctx context.Context, id primitive.ObjectID) (*models.Credentials, error) {
	fields := bson.D{
		{Key: "role", Value: 1},
		{Key: "passwordChangedAt", Value: 1},
	}

	var c models.Credentials
	if err := findOne(ctx, r.Collection, byID(id), &c, fields); err != nil {
		return nil, readErr(err, lookups.EntityUser, id.Hex(), helpers.FuncName())
	}
	return &c, nil
}

// Profile is the public part of an account
func (r UserRepository) Profile(ctx context.Context, id primitive.ObjectID) (*models.UserProfile, error) {
	fields := bson.D{
		{Key: "name", Value: 1},
		{Key: "avatarUrl", Value: 1},
		{Key: "totalStars", Value: 1},
		{Key: "createdAt", Value: 1},
	}

	var p models.UserProfile
	if err := findOne(ctx, r.Collection, byID(id), &p, fields); err != nil {
		return nil, readErr(err, lookups.EntityUser, id.Hex(), helpers.FuncName())
	}
	return &p, nil
}

func (r UserRepository) update(ctx context.Context, id primitive.ObjectID, update bson.D, info string) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(id), update)
	return matched(res, err, lookups.EntityUser, id, info)
}

func (r UserRepository) SetAvatar(ctx context.Context, id primitive.ObjectID, url string) error {
	return r.update(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "avatarUrl", Value: url},
		{Key: "updatedAt", Value: time.Now().UTC()},
	}}}, helpers.FuncName())
}

func (r UserRepository) SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error {
	return r.update(ctx, id, bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: hash},
		{Key: "passwordChangedAt", Value: changedAt},
		{Key: "updatedAt", Value: changedAt},
	}}}, helpers.FuncName())
}

func (r UserRepository) AddStarred(ctx context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{{Key: "$addToSet", Value: bson.D{{Key: "starredArticles", Value: articleID}}}}, helpers.FuncName())
}

func (r UserRepository) RemoveStarred(ctx context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{{Key: "$pull", Value: bson.D{{Key: "starredArticles", Value: articleID}}}}, helpers.FuncName())
}

// RemoveStarredEverywhere is used when an article is deleted
func (r UserRepository) RemoveStarredEverywhere(ctx context.Context, articleID primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	_, err := r.Collection.UpdateMany(ctx,
		bson.D{{Key: "starredArticles", Value: articleID}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "starredArticles", Value: articleID}}}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

// IncTotalStars of an author; a deleted author is ignored
func (r UserRepository) IncTotalStars(ctx context.Context, id primitive.ObjectID, delta int64) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	_, err := r.Collection.UpdateOne(ctx, byID(id), bson.D{{Key: "$inc", Value: bson.D{{Key: "totalStars", Value: delta}}}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

func (r UserRepository) AddWishlist(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "wishlist", Value: bson.D{{Key: "$ne", Value: productID}}}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "wishlist", Value: productID}}}})
	return modified(res, err, helpers.FuncName())
}

func (r UserRepository) RemoveWishlist(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "wishlist", Value: productID}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: "wishlist", Value: productID}}}})
	return modified(res, err, helpers.FuncName())
}

// SetCartItem updates the quantity of an existing line or appends a new line
func (r UserRepository) SetCartItem(ctx context.Context, id primitive.ObjectID, item models.CartItem) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "cart.product", Value: item.Product}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "cart.$.quantity", Value: item.Quantity}}}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// guarded, so a concurrent add cannot create a second line
	res, err = r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "cart.product", Value: bson.D{{Key: "$ne", Value: item.Product}}}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "cart", Value: item}}}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// either the user is gone or the line was added in the meantime
	res, err = r.Collection.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "cart.product", Value: item.Product}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "cart.$.quantity", Value: item.Quantity}}}})
	return matched(res, err, lookups.EntityUser, id, helpers.FuncName())
}

func (r UserRepository) RemoveCartItem(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{{Key: "$pull", Value: bson.D{
		{Key: "cart", Value: bson.D{{Key: "product", Value: productID}}},
	}}}, helpers.FuncName())
}

func (r UserRepository) ClearCart(ctx context.Context, id primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{{Key: "$set", Value: bson.D{{Key: "cart", Value: bson.A{}}}}}, helpers.FuncName())
}
