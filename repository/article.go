package repository

import (
	"context"
	"time"

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

// the detail view keeps the content
var articleHidden = []string{"starredBy", "comments"}

// ArticleRepository
type ArticleRepository struct {
	Collection *mongo.Collection
}

func (r ArticleRepository) List(ctx context.Context, q *query.Query) ([]models.ArticleView, int64, error) {
	return page[models.ArticleView](ctx, r.Collection, q, helpers.FuncName())
}

// ListByIDs keeps the order of ids (eg. starred articles, latest first)
func (r ArticleRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ArticleView, error) {
	return byIDs[models.ArticleView](ctx, r.Collection, ids, services.ArticleQuery.Expand, services.ArticleQuery.Exclude, helpers.FuncName())
}

func (r ArticleRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	if err := findOne(ctx, r.Collection, byID(id), &a, nil); err != nil {
		return nil, readErr(err, lookups.EntityArticle, id.Hex(), helpers.FuncName())
	}
	return &a, nil
}

// View reads an article with author, category and tags populated
func (r ArticleRepository) View(ctx context.Context, id primitive.ObjectID) (*models.ArticleView, error) {
	return one[models.ArticleView](ctx, r.Collection, byID(id), services.ArticleQuery.Expand, articleHidden,
		lookups.EntityArticle, id.Hex(), helpers.FuncName())
}

func (r ArticleRepository) Create(ctx context.Context, a *models.Article) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	if _, err := r.Collection.InsertOne(ctx, a); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

// Update writes the editable fields only, counters and lists are left alone
func (r ArticleRepository) Update(ctx context.Context, a *models.Article) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	set := bson.D{
		{Key: "title", Value: a.Title},
		{Key: "summary", Value: a.Summary},
		{Key: "content", Value: a.Content},
		{Key: "contentHtml", Value: a.ContentHTML},
		{Key: "coverImageUrl", Value: a.CoverImageURL},
		{Key: "readTimeInMinutes", Value: a.ReadTimeInMinutes},
		{Key: "category", Value: a.Category},
		{Key: "tags", Value: a.Tags},
		{Key: "updatedAt", Value: a.UpdatedAt},
	}

	res, err := r.Collection.UpdateOne(ctx, byID(a.ID), bson.D{{Key: "$set", Value: set}})
	return matched(res, err, lookups.EntityArticle, a.ID, helpers.FuncName())
}

func (r ArticleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteOne(ctx, byID(id))
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if res.DeletedCount == 0 {
		return notFound(lookups.EntityArticle, id)
	}
	return nil
}

func (r ArticleRepository) update(ctx context.Context, id primitive.ObjectID, update bson.D, info string) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(id), update)
	return matched(res, err, lookups.EntityArticle, id, info)
}

func (r ArticleRepository) PushComment(ctx context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{
		{Key: "$push", Value: bson.D{{Key: "comments", Value: commentID}}},
		{Key: "$inc", Value: bson.D{{Key: "totalCommentCount", Value: 1}}},
	}, helpers.FuncName())
}

func (r ArticleRepository) PullComment(ctx context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error {
	return r.update(ctx, id, bson.D{
		{Key: "$pull", Value: bson.D{{Key: "comments", Value: commentID}}},
	}, helpers.FuncName())
}

func (r ArticleRepository) IncCommentCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return r.update(ctx, id, bson.D{
		{Key: "$inc", Value: bson.D{{Key: "totalCommentCount", Value: delta}}},
	}, helpers.FuncName())
}

// AddStar only matches when the user has not starred yet,
// so starsCount stays equal to len(starredBy)
func (r ArticleRepository) AddStar(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	return r.star(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "starredBy", Value: bson.D{{Key: "$ne", Value: userID}}}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "starredBy", Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: "starsCount", Value: 1}}},
		}, id, helpers.FuncName())
}

func (r ArticleRepository) RemoveStar(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (bool, error) {
	return r.star(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "starredBy", Value: userID}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "starredBy", Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: "starsCount", Value: -1}}},
		}, id, helpers.FuncName())
}

func (r ArticleRepository) star(ctx context.Context, filter bson.D, update bson.D, id primitive.ObjectID, info string) (bool, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, helpers.WrapError(err, info)
	}
	if res.MatchedCount > 0 {
		return true, nil
	}

	// guard did not match: either the state is already reached or the article is gone
	n, err := r.Collection.CountDocuments(ctx, byID(id))
	if err != nil {
		return false, helpers.WrapError(err, info)
	}
	if n == 0 {
		return false, notFound(lookups.EntityArticle, id)
	}
	return false, nil
}

func touch(at time.Time) bson.E {
	return bson.E{Key: "updatedAt", Value: at}
}
