package repository

import (
	"context"
	"time"

	"bloggy-api/commenttree"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"
	"bloggy-api/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository
type CommentRepository struct {
	Collection *mongo.Collection
}

func (r CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel() // nach 10 Sekunden abbrechen

	if _, err := r.Collection.InsertOne(ctx, c); err != nil {
		return writeErr(err, helpers.FuncName())
	}
	return nil
}

func (r CommentRepository) Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var c models.Comment
	if err := findOne(ctx, r.Collection, byID(id), &c, nil); err != nil {
		return nil, readErr(err, lookups.EntityComment, id.Hex(), helpers.FuncName())
	}
	return &c, nil
}

func (r CommentRepository) UpdateText(ctx context.Context, id primitive.ObjectID, text string, at time.Time) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(id), bson.D{{Key: "$set", Value: bson.D{
		{Key: "text", Value: text},
		touch(at),
	}}})
	return matched(res, err, lookups.EntityComment, id, helpers.FuncName())
}

// Thread reads the shape of all comments of an article (ids and parents only)
func (r CommentRepository) Thread(ctx context.Context, articleID primitive.ObjectID) ([]commenttree.Node, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	opts := options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}, {Key: "parent", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.D{{Key: "article", Value: articleID}}, opts)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	var rows []struct {
		ID     primitive.ObjectID  `bson:"_id"`
		Parent *primitive.ObjectID `bson:"parent"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	nodes := make([]commenttree.Node, 0, len(rows))
	for _, row := range rows {
		nodes = append(nodes, commenttree.Node{ID: row.ID, Parent: row.Parent})
	}
	return nodes, nil
}

func (r CommentRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteMany(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}
	return res.DeletedCount, nil
}

func (r CommentRepository) DeleteByArticle(ctx context.Context, articleID primitive.ObjectID) (int64, error) {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.DeleteMany(ctx, bson.D{{Key: "article", Value: articleID}})
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}
	return res.DeletedCount, nil
}

func (r CommentRepository) PushReply(ctx context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	res, err := r.Collection.UpdateOne(ctx, byID(parentID), bson.D{{Key: "$push", Value: bson.D{{Key: "replies", Value: replyID}}}})
	return matched(res, err, lookups.EntityComment, parentID, helpers.FuncName())
}

// PullReply ignores a parent that is already gone
func (r CommentRepository) PullReply(ctx context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error {
	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	_, err := r.Collection.UpdateOne(ctx, byID(parentID), bson.D{{Key: "$pull", Value: bson.D{{Key: "replies", Value: replyID}}}})
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	return nil
}

func (r CommentRepository) ListTopLevel(ctx context.Context, articleID primitive.ObjectID, q *query.Query) ([]models.CommentView, int64, error) {
	q.And("article", articleID)
	q.And("parent", nil)
	return page[models.CommentView](ctx, r.Collection, q, helpers.FuncName())
}

// ListReplies reads every reply of the article, the service nests them
func (r CommentRepository) ListReplies(ctx context.Context, articleID primitive.ObjectID) ([]models.CommentView, error) {
	p := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "article", Value: articleID},
			{Key: "parent", Value: bson.D{{Key: "$ne", Value: nil}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	for _, e := range services.CommentQuery.Expand {
		p = append(p, e.Stages()...)
	}

	ctx, cancel := database.Timeout(ctx)
	defer cancel()

	cursor, err := r.Collection.Aggregate(ctx, p)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	replies := []models.CommentView{}
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	return replies, nil
}
