package repository

import (
	"context"
	"testing"
	"time"

	"bloggy-api/apperror"
	"bloggy-api/models"
	"bloggy-api/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func updateResponse(matched, modified int32) bson.D {
	return mtest.CreateSuccessResponse(
		bson.E{Key: "n", Value: matched},
		bson.E{Key: "nModified", Value: modified},
	)
}

func emptyQuery() *query.Query {
	return &query.Query{}
}

func TestTakeStockGuard(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("enough left", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(1, 1))

		ok, err := ProductRepository{Collection: mt.Coll}.TakeStock(context.Background(), primitive.NewObjectID(), 2)
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("not enough left", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(0, 0))

		ok, err := ProductRepository{Collection: mt.Coll}.TakeStock(context.Background(), primitive.NewObjectID(), 5)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestReadMissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloggy.users", mtest.FirstBatch))

		_, err := UserRepository{Collection: mt.Coll}.Get(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperror.ErrNotFound)
	})

	mt.Run("article view", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloggy.articles", mtest.FirstBatch))

		_, err := ArticleRepository{Collection: mt.Coll}.View(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperror.ErrNotFound)
	})
}

func TestDuplicateKeyIsConflict(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("email taken", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := UserRepository{Collection: mt.Coll}.Create(context.Background(), &models.User{ID: primitive.NewObjectID()})
		assert.ErrorIs(mt, err, apperror.ErrConflict)
	})
}

func TestStarGuard(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("already starred", func(mt *mtest.T) {
		mt.AddMockResponses(
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "bloggy.articles", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
		)

		changed, err := ArticleRepository{Collection: mt.Coll}.AddStar(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, changed)
	})

	mt.Run("article gone", func(mt *mtest.T) {
		mt.AddMockResponses(
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "bloggy.articles", mtest.FirstBatch),
		)

		_, err := ArticleRepository{Collection: mt.Coll}.RemoveStar(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, apperror.ErrNotFound)
	})
}

func TestUpdateOfMissingOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("set paid", func(mt *mtest.T) {
		mt.AddMockResponses(updateResponse(0, 0))

		err := OrderRepository{Collection: mt.Coll}.SetPaid(context.Background(), primitive.NewObjectID(), time.Now())
		assert.ErrorIs(mt, err, apperror.ErrNotFound)
	})
}

func TestPriceRangeWithoutProducts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloggy.products", mtest.FirstBatch))

		pr, err := ProductRepository{Collection: mt.Coll}.PriceRange(context.Background(), emptyQuery())
		require.NoError(mt, err)
		assert.Equal(mt, models.PriceRange{}, *pr)
	})
}

func TestCommercials(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("list", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "bloggy.commercials", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Sale"},
			{Key: "image", Value: "https://img.example.com/sale.png"},
			{Key: "link", Value: "/products"},
		}))

		ads, err := LookupRepository{DB: mt.DB}.Commercials(context.Background())
		require.NoError(mt, err)
		require.Len(mt, ads, 1)
		assert.Equal(mt, id, ads[0].ID)
		assert.Equal(mt, "/products", ads[0].Link)
	})
}
