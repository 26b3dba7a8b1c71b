package services

import (
	"context"
	"testing"

	"bloggy-api/apperror"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateArticle(t *testing.T) {
	f := newFixture()
	ada := f.addUser("ada", lookups.RoleUser)
	cat := f.addLookup(lookups.TaxonomyCategories, "Go")
	tag := f.addLookup(lookups.TaxonomyTags, "concurrency")

	req := &models.ArticleRequest{
		Title:    "Channels in practice",
		Summary:  "How to use channels without leaking goroutines",
		Content:  "# Channels\n\nUse *buffered* channels with care.<script>alert(1)</script>",
		Category: cat.Hex(),
		Tags:     models.TagList{tag.Hex(), tag.Hex()},
	}

	v, err := f.articles().Create(context.Background(), ada, req)
	require.NoError(t, err)
	assert.Equal(t, "ada", v.Author.Name)
	assert.Contains(t, v.ContentHTML, "<em>buffered</em>")
	assert.NotContains(t, v.ContentHTML, "<script>")
	assert.Equal(t, 1, v.ReadTimeInMinutes)

	a := f.db.articles[v.ID]
	assert.Equal(t, []primitive.ObjectID{tag}, a.Tags)
	assert.NotNil(t, a.StarredBy)
	assert.NotNil(t, a.Comments)
}

func TestCreateArticleChecksReferences(t *testing.T) {
	f := newFixture()
	ada := f.addUser("ada", lookups.RoleUser)
	cat := f.addLookup(lookups.TaxonomyCategories, "Go")

	req := &models.ArticleRequest{
		Title:    "Channels in practice",
		Summary:  "How to use channels without leaking goroutines",
		Content:  "text",
		Category: primitive.NewObjectID().Hex(),
	}
	_, err := f.articles().Create(context.Background(), ada, req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	req.Category = cat.Hex()
	req.Tags = models.TagList{primitive.NewObjectID().Hex()}
	_, err = f.articles().Create(context.Background(), ada, req)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	req.Tags = models.TagList{"golang"}
	_, err = f.articles().Create(context.Background(), ada, req)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	assert.Empty(t, f.db.articles)
}

func TestUpdateArticle(t *testing.T) {
	f := newFixture()
	ada := f.addUser("ada", lookups.RoleUser)
	bob := f.addUser("bob", lookups.RoleUser)
	root := admin(f)
	aid := f.addArticle(ada)
	ctx := context.Background()

	_, err := f.articles().Update(ctx, bob, aid.Hex(), &models.ArticleRequest{Title: "Mine now"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	v, err := f.articles().Update(ctx, ada, aid.Hex(), &models.ArticleRequest{Content: "**bold**"})
	require.NoError(t, err)
	assert.Equal(t, "Channels in practice", v.Title)
	assert.Contains(t, v.ContentHTML, "<strong>bold</strong>")

	v, err = f.articles().Update(ctx, root, aid.Hex(), &models.ArticleRequest{Title: "Edited by admin"})
	require.NoError(t, err)
	assert.Equal(t, "Edited by admin", v.Title)
	assert.Equal(t, ada.UserID, f.db.articles[aid].Author)
}

func TestDeleteArticleCascades(t *testing.T) {
	f := newFixture()
	ada := f.addUser("ada", lookups.RoleUser)
	bob := f.addUser("bob", lookups.RoleUser)
	root := admin(f)
	aid := f.addArticle(ada)
	other := f.addArticle(ada)
	ctx := context.Background()

	_, err := f.stars().Toggle(ctx, bob, aid.Hex())
	require.NoError(t, err)
	_, err = f.stars().Toggle(ctx, bob, other.Hex())
	require.NoError(t, err)
	c, err := f.comments().Add(ctx, bob, aid.Hex(), text("nice"))
	require.NoError(t, err)
	_, err = f.comments().Reply(ctx, ada, c.ID.Hex(), text("thanks"))
	require.NoError(t, err)
	_, err = f.comments().Add(ctx, bob, other.Hex(), text("also nice"))
	require.NoError(t, err)

	err = f.articles().Delete(ctx, ada, aid.Hex())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Len(t, f.db.articles, 2)

	require.NoError(t, f.articles().Delete(ctx, root, aid.Hex()))
	assert.Len(t, f.db.articles, 1)
	assert.Len(t, f.db.comments, 1)
	assert.Equal(t, []primitive.ObjectID{other}, f.db.users[bob.UserID].StarredArticles)
	assert.Equal(t, int64(1), f.db.users[ada.UserID].TotalStars)
	f.assertCounters(t)

	err = f.articles().Delete(ctx, root, aid.Hex())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListArticlesBuildsQuery(t *testing.T) {
	f := newFixture()
	ada := f.addUser("ada", lookups.RoleUser)
	f.addArticle(ada)
	f.addArticle(ada)

	page, err := f.articles().List(context.Background(), query.Params{"limit": "5", "sort": "-starsCount", "author": ada.UserID.Hex()})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)
	assert.Len(t, page.Items, 2)

	q := f.db.lastQuery
	assert.Equal(t, int64(5), q.Limit)
	assert.Equal(t, bson.D{{Key: "starsCount", Value: -1}, {Key: "_id", Value: 1}}, q.Sort)
	assert.Equal(t, bson.D{{Key: "author", Value: ada.UserID}}, q.Filter)

	_, err = f.articles().List(context.Background(), query.Params{"starredBy": ada.UserID.Hex()})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}
