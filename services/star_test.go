package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/lookups"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarToggleTwice(t *testing.T) {
	f := newFixture()
	author := f.addUser("ada", lookups.RoleUser)
	reader := f.addUser("bob", lookups.RoleUser)
	aid := f.addArticle(author)
	ctx := context.Background()

	res, err := f.stars().Toggle(ctx, reader, aid.Hex())
	require.NoError(t, err)
	assert.True(t, res.Starred)
	assert.Equal(t, int64(1), res.NewCount)
	assert.Equal(t, int64(1), f.db.users[author.UserID].TotalStars)
	assert.Contains(t, f.db.users[reader.UserID].StarredArticles, aid)
	f.assertCounters(t)

	res, err = f.stars().Toggle(ctx, reader, aid.Hex())
	require.NoError(t, err)
	assert.False(t, res.Starred)
	assert.Equal(t, int64(0), res.NewCount)
	assert.Equal(t, int64(0), f.db.users[author.UserID].TotalStars)
	assert.Empty(t, f.db.users[reader.UserID].StarredArticles)
	f.assertCounters(t)
}

func TestSelfStarRejected(t *testing.T) {
	f := newFixture()
	author := f.addUser("ada", lookups.RoleUser)
	aid := f.addArticle(author)

	_, err := f.stars().Toggle(context.Background(), author, aid.Hex())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, int64(0), f.db.articles[aid].StarsCount)
	assert.Empty(t, f.db.articles[aid].StarredBy)
}

func TestStarMissingArticle(t *testing.T) {
	f := newFixture()
	reader := f.addUser("bob", lookups.RoleUser)

	_, err := f.stars().Toggle(context.Background(), reader, "64b7f0c2a1e4f3b2c1d0e9f8")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.stars().Toggle(context.Background(), reader, "not-an-id")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestConcurrentStars(t *testing.T) {
	f := newFixture()
	author := f.addUser("ada", lookups.RoleUser)
	aid := f.addArticle(author)

	readers := make([]authorization.Credentials, 20)
	for i := range readers {
		readers[i] = f.addUser(fmt.Sprintf("reader%d", i), lookups.RoleUser)
	}

	var wg sync.WaitGroup
	for _, r := range readers {
		wg.Add(1)
		go func(cred authorization.Credentials) {
			defer wg.Done()
			_, err := f.stars().Toggle(context.Background(), cred, aid.Hex())
			assert.NoError(t, err)
		}(r)
	}
	wg.Wait()

	assert.Equal(t, int64(len(readers)), f.db.articles[aid].StarsCount)
	f.assertCounters(t)
}

func TestStarredArticles(t *testing.T) {
	f := newFixture()
	author := f.addUser("ada", lookups.RoleUser)
	reader := f.addUser("bob", lookups.RoleUser)
	a1 := f.addArticle(author)
	f.addArticle(author)
	ctx := context.Background()

	_, err := f.stars().Toggle(ctx, reader, a1.Hex())
	require.NoError(t, err)

	list, err := f.articles().Starred(ctx, reader.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a1, list[0].ID)

	list, err = f.articles().Starred(ctx, author.UserID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
