package services

import (
	"testing"

	"bloggy-api/authorization"
	"bloggy-api/database"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fixture struct {
	db      *memDB
	lookups *memLookups
}

func newFixture() *fixture {
	db := newMemDB()
	return &fixture{db: db, lookups: &memLookups{db: db}}
}

func (f *fixture) articles() ArticleService {
	return ArticleService{
		Articles: memArticles{f.db},
		Comments: memComments{f.db},
		Users:    memUsers{f.db},
		Lookups:  f.lookups,
		Tx:       database.NoTransaction{},
	}
}

func (f *fixture) comments() CommentService {
	return CommentService{Comments: memComments{f.db}, Articles: memArticles{f.db}, Tx: database.NoTransaction{}}
}

func (f *fixture) stars() StarService {
	return StarService{Articles: memArticles{f.db}, Users: memUsers{f.db}, Tx: database.NoTransaction{}}
}

func (f *fixture) shop() ShopService {
	return ShopService{Users: memUsers{f.db}, Products: memProducts{f.db}}
}

func (f *fixture) products() ProductService {
	return ProductService{Products: memProducts{f.db}, Users: memUsers{f.db}, Lookups: f.lookups}
}

func (f *fixture) orders() OrderService {
	return OrderService{
		Orders:   memOrders{f.db},
		Products: memProducts{f.db},
		Users:    memUsers{f.db},
		Lookups:  f.lookups,
		Tx:       database.NoTransaction{},
	}
}

func (f *fixture) addUser(name string, role string) authorization.Credentials {
	u := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		Email:           name + "@example.com",
		Role:            role,
		StarredArticles: []primitive.ObjectID{},
		Wishlist:        []primitive.ObjectID{},
		Cart:            []models.CartItem{},
	}
	f.db.users[u.ID] = u
	return authorization.Credentials{UserID: u.ID, Role: role}
}

func (f *fixture) addArticle(author authorization.Credentials) primitive.ObjectID {
	a := &models.Article{
		ID:        primitive.NewObjectID(),
		Title:     "Channels in practice",
		Author:    author.UserID,
		Tags:      []primitive.ObjectID{},
		Comments:  []primitive.ObjectID{},
		StarredBy: []primitive.ObjectID{},
	}
	f.db.articles[a.ID] = a
	return a.ID
}

func (f *fixture) addLookup(kind string, name string) primitive.ObjectID {
	l := models.Lookup{ID: primitive.NewObjectID(), Name: name}
	f.db.lookups[kind] = append(f.db.lookups[kind], l)
	return l.ID
}

func (f *fixture) addProduct(name string, price float64, stock int) primitive.ObjectID {
	p := &models.Product{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Slug:       name,
		Images:     []string{"https://img.example.com/" + name + ".png"},
		Reviews:    []models.Review{},
		Price:      price,
		StockCount: stock,
	}
	f.db.products[p.ID] = p
	return p.ID
}

// assertCounters checks the denormalised counters against the documents
func (f *fixture) assertCounters(t *testing.T) {
	t.Helper()

	totals := map[primitive.ObjectID]int64{}
	for _, a := range f.db.articles {
		assert.Equal(t, int64(len(a.StarredBy)), a.StarsCount, "starsCount of %s", a.ID.Hex())
		totals[a.Author] += a.StarsCount

		var n int64
		for _, c := range f.db.comments {
			if c.Article == a.ID {
				n++
			}
		}
		assert.Equal(t, n, a.TotalCommentCount, "totalCommentCount of %s", a.ID.Hex())
	}

	for _, u := range f.db.users {
		assert.Equal(t, totals[u.ID], u.TotalStars, "totalStars of %s", u.Name)
		for _, aid := range u.StarredArticles {
			a, ok := f.db.articles[aid]
			if assert.True(t, ok, "starred article exists") {
				assert.Contains(t, a.StarredBy, u.ID)
			}
		}
	}
}

func admin(f *fixture) authorization.Credentials {
	return f.addUser("root", lookups.RoleAdmin)
}
