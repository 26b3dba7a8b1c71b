package environment

import (
	"time"

	"bloggy-api/analytics"
	"bloggy-api/authentication"
	"bloggy-api/client"
	"bloggy-api/database"
	"bloggy-api/repository"
	"bloggy-api/services"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// size of the process-local taxonomy cache
const cacheSize = 256

// visits of the same client count once per window
const (
	requestTTL   = 30 * time.Minute
	requestLimit = 10000
)

// Connections are opened (and closed) by main
type Connections struct {
	Mongo  *mongo.Client
	Tokens *redis.Client // JWT_DB
	Cache  *redis.Client // CACHE_DB, optional
	Visits database.InfluxAPI
}

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Config *Config

	Tokens   *authentication.Manager
	Tracker  *analytics.Tracker
	Requests *client.Registry

	Auth     services.AuthService
	Users    services.UserService
	Articles services.ArticleService
	Comments services.CommentService
	Stars    services.StarService
	Products services.ProductService
	Shop     services.ShopService
	Orders   services.OrderService
	Books    services.BookService
	Taxonomy services.TaxonomyService
}

// New wires repositories into the services (do not confuse with package init)
func New(cfg *Config, conn Connections) (*Environment, error) {
	db := conn.Mongo.Database(cfg.DBName)

	users := repository.UserRepository{Collection: db.Collection(database.Users)}
	articles := repository.ArticleRepository{Collection: db.Collection(database.Articles)}
	comments := repository.CommentRepository{Collection: db.Collection(database.Comments)}
	products := repository.ProductRepository{Collection: db.Collection(database.Products)}
	orders := repository.OrderRepository{Collection: db.Collection(database.Orders)}
	books := repository.BookRepository{Collection: db.Collection(database.Books)}
	lookups := repository.LookupRepository{DB: db}
	ids := database.Lookup{DB: db}

	var tx database.Transactor = database.NoTransaction{}
	if cfg.DBTransactions {
		tx = database.MongoTransactor{Client: conn.Mongo}
	}

	cache, err := database.NewCache(cacheSize, conn.Cache, cfg.DBName+":")
	if err != nil {
		return nil, err
	}

	env := &Environment{Config: cfg}

	env.Tokens = &authentication.Manager{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		Registry:      authentication.RedisRegistry{Client: conn.Tokens},
		Credentials:   users.Credentials,
	}
	env.Tokens.Cookie.Name = cfg.CookieName
	env.Tokens.Cookie.HashKey = []byte(cfg.CookieHashKey)
	env.Tokens.Cookie.Secure = !cfg.IsDev()

	// always create the tracker so no further checking is needed in the controllers
	env.Requests = client.NewRegistry(requestTTL, requestLimit)
	env.Tracker = analytics.NewTracker(cfg.UseAnalytics, conn.Visits, env.Requests)

	env.Auth = services.AuthService{Users: users}
	env.Users = services.UserService{Users: users}
	env.Articles = services.ArticleService{
		Articles: articles,
		Comments: comments,
		Users:    users,
		Lookups:  lookups,
		IDs:      ids,
		Tx:       tx,
	}
	env.Comments = services.CommentService{Comments: comments, Articles: articles, Tx: tx}
	env.Stars = services.StarService{Articles: articles, Users: users, Tx: tx}
	env.Products = services.ProductService{Products: products, Users: users, Lookups: lookups, IDs: ids}
	env.Shop = services.ShopService{Users: users, Products: products}
	env.Orders = services.OrderService{Orders: orders, Products: products, Users: users, Lookups: lookups, Tx: tx}
	env.Books = services.BookService{Books: books}
	env.Taxonomy = services.TaxonomyService{Lookups: lookups, Cache: cache}

	return env, nil
}
