package controllers

import (
	"bloggy-api/analytics"
	"bloggy-api/authentication"
	"bloggy-api/authorization"
	"bloggy-api/client"
	"bloggy-api/environment"
	"bloggy-api/query"
	"bloggy-api/services"

	"github.com/gin-gonic/gin"
)

// Created is the standard response for new items
type Created struct {
	ID string `json:"id"`
}

// Handler serves the routes; the services are injected by the environment
type Handler struct {
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

	Tokens   *authentication.Manager
	Tracker  *analytics.Tracker
	Requests *client.Registry
}

// NewHandler takes the services of the environment
func NewHandler(env *environment.Environment) *Handler {
	return &Handler{
		Auth:     env.Auth,
		Users:    env.Users,
		Articles: env.Articles,
		Comments: env.Comments,
		Stars:    env.Stars,
		Products: env.Products,
		Shop:     env.Shop,
		Orders:   env.Orders,
		Books:    env.Books,
		Taxonomy: env.Taxonomy,
		Tokens:   env.Tokens,
		Tracker:  env.Tracker,
		Requests: env.Requests,
	}
}

// bind decodes the body; use "shouldBind" so we can send customized messages
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond(c, ErrInvalidRequest)
		return false
	}
	return true
}

// credentials of the signed-in user; the token middleware runs before
func credentials(c *gin.Context) authorization.Credentials {
	cred, _ := authorization.GetCredentials(c)
	return cred
}

func params(c *gin.Context) query.Params {
	return query.ParamsFromValues(c.Request.URL.Query())
}
