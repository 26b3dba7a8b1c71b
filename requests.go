package main

import (
	"bloggy-api/authorization"
	"bloggy-api/controllers"
	"bloggy-api/lookups"
	"bloggy-api/middleware"

	"github.com/gin-gonic/gin"
)

func handleRequests(router *gin.Engine, h *controllers.Handler, corsOrigin string) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORSMiddleware(corsOrigin))
	router.Use(controllers.ErrorHandler())

	auth := h.Tokens.TokenAuthMiddleware()
	optional := h.Tokens.OptionalAuthMiddleware()
	admin := authorization.RequireRole(lookups.RoleAdmin)

	api := router.Group("/api/v1")

	api.GET("/health", h.Health)

	// auth-related
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.Refresh) // nicht prüfen, ob das at noch valide ist (keine Middleware)
	api.POST("/auth/logout", h.Logout)   // always ok, so the client can clear its session

	// user-mgmt; "me" is the signed-in user
	api.GET("/users/:id", h.GetUser)
	me := api.Group("/users/me", auth)
	me.PATCH("/avatar", h.SetAvatar)
	me.POST("/password", h.ChangePassword)
	me.GET("/starred", h.GetStarred)
	me.GET("/wishlist", h.GetWishlist)
	me.POST("/wishlist/:productId", h.ToggleWishlist)
	me.GET("/cart", h.GetCart)
	me.POST("/cart", h.AddToCart)
	me.PATCH("/cart/:productId", h.SetCartQuantity)
	me.DELETE("/cart/:productId", h.RemoveFromCart)
	me.DELETE("/cart", h.ClearCart)

	// blog
	api.GET("/articles", h.ListArticles)
	api.GET("/articles/:id", optional, h.GetArticle)
	api.POST("/articles", auth, h.AddArticle)
	api.PATCH("/articles/:id", auth, h.UpdateArticle)
	api.DELETE("/articles/:id", auth, admin, h.DeleteArticle)
	api.GET("/articles/:id/visits", h.GetArticleVisits) // visits since last 7 days "hot"
	api.POST("/articles/:id/star", auth, h.StarArticle)
	api.GET("/articles/:id/comments", h.ListComments)
	api.POST("/articles/:id/comments", auth, h.AddComment)

	api.POST("/comments/:id/replies", auth, h.ReplyComment)
	api.PATCH("/comments/:id", auth, h.EditComment)
	api.DELETE("/comments/:id", auth, h.DeleteComment)

	// shop; :key is the slug on GET and the id otherwise
	api.GET("/products", h.ListProducts)
	api.GET("/products/:key", h.GetProduct)
	api.POST("/products", auth, admin, h.AddProduct)
	api.PATCH("/products/:key", auth, h.UpdateProduct)
	api.DELETE("/products/:key", auth, h.DeleteProduct)
	api.POST("/products/:key/reviews", auth, h.ReviewProduct)

	api.POST("/orders", auth, h.AddOrder)
	api.GET("/orders/mine", auth, h.ListMyOrders)
	api.GET("/orders/:id", auth, h.GetOrder)
	api.PATCH("/orders/:id/pay", auth, h.PayOrder)
	api.PATCH("/orders/:id/deliver", auth, admin, h.DeliverOrder)

	// reading list
	books := api.Group("/books", auth)
	books.GET("", h.ListBooks)
	books.GET("/:id", h.GetBook)
	books.POST("", h.AddBook)
	books.PATCH("/:id", h.UpdateBook)
	books.DELETE("/:id", admin, h.DeleteBook)

	// taxonomy
	api.GET("/tags", h.ListLookups(lookups.TaxonomyTags))
	api.POST("/tags", auth, h.AddLookup(lookups.TaxonomyTags))
	api.GET("/categories", h.ListLookups(lookups.TaxonomyCategories))
	api.POST("/categories", auth, admin, h.AddLookup(lookups.TaxonomyCategories))
	api.GET("/brands", h.ListLookups(lookups.TaxonomyBrands))
	api.POST("/brands", auth, admin, h.AddLookup(lookups.TaxonomyBrands))
	api.GET("/delivery-methods", h.ListDeliveryMethods)
	api.GET("/commercials", h.ListCommercials)

	// system tools
	monitor := api.Group("/monitor/requests", auth, admin)
	monitor.GET("/count", h.CountRequests)
	monitor.GET("/dump", h.DumpRequests)
	monitor.POST("/flush", h.FlushRequests)
}
