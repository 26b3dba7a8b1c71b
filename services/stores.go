package services

import (
	"context"
	"time"

	"bloggy-api/commenttree"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The stores are implemented by the repository package (MongoDB).
// Missing documents are reported as apperror NOT_FOUND, duplicates as CONFLICT.

// UserStore
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Credentials(ctx context.Context, id primitive.ObjectID) (*models.Credentials, error)
	Profile(ctx context.Context, id primitive.ObjectID) (*models.UserProfile, error)
	SetAvatar(ctx context.Context, id primitive.ObjectID, url string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string, changedAt time.Time) error

	AddStarred(ctx context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error
	RemoveStarred(ctx context.Context, id primitive.ObjectID, articleID primitive.ObjectID) error
	RemoveStarredEverywhere(ctx context.Context, articleID primitive.ObjectID) error
	IncTotalStars(ctx context.Context, id primitive.ObjectID, delta int64) error

	// guarded $addToSet / $pull; changed is false when nothing was modified
	AddWishlist(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) (changed bool, err error)
	RemoveWishlist(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) (changed bool, err error)

	SetCartItem(ctx context.Context, id primitive.ObjectID, item models.CartItem) error
	RemoveCartItem(ctx context.Context, id primitive.ObjectID, productID primitive.ObjectID) error
	ClearCart(ctx context.Context, id primitive.ObjectID) error
}

// ArticleStore
type ArticleStore interface {
	List(ctx context.Context, q *query.Query) ([]models.ArticleView, int64, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ArticleView, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Article, error)
	View(ctx context.Context, id primitive.ObjectID) (*models.ArticleView, error)
	Create(ctx context.Context, a *models.Article) error
	Update(ctx context.Context, a *models.Article) error // editable fields only
	Delete(ctx context.Context, id primitive.ObjectID) error

	// $push comments + $inc totalCommentCount 1 in one update
	PushComment(ctx context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error
	PullComment(ctx context.Context, id primitive.ObjectID, commentID primitive.ObjectID) error
	IncCommentCount(ctx context.Context, id primitive.ObjectID, delta int64) error

	// guarded by starredBy; changed is false when the state was already reached
	AddStar(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (changed bool, err error)
	RemoveStar(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) (changed bool, err error)
}

// CommentStore
type CommentStore interface {
	Create(ctx context.Context, c *models.Comment) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string, at time.Time) error
	Thread(ctx context.Context, articleID primitive.ObjectID) ([]commenttree.Node, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
	DeleteByArticle(ctx context.Context, articleID primitive.ObjectID) (int64, error)
	PushReply(ctx context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error
	PullReply(ctx context.Context, parentID primitive.ObjectID, replyID primitive.ObjectID) error

	// top-level comments of an article (page of q), authors populated
	ListTopLevel(ctx context.Context, articleID primitive.ObjectID, q *query.Query) ([]models.CommentView, int64, error)
	// all replies of an article, oldest first, authors populated
	ListReplies(ctx context.Context, articleID primitive.ObjectID) ([]models.CommentView, error)
}

// ProductStore
type ProductStore interface {
	List(ctx context.Context, q *query.Query) ([]models.ProductView, int64, error)
	PriceRange(ctx context.Context, q *query.Query) (*models.PriceRange, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.ProductView, error)
	GetBySlug(ctx context.Context, slug string) (*models.ProductView, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// guarded $push (one per user) + rating/numReviews recomputed; changed is false for a second review
	AddReview(ctx context.Context, id primitive.ObjectID, r models.Review) (changed bool, err error)
	// guarded by stockCount >= quantity; changed is false when not enough is left
	TakeStock(ctx context.Context, id primitive.ObjectID, quantity int) (changed bool, err error)
	ReturnStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// OrderStore
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	SetPaid(ctx context.Context, id primitive.ObjectID, at time.Time) error
	SetDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

// BookStore
type BookStore interface {
	List(ctx context.Context, q *query.Query) ([]models.Book, int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// LookupStore serves tags, categories and brands (kind = collection) and delivery methods
type LookupStore interface {
	List(ctx context.Context, kind string) ([]models.Lookup, error)
	Exists(ctx context.Context, kind string, id primitive.ObjectID) (bool, error)
	FindByName(ctx context.Context, kind string, name string) (*models.Lookup, error)
	Create(ctx context.Context, kind string, l *models.Lookup) error
	DeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error)
	DeliveryMethod(ctx context.Context, id primitive.ObjectID) (*models.DeliveryMethod, error)
	Commercials(ctx context.Context) ([]models.Commercial, error)
}
