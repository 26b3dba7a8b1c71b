package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is embedded into the product, one per user
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"` // user name at the time of the review
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Product is the stored document
type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Images      []string           `json:"images" bson:"images"`
	Category    primitive.ObjectID `json:"category" bson:"category"`
	Brand       primitive.ObjectID `json:"brand" bson:"brand"`
	Description string             `json:"description" bson:"description"`
	Reviews     []Review           `json:"reviews" bson:"reviews"`
	Rating      float64            `json:"rating" bson:"rating"`
	NumReviews  int                `json:"numReviews" bson:"numReviews"`
	IsFeatured  bool               `json:"isFeatured" bson:"isFeatured"`
	Price       float64            `json:"price" bson:"price"`
	StockCount  int                `json:"stockCount" bson:"stockCount"`
	User        primitive.ObjectID `json:"user" bson:"user"` // creator
	Timestamps  `bson:",inline"`
}

// ProductView is a product with category & brand populated
type ProductView struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Slug        string             `json:"slug" bson:"slug"`
	Images      []string           `json:"images" bson:"images"`
	Category    *Lookup            `json:"category" bson:"category"`
	Brand       *Lookup            `json:"brand" bson:"brand"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Reviews     []Review           `json:"reviews,omitempty" bson:"reviews,omitempty"`
	Rating      float64            `json:"rating" bson:"rating"`
	NumReviews  int                `json:"numReviews" bson:"numReviews"`
	IsFeatured  bool               `json:"isFeatured" bson:"isFeatured"`
	Price       float64            `json:"price" bson:"price"`
	StockCount  int                `json:"stockCount" bson:"stockCount"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Timestamps  `bson:",inline"`
}

// PriceRange of all products matching a list filter
type PriceRange struct {
	Min float64 `json:"min" bson:"min"`
	Max float64 `json:"max" bson:"max"`
}

// ProductRequest creates a product; on update, nil fields are left unchanged
type ProductRequest struct {
	Name        string   `json:"name"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	IsFeatured  *bool    `json:"isFeatured"`
	Price       *float64 `json:"price"`
	StockCount  *int     `json:"stockCount"`
}

// Validate for new products
func (r *ProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Images, validation.Each(is.URL)),
		validation.Field(&r.Category, validation.Required, is.MongoID),
		validation.Field(&r.Brand, validation.Required, is.MongoID),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.Price, validation.NotNil, validation.Min(0.0)),
		validation.Field(&r.StockCount, validation.NotNil, validation.Min(0)),
	)
}

// ValidateUpdate allows partial requests
func (r *ProductRequest) ValidateUpdate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(2, 120)),
		validation.Field(&r.Images, validation.Each(is.URL)),
		validation.Field(&r.Category, is.MongoID),
		validation.Field(&r.Brand, is.MongoID),
		validation.Field(&r.Price, validation.Min(0.0)),
		validation.Field(&r.StockCount, validation.Min(0)),
	)
}

// ReviewRequest
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (r *ReviewRequest) Validate() error {
	r.Comment = strings.TrimSpace(r.Comment)
	return validation.ValidateStruct(r,
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Comment, validation.Required, validation.RuneLength(1, 1000)),
	)
}

// CartItem is stored on the user
type CartItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

// CartProduct is the product part of an expanded cart line
type CartProduct struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Slug       string             `json:"slug" bson:"slug"`
	Images     []string           `json:"images" bson:"images"`
	Price      float64            `json:"price" bson:"price"`
	StockCount int                `json:"stockCount" bson:"stockCount"`
}

// CartLine is one expanded cart item
type CartLine struct {
	Product   CartProduct `json:"product"`
	Quantity  int         `json:"quantity"`
	LineTotal float64     `json:"lineTotal"`
}

// Cart is the expanded cart of a user
type Cart struct {
	Items    []CartLine `json:"items"`
	Count    int        `json:"count"`
	Subtotal float64    `json:"subtotal"`
}

// CartItemRequest adds a product to the cart
type CartItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func (r *CartItemRequest) Validate() error {
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Product, validation.Required, is.MongoID),
		validation.Field(&r.Quantity, validation.Min(1)),
	)
}

// QuantityRequest sets the quantity of a cart line (0 removes it)
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

func (r *QuantityRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Quantity, validation.NotNil, validation.Min(0)),
	)
}
