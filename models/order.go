package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is a snapshot of the product at the time of ordering
type OrderItem struct {
	Product  primitive.ObjectID `json:"product" bson:"product"`
	Name     string             `json:"name" bson:"name"`
	Image    string             `json:"image" bson:"image"`
	Price    float64            `json:"price" bson:"price"`
	Quantity int                `json:"quantity" bson:"quantity"`
}

// ShippingAddress
type ShippingAddress struct {
	Address    string `json:"address" bson:"address"`
	City       string `json:"city" bson:"city"`
	PostalCode string `json:"postalCode" bson:"postalCode"`
	Country    string `json:"country" bson:"country"`
}

func (a ShippingAddress) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Address, validation.Required),
		validation.Field(&a.City, validation.Required),
		validation.Field(&a.PostalCode, validation.Required),
		validation.Field(&a.Country, validation.Required),
	)
}

// Order is the stored document
type Order struct {
	ID              primitive.ObjectID  `json:"id" bson:"_id"`
	User            primitive.ObjectID  `json:"user" bson:"user"`
	OrderItems      []OrderItem         `json:"orderItems" bson:"orderItems"`
	ShippingAddress ShippingAddress     `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod" bson:"paymentMethod"`
	DeliveryMethod  *primitive.ObjectID `json:"deliveryMethod,omitempty" bson:"deliveryMethod,omitempty"`
	ItemsPrice      float64             `json:"itemsPrice" bson:"itemsPrice"`
	TaxPrice        float64             `json:"taxPrice" bson:"taxPrice"`
	ShippingPrice   float64             `json:"shippingPrice" bson:"shippingPrice"`
	TotalPrice      float64             `json:"totalPrice" bson:"totalPrice"`
	IsPaid          bool                `json:"isPaid" bson:"isPaid"`
	PaidAt          *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	IsDelivered     bool                `json:"isDelivered" bson:"isDelivered"`
	DeliveredAt     *time.Time          `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	Timestamps      `bson:",inline"`
}

// OrderItemRequest
type OrderItemRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

func (r OrderItemRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Product, validation.Required, is.MongoID),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
	)
}

// OrderRequest places an order
type OrderRequest struct {
	OrderItems      []OrderItemRequest `json:"orderItems"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	DeliveryMethod  string             `json:"deliveryMethod"`
}

func (r *OrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrderItems, validation.Required.Error(ErrEmptyOrder.Error())),
		validation.Field(&r.ShippingAddress),
		validation.Field(&r.PaymentMethod, validation.Required),
		validation.Field(&r.DeliveryMethod, is.MongoID),
	)
}
