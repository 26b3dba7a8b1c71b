package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup is a named taxonomy entry (tag, category, brand); it is also
// what a populated reference to one of them looks like
type Lookup struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Image string             `json:"image,omitempty" bson:"image,omitempty"`
}

// DeliveryMethod is offered when ordering
type DeliveryMethod struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	ShortName    string             `json:"shortName" bson:"shortName"`
	Description  string             `json:"description" bson:"description"`
	DeliveryTime string             `json:"deliveryTime" bson:"deliveryTime"`
	Price        float64            `json:"price" bson:"price"`
}

// Commercial is a promotion banner shown on the shop pages
type Commercial struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	Image      string             `json:"image" bson:"image"`
	Link       string             `json:"link" bson:"link"`
	Timestamps `bson:",inline"`
}

// LookupRequest creates a tag, category or brand
type LookupRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (r *LookupRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Image, is.URL),
	)
}
