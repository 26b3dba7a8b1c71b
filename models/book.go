package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a reading list entry owned by the user who created it
type Book struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Title      string             `json:"title" bson:"title"`
	Author     string             `json:"author" bson:"author"` // free text, not a user
	CoverImage string             `json:"coverImage" bson:"coverImage"`
	CreatedBy  primitive.ObjectID `json:"createdBy" bson:"createdBy"`
	Timestamps `bson:",inline"`
}

// BookRequest creates or updates a book
type BookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"coverImage"`
}

func (r *BookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.CoverImage, is.URL),
	)
}
