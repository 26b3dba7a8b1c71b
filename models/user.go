package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the account document; the password hash never leaves the API
type User struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id"`
	Name              string               `json:"name" bson:"name"`
	Email             string               `json:"email" bson:"email"`
	Password          string               `json:"-" bson:"password"` // hash value
	Role              string               `json:"role" bson:"role"`
	AvatarURL         string               `json:"avatarUrl" bson:"avatarUrl"`
	TotalStars        int64                `json:"totalStars" bson:"totalStars"`
	StarredArticles   []primitive.ObjectID `json:"starredArticles" bson:"starredArticles"`
	Wishlist          []primitive.ObjectID `json:"wishlist" bson:"wishlist"`
	Cart              []CartItem           `json:"cart" bson:"cart"`
	PasswordChangedAt *time.Time           `json:"-" bson:"passwordChangedAt,omitempty"`
	Timestamps        `bson:",inline"`
}

// UserRef is what a populated author/user reference looks like
type UserRef struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Name      string             `json:"name" bson:"name"`
	AvatarURL string             `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
}

// UserProfile is the public view of an account
type UserProfile struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	Name       string             `json:"name" bson:"name"`
	AvatarURL  string             `json:"avatarUrl" bson:"avatarUrl"`
	TotalStars int64              `json:"totalStars" bson:"totalStars"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// Credentials is the projection used by the token middleware
type Credentials struct {
	ID                primitive.ObjectID `bson:"_id"`
	Role              string             `bson:"role"`
	PasswordChangedAt *time.Time         `bson:"passwordChangedAt,omitempty"`
}

// RegisterRequest creates an account
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 50)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.PasswordConfirm,
			validation.Required,
			validation.In(r.Password).Error("passwords do not match"),
		),
	)
}

// LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))

	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// PasswordRequest changes the password of the signed-in user
type PasswordRequest struct {
	Current         string `json:"currentPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (r *PasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Current, validation.Required),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.PasswordConfirm,
			validation.Required,
			validation.In(r.Password).Error("passwords do not match"),
		),
	)
}

// AvatarRequest points the avatar to an already hosted image
type AvatarRequest struct {
	AvatarURL string `json:"avatarUrl"`
}

func (r *AvatarRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AvatarURL, validation.Required, is.URL),
	)
}
