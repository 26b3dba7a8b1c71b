package services

import (
	"context"

	"bloggy-api/apperror"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService
type UserService struct {
	Users UserStore
}

// Profile is the public view of a user
func (s UserService) Profile(ctx context.Context, id string) (*models.UserProfile, error) {
	oid, err := helpers.ParseID(lookups.EntityUser, id)
	if err != nil {
		return nil, err
	}
	return s.Users.Profile(ctx, oid)
}

// SetAvatar points the avatar of the user to an image URL
func (s UserService) SetAvatar(ctx context.Context, userID primitive.ObjectID, req *models.AvatarRequest) (*models.UserProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	if err := s.Users.SetAvatar(ctx, userID, req.AvatarURL); err != nil {
		return nil, err
	}

	return s.Users.Profile(ctx, userID)
}

// ChangePassword checks the current password and stores the new hash.
// Tokens issued before the change are rejected from now on
func (s UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, req *models.PasswordRequest) error {
	if err := req.Validate(); err != nil {
		return apperror.Validationf(err)
	}

	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := helpers.CompareHash(u.Password, req.Current)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}
	if !ok {
		return models.ErrInvalidPassword
	}

	hash, err := helpers.GenerateHash(req.Password)
	if err != nil {
		return helpers.WrapError(err, helpers.FuncName())
	}

	return s.Users.SetPassword(ctx, userID, hash, now())
}
