package services

import (
	"context"
	"errors"

	"bloggy-api/apperror"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService registers and signs in users; tokens are handled by the authentication package
type AuthService struct {
	Users UserStore
}

// Register creates a user account with the default role
func (s AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	_, err := s.Users.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, models.ErrEMailAddressTaken
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.GenerateHash(req.Password)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	u := &models.User{
		ID:              primitive.NewObjectID(),
		Name:            req.Name,
		Email:           req.Email,
		Password:        hash,
		Role:            lookups.RoleUser,
		StarredArticles: []primitive.ObjectID{},
		Wishlist:        []primitive.ObjectID{},
		Cart:            []models.CartItem{},
	}
	u.Touch(now())

	if err = s.Users.Create(ctx, u); err != nil {
		// unique index on email (concurrent registration)
		if apperror.KindOf(err) == apperror.ErrConflict {
			return nil, models.ErrEMailAddressTaken
		}
		return nil, err
	}

	return u, nil
}

// Login checks the credentials; unknown email and wrong password look the same
func (s AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	u, err := s.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, models.ErrInvalidLogin
		}
		return nil, err
	}

	ok, err := helpers.CompareHash(u.Password, req.Password)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}
	if !ok {
		return nil, models.ErrInvalidLogin
	}

	return u, nil
}
