package services

import (
	"context"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookService manages the reading lists; users only see their own books
type BookService struct {
	Books BookStore
}

// List books; non-admins are scoped to the books they created
func (s BookService) List(ctx context.Context, cred authorization.Credentials, params query.Params) (*Page[models.Book], error) {
	if !cred.IsAdmin() {
		delete(params, "createdBy")
	}

	q, err := query.Build(ctx, BookQuery, params, nil)
	if err != nil {
		return nil, err
	}

	if !cred.IsAdmin() {
		q.And("createdBy", cred.UserID)
	}

	items, total, err := s.Books.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return newPage(items, total, q.Page), nil
}

// Get (owner or admin)
func (s BookService) Get(ctx context.Context, cred authorization.Credentials, id string) (*models.Book, error) {
	oid, err := helpers.ParseID(lookups.EntityBook, id)
	if err != nil {
		return nil, err
	}

	b, err := s.Books.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if !cred.CanModify(b.CreatedBy) {
		return nil, apperror.NotFound(lookups.EntityBook, id)
	}
	return b, nil
}

// Create
func (s BookService) Create(ctx context.Context, cred authorization.Credentials, req *models.BookRequest) (*models.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	b := &models.Book{
		ID:         primitive.NewObjectID(),
		Title:      req.Title,
		Author:     req.Author,
		CoverImage: req.CoverImage,
		CreatedBy:  cred.UserID,
	}
	b.Touch(now())

	if err := s.Books.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Update (owner or admin)
func (s BookService) Update(ctx context.Context, cred authorization.Credentials, id string, req *models.BookRequest) (*models.Book, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	b, err := s.Get(ctx, cred, id)
	if err != nil {
		return nil, err
	}

	b.Title = req.Title
	b.Author = req.Author
	b.CoverImage = req.CoverImage
	b.Touch(now())

	if err = s.Books.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Delete (admins only)
func (s BookService) Delete(ctx context.Context, cred authorization.Credentials, id string) error {
	if err := cred.MustBeAdmin(); err != nil {
		return err
	}

	oid, err := helpers.ParseID(lookups.EntityBook, id)
	if err != nil {
		return err
	}

	return s.Books.Delete(ctx, oid)
}
