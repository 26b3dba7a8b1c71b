package services

import (
	"context"
	"errors"
	"time"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/database"
	"bloggy-api/lookups"
	"bloggy-api/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaxonomyTTL is how long taxonomy lists are cached
const TaxonomyTTL = 10 * time.Minute

// TaxonomyService serves tags, categories, brands and delivery methods
type TaxonomyService struct {
	Lookups LookupStore
	Cache   *database.Cache // optional
}

func validKind(kind string) bool {
	switch kind {
	case lookups.TaxonomyTags, lookups.TaxonomyCategories, lookups.TaxonomyBrands:
		return true
	}
	return false
}

// List returns all entries of a kind (sorted by name), cached
func (s TaxonomyService) List(ctx context.Context, kind string) ([]models.Lookup, error) {
	if !validKind(kind) {
		return nil, apperror.Validation("unknown taxonomy " + kind)
	}

	var res []models.Lookup
	if s.Cache != nil {
		found, err := s.Cache.Get(ctx, kind, &res)
		if err == nil && found {
			return res, nil
		}
	}

	res, err := s.Lookups.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []models.Lookup{}
	}

	if s.Cache != nil {
		// a failing cache only costs performance
		_ = s.Cache.Set(ctx, kind, res, TaxonomyTTL)
	}
	return res, nil
}

// DeliveryMethods, cached
func (s TaxonomyService) DeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error) {
	var res []models.DeliveryMethod
	if s.Cache != nil {
		found, err := s.Cache.Get(ctx, lookups.TaxonomyDelivery, &res)
		if err == nil && found {
			return res, nil
		}
	}

	res, err := s.Lookups.DeliveryMethods(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []models.DeliveryMethod{}
	}

	if s.Cache != nil {
		_ = s.Cache.Set(ctx, lookups.TaxonomyDelivery, res, TaxonomyTTL)
	}
	return res, nil
}

// Commercials shown on the shop pages, cached
func (s TaxonomyService) Commercials(ctx context.Context) ([]models.Commercial, error) {
	var res []models.Commercial
	if s.Cache != nil {
		found, err := s.Cache.Get(ctx, lookups.TaxonomyCommercial, &res)
		if err == nil && found {
			return res, nil
		}
	}

	res, err := s.Lookups.Commercials(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = []models.Commercial{}
	}

	if s.Cache != nil {
		_ = s.Cache.Set(ctx, lookups.TaxonomyCommercial, res, TaxonomyTTL)
	}
	return res, nil
}

// Create adds an entry; every user may create tags, categories and brands are for admins.
// Names are unique regardless of case
func (s TaxonomyService) Create(ctx context.Context, cred authorization.Credentials, kind string, req *models.LookupRequest) (*models.Lookup, error) {
	if !validKind(kind) {
		return nil, apperror.Validation("unknown taxonomy " + kind)
	}

	if kind != lookups.TaxonomyTags {
		if err := cred.MustBeAdmin(); err != nil {
			return nil, err
		}
	}

	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	_, err := s.Lookups.FindByName(ctx, kind, req.Name)
	if err == nil {
		return nil, models.ErrLookupNameTaken
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	l := &models.Lookup{
		ID:   primitive.NewObjectID(),
		Name: req.Name,
	}
	if kind == lookups.TaxonomyBrands {
		l.Image = req.Image
	}

	if err = s.Lookups.Create(ctx, kind, l); err != nil {
		if apperror.KindOf(err) == apperror.ErrConflict {
			return nil, models.ErrLookupNameTaken
		}
		return nil, err
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(ctx, kind)
	}
	return l, nil
}
