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

// ProductPage is a product list plus the price range of all matching products
type ProductPage struct {
	Page[models.ProductView]
	PriceRange models.PriceRange `json:"priceRange"`
}

// ProductService
type ProductService struct {
	Products ProductStore
	Users    UserStore
	Lookups  LookupStore
	IDs      query.IDLookup // brand search join
}

// List products; the price range is computed over the same filter (all pages)
func (s ProductService) List(ctx context.Context, params query.Params) (*ProductPage, error) {
	q, err := query.Build(ctx, ProductQuery, params, s.IDs)
	if err != nil {
		return nil, err
	}

	items, total, err := s.Products.List(ctx, q)
	if err != nil {
		return nil, err
	}

	pr, err := s.Products.PriceRange(ctx, q)
	if err != nil {
		return nil, err
	}

	res := &ProductPage{Page: *newPage(items, total, q.Page)}
	if pr != nil {
		res.PriceRange = *pr
	}
	return res, nil
}

// GetBySlug returns the product with its reviews
func (s ProductService) GetBySlug(ctx context.Context, slug string) (*models.ProductView, error) {
	return s.Products.GetBySlug(ctx, slug)
}

// Create stores a new product (admins only)
func (s ProductService) Create(ctx context.Context, cred authorization.Credentials, req *models.ProductRequest) (*models.Product, error) {
	if err := cred.MustBeAdmin(); err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	p := &models.Product{
		ID:          primitive.NewObjectID(),
		Name:        req.Name,
		Slug:        helpers.Slugify(req.Name),
		Images:      req.Images,
		Category:    helpers.ObjectID(req.Category),
		Brand:       helpers.ObjectID(req.Brand),
		Description: req.Description,
		Reviews:     []models.Review{},
		Price:       *req.Price,
		StockCount:  *req.StockCount,
		User:        cred.UserID,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if p.Slug == "" {
		return nil, apperror.Validation("name: must contain letters or digits")
	}
	p.Touch(now())

	if err := s.references(ctx, p.Category, p.Brand); err != nil {
		return nil, err
	}

	if err := s.Products.Create(ctx, p); err != nil {
		if apperror.KindOf(err) == apperror.ErrConflict {
			return nil, models.ErrSlugTaken
		}
		return nil, err
	}

	return p, nil
}

// Update changes the sent fields (creator or admin); a new name changes the slug
func (s ProductService) Update(ctx context.Context, cred authorization.Credentials, id string, req *models.ProductRequest) (*models.Product, error) {
	oid, err := helpers.ParseID(lookups.EntityProduct, id)
	if err != nil {
		return nil, err
	}

	if err = req.ValidateUpdate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	p, err := s.Products.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if err = cred.MustModify(p.User); err != nil {
		return nil, err
	}

	if req.Name != "" && req.Name != p.Name {
		p.Name = req.Name
		p.Slug = helpers.Slugify(req.Name)
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Category != "" {
		p.Category = helpers.ObjectID(req.Category)
	}
	if req.Brand != "" {
		p.Brand = helpers.ObjectID(req.Brand)
	}
	if req.Description != "" {
		p.Description = req.Description
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.StockCount != nil {
		p.StockCount = *req.StockCount
	}
	p.Touch(now())

	if err = s.references(ctx, p.Category, p.Brand); err != nil {
		return nil, err
	}

	if err = s.Products.Update(ctx, p); err != nil {
		if apperror.KindOf(err) == apperror.ErrConflict {
			return nil, models.ErrSlugTaken
		}
		return nil, err
	}

	return p, nil
}

// Delete (creator or admin)
func (s ProductService) Delete(ctx context.Context, cred authorization.Credentials, id string) error {
	oid, err := helpers.ParseID(lookups.EntityProduct, id)
	if err != nil {
		return err
	}

	p, err := s.Products.Get(ctx, oid)
	if err != nil {
		return err
	}

	if err = cred.MustModify(p.User); err != nil {
		return err
	}

	return s.Products.Delete(ctx, oid)
}

// Review adds the review of the signed-in user, one per user and product
func (s ProductService) Review(ctx context.Context, cred authorization.Credentials, id string, req *models.ReviewRequest) (*models.Product, error) {
	oid, err := helpers.ParseID(lookups.EntityProduct, id)
	if err != nil {
		return nil, err
	}

	if err = req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	p, err := s.Products.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	for _, r := range p.Reviews {
		if r.User == cred.UserID {
			return nil, models.ErrReviewExists
		}
	}

	u, err := s.Users.Get(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}

	r := models.Review{
		ID:        primitive.NewObjectID(),
		Name:      u.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
		User:      cred.UserID,
		CreatedAt: now(),
	}

	changed, err := s.Products.AddReview(ctx, oid, r)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, models.ErrReviewExists
	}

	return s.Products.Get(ctx, oid)
}

func (s ProductService) references(ctx context.Context, category primitive.ObjectID, brand primitive.ObjectID) error {
	ok, err := s.Lookups.Exists(ctx, lookups.TaxonomyCategories, category)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound(lookups.EntityCategory, category.Hex())
	}

	ok, err = s.Lookups.Exists(ctx, lookups.TaxonomyBrands, brand)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound(lookups.EntityBrand, brand.Hex())
	}
	return nil
}
