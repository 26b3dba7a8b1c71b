package services

import (
	"context"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArticleService
type ArticleService struct {
	Articles ArticleStore
	Comments CommentStore
	Users    UserStore
	Lookups  LookupStore
	IDs      query.IDLookup // author search join
	Tx       database.Transactor
}

// List articles (filter, search by text or author name, sort, page)
func (s ArticleService) List(ctx context.Context, params query.Params) (*Page[models.ArticleView], error) {
	q, err := query.Build(ctx, ArticleQuery, params, s.IDs)
	if err != nil {
		return nil, err
	}

	items, total, err := s.Articles.List(ctx, q)
	if err != nil {
		return nil, err
	}

	return newPage(items, total, q.Page), nil
}

// Get returns the article with author, category and tags populated
func (s ArticleService) Get(ctx context.Context, id string) (*models.ArticleView, error) {
	oid, err := helpers.ParseID(lookups.EntityArticle, id)
	if err != nil {
		return nil, err
	}
	return s.Articles.View(ctx, oid)
}

// Create validates and stores a new article of the signed-in user
func (s ArticleService) Create(ctx context.Context, cred authorization.Credentials, req *models.ArticleRequest) (*models.ArticleView, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	categoryID, tagIDs, err := s.references(ctx, req)
	if err != nil {
		return nil, err
	}

	html, err := helpers.RenderMarkdown(req.Content)
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	a := &models.Article{
		ID:                primitive.NewObjectID(),
		Title:             req.Title,
		Summary:           req.Summary,
		Content:           req.Content,
		ContentHTML:       html,
		CoverImageURL:     req.CoverImageURL,
		ReadTimeInMinutes: helpers.ReadTime(req.Content),
		Author:            cred.UserID,
		Category:          categoryID,
		Tags:              tagIDs,
		Comments:          []primitive.ObjectID{},
		StarredBy:         []primitive.ObjectID{},
	}
	a.Touch(now())

	if err = s.Articles.Create(ctx, a); err != nil {
		return nil, err
	}

	return s.Articles.View(ctx, a.ID)
}

// Update changes the editable fields; author, comments and counters stay
func (s ArticleService) Update(ctx context.Context, cred authorization.Credentials, id string, req *models.ArticleRequest) (*models.ArticleView, error) {
	oid, err := helpers.ParseID(lookups.EntityArticle, id)
	if err != nil {
		return nil, err
	}

	if err = req.ValidateUpdate(); err != nil {
		return nil, apperror.Validationf(err)
	}

	a, err := s.Articles.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if err = cred.MustModify(a.Author); err != nil {
		return nil, models.ErrNotAuthor
	}

	categoryID, tagIDs, err := s.references(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		a.Title = req.Title
	}
	if req.Summary != "" {
		a.Summary = req.Summary
	}
	if req.CoverImageURL != "" {
		a.CoverImageURL = req.CoverImageURL
	}
	if req.Content != "" && req.Content != a.Content {
		a.Content = req.Content
		a.ContentHTML, err = helpers.RenderMarkdown(req.Content)
		if err != nil {
			return nil, helpers.WrapError(err, helpers.FuncName())
		}
		a.ReadTimeInMinutes = helpers.ReadTime(req.Content)
	}
	if !categoryID.IsZero() {
		a.Category = categoryID
	}
	if req.Tags != nil {
		a.Tags = tagIDs
	}
	a.Touch(now())

	if err = s.Articles.Update(ctx, a); err != nil {
		return nil, err
	}

	return s.Articles.View(ctx, a.ID)
}

// Delete removes the article with all its comments and stars (admins only)
func (s ArticleService) Delete(ctx context.Context, cred authorization.Credentials, id string) error {
	if err := cred.MustBeAdmin(); err != nil {
		return err
	}

	oid, err := helpers.ParseID(lookups.EntityArticle, id)
	if err != nil {
		return err
	}

	a, err := s.Articles.Get(ctx, oid)
	if err != nil {
		return err
	}

	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Comments.DeleteByArticle(ctx, a.ID); err != nil {
			return err
		}
		if err := s.Users.RemoveStarredEverywhere(ctx, a.ID); err != nil {
			return err
		}
		if a.StarsCount > 0 {
			if err := s.Users.IncTotalStars(ctx, a.Author, -a.StarsCount); err != nil {
				return err
			}
		}
		return s.Articles.Delete(ctx, a.ID)
	})
}

// Starred lists the articles the user has starred
func (s ArticleService) Starred(ctx context.Context, userID primitive.ObjectID) ([]models.ArticleView, error) {
	u, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(u.StarredArticles) == 0 {
		return []models.ArticleView{}, nil
	}

	return s.Articles.ListByIDs(ctx, u.StarredArticles)
}

// references checks that category and tags of the request exist
func (s ArticleService) references(ctx context.Context, req *models.ArticleRequest) (primitive.ObjectID, []primitive.ObjectID, error) {
	var categoryID primitive.ObjectID

	if req.Category != "" {
		categoryID = helpers.ObjectID(req.Category)
		ok, err := s.Lookups.Exists(ctx, lookups.TaxonomyCategories, categoryID)
		if err != nil {
			return categoryID, nil, err
		}
		if !ok {
			return categoryID, nil, apperror.NotFound(lookups.EntityCategory, req.Category)
		}
	}

	tagIDs := req.TagIDs()
	for _, t := range tagIDs {
		ok, err := s.Lookups.Exists(ctx, lookups.TaxonomyTags, t)
		if err != nil {
			return categoryID, nil, err
		}
		if !ok {
			return categoryID, nil, apperror.NotFound(lookups.EntityTag, t.Hex())
		}
	}

	return categoryID, tagIDs, nil
}
