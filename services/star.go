package services

import (
	"context"

	"bloggy-api/authorization"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
)

// StarService toggles the star of a user on an article.
// starsCount, starredBy, the author's totalStars and the user's
// starredArticles change together
type StarService struct {
	Articles ArticleStore
	Users    UserStore
	Tx       database.Transactor
}

// Toggle stars or unstars the article for the signed-in user
func (s StarService) Toggle(ctx context.Context, cred authorization.Credentials, articleID string) (*models.StarResult, error) {
	aid, err := helpers.ParseID(lookups.EntityArticle, articleID)
	if err != nil {
		return nil, err
	}

	var res *models.StarResult
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.Articles.Get(ctx, aid)
		if err != nil {
			return err
		}

		if a.Author == cred.UserID {
			return models.ErrSelfStar
		}

		starred := helpers.ContainsID(a.StarredBy, cred.UserID)

		var changed bool
		if starred {
			changed, err = s.Articles.RemoveStar(ctx, aid, cred.UserID)
		} else {
			changed, err = s.Articles.AddStar(ctx, aid, cred.UserID)
		}
		if err != nil {
			return err
		}

		if !changed {
			// a concurrent toggle got there first; report the current state
			a, err = s.Articles.Get(ctx, aid)
			if err != nil {
				return err
			}
			res = &models.StarResult{
				Starred:  helpers.ContainsID(a.StarredBy, cred.UserID),
				NewCount: a.StarsCount,
			}
			return nil
		}

		if starred {
			if err = s.Users.IncTotalStars(ctx, a.Author, -1); err != nil {
				return err
			}
			if err = s.Users.RemoveStarred(ctx, cred.UserID, aid); err != nil {
				return err
			}
			res = &models.StarResult{Starred: false, NewCount: a.StarsCount - 1}
			return nil
		}

		if err = s.Users.IncTotalStars(ctx, a.Author, 1); err != nil {
			return err
		}
		if err = s.Users.AddStarred(ctx, cred.UserID, aid); err != nil {
			return err
		}
		res = &models.StarResult{Starred: true, NewCount: a.StarsCount + 1}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
