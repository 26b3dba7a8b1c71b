package services

import (
	"context"

	"bloggy-api/apperror"
	"bloggy-api/authorization"
	"bloggy-api/commenttree"
	"bloggy-api/database"
	"bloggy-api/helpers"
	"bloggy-api/lookups"
	"bloggy-api/models"
	"bloggy-api/query"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReplyDepth is how many levels of replies are nested below a top-level comment
const ReplyDepth = 3

// CommentService maintains the comment threads of the articles together with
// the denormalised references and counters on articles and parent comments
type CommentService struct {
	Comments CommentStore
	Articles ArticleStore
	Tx       database.Transactor
}

func (s CommentService) text(req *models.CommentRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", apperror.Validationf(err)
	}

	// markup is dropped, an empty result is treated as an empty comment
	text := helpers.SanitizeText(req.Text)
	if text == "" {
		return "", models.ErrCommentEmpty
	}
	return text, nil
}

// Add creates a top-level comment on an article
func (s CommentService) Add(ctx context.Context, cred authorization.Credentials, articleID string, req *models.CommentRequest) (*models.Comment, error) {
	aid, err := helpers.ParseID(lookups.EntityArticle, articleID)
	if err != nil {
		return nil, err
	}

	text, err := s.text(req)
	if err != nil {
		return nil, err
	}

	if _, err = s.Articles.Get(ctx, aid); err != nil {
		return nil, err
	}

	c := &models.Comment{
		ID:      primitive.NewObjectID(),
		Text:    text,
		Author:  cred.UserID,
		Article: aid,
		Replies: []primitive.ObjectID{},
	}
	c.Touch(now())

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Comments.Create(ctx, c); err != nil {
			return err
		}
		// ref and counter in a single update
		return s.Articles.PushComment(ctx, aid, c.ID)
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Reply answers a comment; the reply belongs to the parent's root article
func (s CommentService) Reply(ctx context.Context, cred authorization.Credentials, parentID string, req *models.CommentRequest) (*models.Comment, error) {
	pid, err := helpers.ParseID(lookups.EntityComment, parentID)
	if err != nil {
		return nil, err
	}

	text, err := s.text(req)
	if err != nil {
		return nil, err
	}

	parent, err := s.Comments.Get(ctx, pid)
	if err != nil {
		return nil, err
	}

	c := &models.Comment{
		ID:      primitive.NewObjectID(),
		Text:    text,
		Author:  cred.UserID,
		Article: parent.Article,
		Parent:  &parent.ID,
		Replies: []primitive.ObjectID{},
	}
	c.Touch(now())

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Comments.Create(ctx, c); err != nil {
			return err
		}
		if err := s.Comments.PushReply(ctx, parent.ID, c.ID); err != nil {
			return err
		}
		return s.Articles.IncCommentCount(ctx, parent.Article, 1)
	})
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Edit changes the text; only the author may do this
func (s CommentService) Edit(ctx context.Context, cred authorization.Credentials, id string, req *models.CommentRequest) (*models.Comment, error) {
	oid, err := helpers.ParseID(lookups.EntityComment, id)
	if err != nil {
		return nil, err
	}

	text, err := s.text(req)
	if err != nil {
		return nil, err
	}

	c, err := s.Comments.Get(ctx, oid)
	if err != nil {
		return nil, err
	}

	if !cred.IsOwner(c.Author) {
		return nil, models.ErrNotAuthor
	}

	at := now()
	if err = s.Comments.UpdateText(ctx, oid, text, at); err != nil {
		return nil, err
	}

	c.Text = text
	c.UpdatedAt = at
	return c, nil
}

// Delete removes the comment and all its replies (author or admin).
// Returns the number of deleted comments
func (s CommentService) Delete(ctx context.Context, cred authorization.Credentials, id string) (int64, error) {
	oid, err := helpers.ParseID(lookups.EntityComment, id)
	if err != nil {
		return 0, err
	}

	c, err := s.Comments.Get(ctx, oid)
	if err != nil {
		return 0, err
	}

	if err = cred.MustModify(c.Author); err != nil {
		return 0, err
	}

	var deleted int64
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		nodes, err := s.Comments.Thread(ctx, c.Article)
		if err != nil {
			return err
		}

		ids := commenttree.Build(nodes).Descendants(c.ID)
		if len(ids) == 0 {
			// deleted in the meantime
			return apperror.NotFound(lookups.EntityComment, id)
		}

		deleted, err = s.Comments.DeleteMany(ctx, ids)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return apperror.NotFound(lookups.EntityComment, id)
		}

		// decrement by what was actually removed
		if err = s.Articles.IncCommentCount(ctx, c.Article, -deleted); err != nil {
			return err
		}

		if c.Parent != nil {
			return s.Comments.PullReply(ctx, *c.Parent, c.ID)
		}
		return s.Articles.PullComment(ctx, c.Article, c.ID)
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// List pages the top-level comments of an article (newest first) and nests
// their replies (oldest first) up to ReplyDepth levels
func (s CommentService) List(ctx context.Context, articleID string, params query.Params) (*Page[models.CommentView], error) {
	aid, err := helpers.ParseID(lookups.EntityArticle, articleID)
	if err != nil {
		return nil, err
	}

	if _, err = s.Articles.Get(ctx, aid); err != nil {
		return nil, err
	}

	q, err := query.Build(ctx, CommentQuery, params, nil)
	if err != nil {
		return nil, err
	}

	top, total, err := s.Comments.ListTopLevel(ctx, aid, q)
	if err != nil {
		return nil, err
	}

	if len(top) > 0 {
		replies, err := s.Comments.ListReplies(ctx, aid)
		if err != nil {
			return nil, err
		}
		nestReplies(top, replies, ReplyDepth)
	}

	return newPage(top, total, q.Page), nil
}

// nestReplies attaches the replies to their parents, keeping the order of replies
func nestReplies(top []models.CommentView, replies []models.CommentView, depth int) {
	children := make(map[primitive.ObjectID][]models.CommentView)
	for _, r := range replies {
		if r.Parent != nil {
			children[*r.Parent] = append(children[*r.Parent], r)
		}
	}

	var attach func(list []models.CommentView, level int)
	attach = func(list []models.CommentView, level int) {
		for i := range list {
			kids := children[list[i].ID]
			list[i].ReplyCount = len(kids)
			if level >= depth || len(kids) == 0 {
				list[i].Replies = []models.CommentView{}
				continue
			}
			list[i].Replies = append([]models.CommentView{}, kids...)
			attach(list[i].Replies, level+1)
		}
	}
	attach(top, 0)
}
