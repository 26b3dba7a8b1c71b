package models

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// max length of comment text (after sanitising)
const CommentMaxLength = 2000

// Comment is the stored document. Parent is the single source of the tree shape,
// Replies only keeps the display order of the children
type Comment struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id"`
	Text       string               `json:"text" bson:"text"`
	Author     primitive.ObjectID   `json:"author" bson:"author"`
	Article    primitive.ObjectID   `json:"article" bson:"article"` // root article, for every depth
	Parent     *primitive.ObjectID  `json:"parent" bson:"parent"`   // nil for top-level comments
	Replies    []primitive.ObjectID `json:"replies" bson:"replies"`
	Timestamps `bson:",inline"`
}

// CommentView is a comment with its author populated and the replies nested (limited depth)
type CommentView struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id"`
	Text       string              `json:"text" bson:"text"`
	Author     *UserRef            `json:"author" bson:"author"`
	Article    primitive.ObjectID  `json:"article" bson:"article"`
	Parent     *primitive.ObjectID `json:"parent,omitempty" bson:"parent"`
	ReplyCount int                 `json:"replyCount" bson:"-"`
	Replies    []CommentView       `json:"replies" bson:"-"`
	Timestamps `bson:",inline"`
}

// CommentRequest adds or edits a comment
type CommentRequest struct {
	Text string `json:"text"`
}

func (r *CommentRequest) Validate() error {
	r.Text = strings.TrimSpace(r.Text)
	return validation.ValidateStruct(r,
		validation.Field(&r.Text,
			validation.Required.Error(ErrCommentEmpty.Error()),
			validation.RuneLength(1, CommentMaxLength),
		),
	)
}
