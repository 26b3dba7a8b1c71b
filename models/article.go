package models

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article is the stored document
// starsCount == len(starredBy), totalCommentCount == comments with article == _id
type Article struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id"`
	Title             string               `json:"title" bson:"title"`
	Summary           string               `json:"summary" bson:"summary"`
	Content           string               `json:"content" bson:"content"`         // markdown source
	ContentHTML       string               `json:"contentHtml" bson:"contentHtml"` // rendered & sanitised
	CoverImageURL     string               `json:"coverImageUrl" bson:"coverImageUrl"`
	ReadTimeInMinutes int                  `json:"readTimeInMinutes" bson:"readTimeInMinutes"`
	Author            primitive.ObjectID   `json:"author" bson:"author"`
	Category          primitive.ObjectID   `json:"category" bson:"category"`
	Tags              []primitive.ObjectID `json:"tags" bson:"tags"`
	Comments          []primitive.ObjectID `json:"comments" bson:"comments"` // top-level only
	TotalCommentCount int64                `json:"totalCommentCount" bson:"totalCommentCount"`
	StarsCount        int64                `json:"starsCount" bson:"starsCount"`
	StarredBy         []primitive.ObjectID `json:"-" bson:"starredBy"`
	Timestamps        `bson:",inline"`
}

// ArticleView is an article with populated references (lists and detail)
type ArticleView struct {
	ID                primitive.ObjectID `json:"id" bson:"_id"`
	Title             string             `json:"title" bson:"title"`
	Summary           string             `json:"summary" bson:"summary"`
	Content           string             `json:"content,omitempty" bson:"content,omitempty"`
	ContentHTML       string             `json:"contentHtml,omitempty" bson:"contentHtml,omitempty"`
	CoverImageURL     string             `json:"coverImageUrl" bson:"coverImageUrl"`
	ReadTimeInMinutes int                `json:"readTimeInMinutes" bson:"readTimeInMinutes"`
	Author            *UserRef           `json:"author" bson:"author"`
	Category          *Lookup            `json:"category" bson:"category"`
	Tags              []Lookup           `json:"tags" bson:"tags"`
	TotalCommentCount int64              `json:"totalCommentCount" bson:"totalCommentCount"`
	StarsCount        int64              `json:"starsCount" bson:"starsCount"`
	Timestamps        `bson:",inline"`
}

// TagList accepts tags as JSON array or as a string holding a JSON array
// (multipart forms send it that way) or a comma separated list
type TagList []string

func (t *TagList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = TagList{}
		return nil
	}
	if strings.HasPrefix(s, "[") {
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return err
		}
		*t = list
		return nil
	}

	list = []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	*t = list
	return nil
}

// ArticleRequest creates an article; on update, empty fields are left unchanged
type ArticleRequest struct {
	Title         string  `json:"title"`
	Summary       string  `json:"summary"`
	Content       string  `json:"content"`
	CoverImageURL string  `json:"coverImageUrl"`
	Category      string  `json:"category"`
	Tags          TagList `json:"tags"` // nil when not sent
}

func (r *ArticleRequest) trim() {
	r.Title = strings.TrimSpace(r.Title)
	r.Summary = strings.TrimSpace(r.Summary)
}

// Validate for new articles
func (r *ArticleRequest) Validate() error {
	r.trim()
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 150)),
		validation.Field(&r.Summary, validation.Required, validation.Length(10, 300)),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.CoverImageURL, is.URL),
		validation.Field(&r.Category, validation.Required, is.MongoID),
		validation.Field(&r.Tags, validation.Each(is.MongoID)),
	)
}

// ValidateUpdate allows partial requests
func (r *ArticleRequest) ValidateUpdate() error {
	r.trim()
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Length(3, 150)),
		validation.Field(&r.Summary, validation.Length(10, 300)),
		validation.Field(&r.CoverImageURL, is.URL),
		validation.Field(&r.Category, is.MongoID),
		validation.Field(&r.Tags, validation.Each(is.MongoID)),
	)
}

// TagIDs returns the parsed tag references (duplicates removed); call after Validate
func (r *ArticleRequest) TagIDs() []primitive.ObjectID {
	ids := []primitive.ObjectID{}
	seen := map[primitive.ObjectID]bool{}
	for _, t := range r.Tags {
		id, err := primitive.ObjectIDFromHex(t)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
