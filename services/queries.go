package services

import (
	"bloggy-api/database"
	"bloggy-api/lookups"
	"bloggy-api/query"
)

// populated references
var (
	expandAuthor = query.Expansion{Path: "author", From: database.Users, Fields: []string{"name", "avatarUrl"}}
	expandTags   = query.Expansion{Path: "tags", From: database.Tags, Fields: []string{"name"}, Many: true}
)

// ArticleQuery lists articles; q searches title/summary and author names
var ArticleQuery = query.Config{
	Entity: lookups.EntityArticle,
	Fields: []query.Field{
		{Name: "title", Kind: query.String, Sort: true, Select: true},
		{Name: "summary", Kind: query.String, Select: true},
		{Name: "coverImageUrl", Kind: query.String, Select: true},
		{Name: "author", Kind: query.ObjectID, Filter: true, Select: true},
		{Name: "category", Kind: query.ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "tags", Kind: query.ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "readTimeInMinutes", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "starsCount", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "totalCommentCount", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "createdAt", Kind: query.Date, Filter: true, Sort: true, Select: true},
		{Name: "updatedAt", Kind: query.Date, Sort: true, Select: true},
	},
	TextSearch:   true,
	Join:         &query.Join{Field: "author", Collection: database.Users, Path: "name"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
	MaxLimit:     100,
	Exclude:      []string{"content", "contentHtml", "starredBy", "comments"},
	Expand: []query.Expansion{
		expandAuthor,
		{Path: "category", From: database.Categories, Fields: []string{"name"}},
		expandTags,
	},
}

// ProductQuery lists products; q searches name/description and brand names
var ProductQuery = query.Config{
	Entity: lookups.EntityProduct,
	Fields: []query.Field{
		{Name: "name", Kind: query.String, Sort: true, Select: true},
		{Name: "slug", Kind: query.String, Filter: true, Select: true},
		{Name: "images", Kind: query.String, Select: true},
		{Name: "price", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "rating", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "numReviews", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "stockCount", Kind: query.Number, Filter: true, Sort: true, Select: true},
		{Name: "category", Kind: query.ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "brand", Kind: query.ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "isFeatured", Kind: query.Bool, Filter: true, Select: true},
		{Name: "createdAt", Kind: query.Date, Filter: true, Sort: true, Select: true},
	},
	TextSearch:   true,
	Join:         &query.Join{Field: "brand", Collection: database.Brands, Path: "name"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 15,
	MaxLimit:     100,
	Exclude:      []string{"reviews", "description"},
	Expand: []query.Expansion{
		{Path: "category", From: database.Categories, Fields: []string{"name"}},
		{Path: "brand", From: database.Brands, Fields: []string{"name", "image"}},
	},
}

// BookQuery lists books; non-admins are scoped to their own books by the service
var BookQuery = query.Config{
	Entity: lookups.EntityBook,
	Fields: []query.Field{
		{Name: "title", Kind: query.String, Sort: true, Select: true},
		{Name: "author", Kind: query.String, Filter: true, Sort: true, Select: true},
		{Name: "coverImage", Kind: query.String, Select: true},
		{Name: "createdBy", Kind: query.ObjectID, Filter: true, Select: true},
		{Name: "createdAt", Kind: query.Date, Filter: true, Sort: true, Select: true},
	},
	TextSearch:   true,
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
	MaxLimit:     100,
}

// CommentQuery pages the top-level comments of an article
var CommentQuery = query.Config{
	Entity: lookups.EntityComment,
	Fields: []query.Field{
		{Name: "createdAt", Kind: query.Date, Sort: true},
		{Name: "updatedAt", Kind: query.Date, Sort: true},
	},
	DefaultSort:  "-createdAt",
	DefaultLimit: 10,
	MaxLimit:     100,
	Expand:       []query.Expansion{expandAuthor},
}
