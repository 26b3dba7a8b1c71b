package models

import (
	"bloggy-api/apperror"
)

// custom error types (generic kinds found in apperror package)

// user
var (
	ErrEMailAddressTaken = apperror.Conflict("email-address is already used")
	ErrInvalidLogin      = apperror.Unauthorized("invalid email or password")
	ErrInvalidPassword   = apperror.Validation("current password is wrong")
	ErrPasswordMismatch  = apperror.Validation("passwords do not match")
)

// article & comment
var (
	ErrSelfStar     = apperror.Forbidden("you cannot star your own article")
	ErrNotAuthor    = apperror.Forbidden("only the author may change this")
	ErrCommentEmpty = apperror.Validation("comment is required")
)

// shop
var (
	ErrReviewExists    = apperror.Conflict("product already reviewed")
	ErrOutOfStock      = apperror.Validation("not enough items in stock")
	ErrEmptyOrder      = apperror.Validation("order has no items")
	ErrOrderNotPaid    = apperror.Validation("order is not paid")
	ErrSlugTaken       = apperror.Conflict("a product with this name already exists")
	ErrLookupNameTaken = apperror.Conflict("name already exists")
)
