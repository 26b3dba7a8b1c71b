package services

import (
	"time"

	"bloggy-api/query"
)

// Page is the result of every list operation
type Page[T any] struct {
	Items []T        `json:"items"`
	Meta  query.Meta `json:"meta"`
}

func newPage[T any](items []T, total int64, p query.Pagination) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Meta: p.Meta(total)}
}

// now is UTC with millisecond precision (what MongoDB stores)
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
