package query

import (
	"math"
	"strconv"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Pagination is the resolved page window
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta is returned with every list
type Meta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// Skip is the number of documents before the page
func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}

// Meta computes the page counts for total documents
func (p Pagination) Meta(total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:    p.Page,
		Limit:   p.Limit,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}

// paginate falls back to the defaults for missing, non-numeric or non-positive values
func paginate(cfg Config, params Params) Pagination {
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = defaultLimit
	}
	ceiling := cfg.MaxLimit
	if ceiling <= 0 {
		ceiling = maxLimit
	}

	p := Pagination{
		Page:  positive(params.String("page"), 1),
		Limit: positive(params.String("limit"), limit),
	}
	if p.Limit > ceiling {
		p.Limit = ceiling
	}
	// (page-1)*limit must fit into the skip
	if last := math.MaxInt / p.Limit; p.Page > last {
		p.Page = last
	}
	return p
}

func positive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
