package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Query is the compiled list request
type Query struct {
	Filter     bson.D
	Sort       bson.D
	Projection bson.D
	Skip       int64
	Limit      int64
	Page       Pagination
	Expand     []Expansion
	TextSearch bool // a $text match is part of the filter
}

// Build runs the stages in their fixed order: filter, search, sort, project, paginate, expand.
// lookup may be nil when the entity has no search join.
func Build(ctx context.Context, cfg Config, params Params, lookup IDLookup) (*Query, error) {
	if params == nil {
		params = Params{}
	}

	filter, err := buildFilter(cfg, params)
	if err != nil {
		return nil, err
	}

	q := &Query{Filter: filter}

	term := params.String("q")
	if term == "" {
		term = params.String("search")
	}
	if term != "" {
		cond, text, err := buildSearch(ctx, cfg, term, lookup)
		if err != nil {
			return nil, err
		}
		if cond.Key != "" {
			q.Filter = append(q.Filter, cond)
		}
		q.TextSearch = text
	}

	q.Sort, err = buildSort(cfg, params.String("sort"), q.TextSearch)
	if err != nil {
		return nil, err
	}

	q.Projection, err = buildProjection(cfg, params.String("fields"))
	if err != nil {
		return nil, err
	}

	q.Page = paginate(cfg, params)
	q.Skip = q.Page.Skip()
	q.Limit = int64(q.Page.Limit)

	q.Expand = cfg.Expand

	return q, nil
}

// And adds a scoping condition (eg. owner) to the filter
func (q *Query) And(key string, value interface{}) {
	q.Filter = append(q.Filter, bson.E{Key: key, Value: value})
}

// CountFilter is the filter without the page window
func (q *Query) CountFilter() bson.D {
	if q.Filter == nil {
		return bson.D{}
	}
	return q.Filter
}

// Pipeline returns the aggregation for one page
func (q *Query) Pipeline() mongo.Pipeline {
	p := mongo.Pipeline{{{Key: "$match", Value: q.CountFilter()}}}

	if len(q.Sort) > 0 {
		p = append(p, bson.D{{Key: "$sort", Value: q.Sort}})
	}
	if q.Skip > 0 {
		p = append(p, bson.D{{Key: "$skip", Value: q.Skip}})
	}
	if q.Limit > 0 {
		p = append(p, bson.D{{Key: "$limit", Value: q.Limit}})
	}
	for _, e := range q.Expand {
		p = append(p, e.Stages()...)
	}
	if len(q.Projection) > 0 {
		p = append(p, bson.D{{Key: "$project", Value: q.Projection}})
	}

	return p
}
