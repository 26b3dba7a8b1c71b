package query

import (
	"context"
	"errors"
	"math"
	"net/url"
	"testing"

	"bloggy-api/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var productConfig = Config{
	Entity: "product",
	Fields: []Field{
		{Name: "name", Kind: String, Sort: true, Select: true},
		{Name: "price", Kind: Number, Filter: true, Sort: true, Select: true},
		{Name: "category", Kind: ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "brand", Kind: ObjectID, Filter: true, Multi: true, Select: true},
		{Name: "isFeatured", Kind: Bool, Filter: true},
		{Name: "createdAt", Kind: Date, Filter: true, Sort: true},
		{Name: "description", Kind: String},
	},
	TextSearch:   true,
	Join:         &Join{Field: "brand", Collection: "brands", Path: "name"},
	DefaultSort:  "-createdAt",
	DefaultLimit: 15,
	Exclude:      []string{"reviews"},
	Expand: []Expansion{
		{Path: "brand", From: "brands", Fields: []string{"name"}},
	},
}

func values(raw string) Params {
	v, err := url.ParseQuery(raw)
	if err != nil {
		panic(err)
	}
	return ParamsFromValues(v)
}

func TestParamsFromValuesBrackets(t *testing.T) {
	p := values("price[gte]=50&price[lte]=200&sort=-price&tags=a&tags=b")

	assert.Equal(t, map[string]string{"gte": "50", "lte": "200"}, p["price"])
	assert.Equal(t, "-price", p["sort"])
	assert.Equal(t, "a,b", p["tags"])
}

func TestRangeSortPage(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("price[gte]=50&price[lte]=200&sort=-price&page=2&limit=5"), nil)
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "price", Value: bson.D{
		{Key: "$gte", Value: 50.0},
		{Key: "$lte", Value: 200.0},
	}}}, q.Filter)
	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}, q.Sort)
	assert.Equal(t, int64(5), q.Skip)
	assert.Equal(t, int64(5), q.Limit)
}

func TestUnknownFilterKeyRejected(t *testing.T) {
	_, err := Build(context.Background(), productConfig, values("password=x"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	// declared but not filterable
	_, err = Build(context.Background(), productConfig, values("description=x"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestMalformedRangeRejected(t *testing.T) {
	_, err := Build(context.Background(), productConfig, values("price[gte]=cheap"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = Build(context.Background(), productConfig, values("price[ne]=5"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	_, err = Build(context.Background(), productConfig, values("category[gt]=5"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestCommaListBecomesIn(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	q, err := Build(context.Background(), productConfig, values("category="+a.Hex()+","+b.Hex()+"&isFeatured=true"), nil)
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "category", Value: bson.D{{Key: "$in", Value: bson.A{a, b}}}},
		{Key: "isFeatured", Value: true},
	}, q.Filter)
}

func TestReservedKeysStripped(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("page=1&limit=3&fields=name&sort=name"), nil)
	require.NoError(t, err)
	assert.Empty(t, q.Filter)
}

func TestSearchJoinsIDs(t *testing.T) {
	brand := primitive.NewObjectID()
	var gotTerm string
	lookup := IDLookupFunc(func(_ context.Context, coll string, field string, term string) ([]primitive.ObjectID, error) {
		assert.Equal(t, "brands", coll)
		assert.Equal(t, "name", field)
		gotTerm = term
		return []primitive.ObjectID{brand}, nil
	})

	q, err := Build(context.Background(), productConfig, values("q=nike"), lookup)
	require.NoError(t, err)

	assert.Equal(t, "nike", gotTerm)
	assert.True(t, q.TextSearch)
	assert.Equal(t, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: "nike"}}}},
		bson.D{{Key: "brand", Value: bson.D{{Key: "$in", Value: []primitive.ObjectID{brand}}}}},
	}}}, q.Filter)
	assert.Equal(t, bson.D{textScoreSort, {Key: "_id", Value: 1}}, q.Sort)
}

func TestSearchWithoutJoinMatches(t *testing.T) {
	lookup := IDLookupFunc(func(context.Context, string, string, string) ([]primitive.ObjectID, error) {
		return nil, nil
	})

	q, err := Build(context.Background(), productConfig, values("search=shoe&sort=price"), lookup)
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: "shoe"}}}}, q.Filter)
	assert.Equal(t, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}, q.Sort)
}

func TestRegexSearchEscapesTerm(t *testing.T) {
	cfg := Config{SearchFields: []string{"name"}}

	q, err := Build(context.Background(), cfg, values("q=a.b*"), nil)
	require.NoError(t, err)

	assert.Equal(t, bson.D{{Key: "name", Value: primitive.Regex{Pattern: `a\.b\*`, Options: "i"}}}, q.Filter)
	assert.False(t, q.TextSearch)
}

func TestDefaultSortIsRecency(t *testing.T) {
	q, err := Build(context.Background(), productConfig, Params{}, nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}, q.Sort)
}

func TestSortRejectsUnknownField(t *testing.T) {
	_, err := Build(context.Background(), productConfig, values("sort=-description"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestProjection(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("fields=name,price"), nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "price", Value: 1},
		{Key: "brand", Value: 1},
	}, q.Projection)

	q, err = Build(context.Background(), productConfig, Params{}, nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "reviews", Value: 0}}, q.Projection)

	_, err = Build(context.Background(), productConfig, values("fields=password"), nil)
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestPaginationDefaultsAndCap(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("page=-3&limit=abc"), nil)
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 1, Limit: 15}, q.Page)
	assert.Equal(t, int64(0), q.Skip)

	q, err = Build(context.Background(), productConfig, values("limit=1000"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), q.Limit)
}

func TestHugePageIsClamped(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("page=9223372036854775807&limit=100"), nil)
	require.NoError(t, err)

	assert.Equal(t, math.MaxInt/100, q.Page.Page)
	assert.Positive(t, q.Skip)
	assert.Contains(t, q.Pipeline(), bson.D{{Key: "$skip", Value: q.Skip}})

	m := q.Page.Meta(3)
	assert.False(t, m.HasNext)
}

func TestPlainAndBracketValueMerged(t *testing.T) {
	p := values("price=5&price[gte]=1")
	assert.Equal(t, map[string]string{"eq": "5", "gte": "1"}, p["price"])

	q, err := Build(context.Background(), productConfig, p, nil)
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "price", Value: bson.D{
		{Key: "$eq", Value: 5.0},
		{Key: "$gte", Value: 1.0},
	}}}, q.Filter)
}

func TestMeta(t *testing.T) {
	m := Pagination{Page: 2, Limit: 5}.Meta(11)
	assert.Equal(t, 3, m.Pages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)

	m = Pagination{Page: 1, Limit: 10}.Meta(0)
	assert.Equal(t, 0, m.Pages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
}

func TestPipelineOrder(t *testing.T) {
	q, err := Build(context.Background(), productConfig, values("price[gt]=1&page=2"), nil)
	require.NoError(t, err)

	p := q.Pipeline()
	var stages []string
	for _, st := range p {
		stages = append(stages, st[0].Key)
	}
	assert.Equal(t, []string{"$match", "$sort", "$skip", "$limit", "$lookup", "$unwind", "$project"}, stages)
}

func TestNestedExpansion(t *testing.T) {
	e := Expansion{
		Path: "items", From: "products", Many: true, Fields: []string{"name"},
		Nested: []Expansion{{Path: "brand", From: "brands", Fields: []string{"name"}}},
	}

	stages := e.Stages()
	require.Len(t, stages, 1) // no unwind for lists

	lookup := stages[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "let", Value: bson.D{{Key: "ref0", Value: "$items"}}}, lookup[1])

	inner := lookup[2].Value.(bson.A)
	// $match, nested $lookup, nested $unwind, $project
	require.Len(t, inner, 4)
	nested := inner[1].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "let", Value: bson.D{{Key: "ref1", Value: "$brand"}}}, nested[1])
	assert.Equal(t, bson.D{{Key: "$project", Value: bson.D{
		{Key: "name", Value: 1},
		{Key: "brand", Value: 1},
	}}}, inner[3])
}

func TestScopingCondition(t *testing.T) {
	owner := primitive.NewObjectID()
	q, err := Build(context.Background(), productConfig, Params{}, nil)
	require.NoError(t, err)

	q.And("createdBy", owner)
	assert.Equal(t, bson.D{{Key: "createdBy", Value: owner}}, q.CountFilter())
}
