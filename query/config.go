// Package query turns the untrusted parameter bag of a list request into a MongoDB
// aggregation: filter -> search -> sort -> project -> paginate -> expand.
package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind of a declared field, used to coerce parameter values
type Kind int

const (
	String Kind = iota
	Number
	ObjectID
	Bool
	Date
)

// Field is one entry of the allow-list
type Field struct {
	Name   string
	Kind   Kind
	Filter bool // may be used as filter key
	Sort   bool // may be used in sort=
	Multi  bool // comma lists become $in
	Select bool // may be requested with fields=
}

// Join resolves a search term against another collection first
// (eg. author name via users.name); matching ids are OR-ed with the text search
type Join struct {
	Field      string // local reference, eg. "author"
	Collection string
	Path       string // searched field of the other collection, eg. "name"
}

// Config describes how an entity may be listed
type Config struct {
	Entity       string
	Fields       []Field
	TextSearch   bool     // collection carries a text index
	SearchFields []string // regex search when there is no text index
	Join         *Join
	DefaultSort  string // same syntax as sort=, eg. "-createdAt"
	DefaultLimit int
	MaxLimit     int
	Exclude      []string // dropped from list views unless fields= is given
	Expand       []Expansion
}

func (c Config) field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IDLookup finds the ids of documents whose field contains term
// (case-insensitive substring match)
type IDLookup interface {
	LookupIDs(ctx context.Context, collection string, field string, term string) ([]primitive.ObjectID, error)
}

// IDLookupFunc adapts a function to IDLookup
type IDLookupFunc func(ctx context.Context, collection string, field string, term string) ([]primitive.ObjectID, error)

func (f IDLookupFunc) LookupIDs(ctx context.Context, collection string, field string, term string) ([]primitive.ObjectID, error) {
	return f(ctx, collection, field, term)
}
