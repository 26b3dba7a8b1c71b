package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Expansion replaces a reference (or a list of references) by the referenced documents
type Expansion struct {
	Path   string   // local field holding the reference(s), also the output field
	From   string   // collection
	Fields []string // projection of the referenced documents, all when empty
	Many   bool     // list of references
	Nested []Expansion
}

// Stages compiles the expansion into $lookup (+ $unwind for single references)
func (e Expansion) Stages() []bson.D {
	return e.stages(0)
}

func (e Expansion) stages(depth int) []bson.D {
	ref := fmt.Sprintf("ref%d", depth)

	var match bson.D
	if e.Many {
		match = bson.D{{Key: "$expr", Value: bson.D{{Key: "$in", Value: bson.A{
			"$_id",
			bson.D{{Key: "$ifNull", Value: bson.A{"$$" + ref, bson.A{}}}},
		}}}}}
	} else {
		match = bson.D{{Key: "$expr", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$" + ref}}}}}
	}

	inner := bson.A{bson.D{{Key: "$match", Value: match}}}
	for _, n := range e.Nested {
		for _, st := range n.stages(depth + 1) {
			inner = append(inner, st)
		}
	}
	if len(e.Fields) > 0 {
		proj := bson.D{}
		for _, f := range e.Fields {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		for _, n := range e.Nested {
			proj = append(proj, bson.E{Key: n.Path, Value: 1})
		}
		inner = append(inner, bson.D{{Key: "$project", Value: proj}})
	}

	stages := []bson.D{{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: e.From},
		{Key: "let", Value: bson.D{{Key: ref, Value: "$" + e.Path}}},
		{Key: "pipeline", Value: inner},
		{Key: "as", Value: e.Path},
	}}}}

	if !e.Many {
		stages = append(stages, bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + e.Path},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}})
	}

	return stages
}
