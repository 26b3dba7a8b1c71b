package query

import (
	"fmt"
	"strings"

	"bloggy-api/apperror"

	"go.mongodb.org/mongo-driver/bson"
)

var textScoreSort = bson.E{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}

// buildSort parses "-price,name"; _id is always appended as tiebreak so pages are stable
func buildSort(cfg Config, raw string, searched bool) (bson.D, error) {
	if raw == "" {
		if searched {
			return bson.D{textScoreSort, {Key: "_id", Value: 1}}, nil
		}
		raw = cfg.DefaultSort
	}

	sort, err := parseSort(cfg, raw)
	if err != nil {
		return nil, err
	}

	for _, e := range sort {
		if e.Key == "_id" {
			return sort, nil
		}
	}
	return append(sort, bson.E{Key: "_id", Value: 1}), nil
}

func parseSort(cfg Config, raw string) (bson.D, error) {
	sort := bson.D{}
	seen := map[string]bool{}

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		dir := 1
		name := part
		if strings.HasPrefix(part, "-") {
			dir = -1
			name = part[1:]
		} else if strings.HasPrefix(part, "+") {
			name = part[1:]
		}

		if name != "_id" {
			f, ok := cfg.field(name)
			if !ok || !f.Sort {
				return nil, apperror.Validation(fmt.Sprintf("cannot sort by %s", name))
			}
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		sort = append(sort, bson.E{Key: name, Value: dir})
	}

	return sort, nil
}

// buildProjection returns an inclusion projection for fields= or the list-view exclusions
func buildProjection(cfg Config, raw string) (bson.D, error) {
	if raw == "" {
		if len(cfg.Exclude) == 0 {
			return nil, nil
		}
		proj := bson.D{}
		for _, f := range cfg.Exclude {
			proj = append(proj, bson.E{Key: f, Value: 0})
		}
		return proj, nil
	}

	proj := bson.D{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || name == "_id" || seen[name] {
			continue
		}
		f, ok := cfg.field(name)
		if !ok || !f.Select {
			return nil, apperror.Validation(fmt.Sprintf("unknown field: %s", name))
		}
		seen[name] = true
		proj = append(proj, bson.E{Key: f.Name, Value: 1})
	}

	// keep the expanded references, otherwise the lookups are lost
	for _, e := range cfg.Expand {
		if !seen[e.Path] {
			seen[e.Path] = true
			proj = append(proj, bson.E{Key: e.Path, Value: 1})
		}
	}

	if len(proj) == 0 {
		return nil, nil
	}
	return proj, nil
}
