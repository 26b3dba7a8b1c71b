package query

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"bloggy-api/apperror"
	"bloggy-api/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bracket operators in the order they are emitted
var rangeOps = []string{"eq", "gt", "gte", "lt", "lte"}

// buildFilter applies the allow-list to every non reserved key
func buildFilter(cfg Config, params Params) (bson.D, error) {
	filter := bson.D{}

	keys := make([]string, 0, len(params))
	for k := range params {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		f, ok := cfg.field(k)
		if !ok || !f.Filter {
			return nil, apperror.Validation(fmt.Sprintf("unknown filter field: %s", k))
		}

		switch v := params[k].(type) {
		case string:
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			cond, err := equality(f, v)
			if err != nil {
				return nil, err
			}
			filter = append(filter, bson.E{Key: f.Name, Value: cond})
		case map[string]string:
			if len(v) == 0 {
				continue
			}
			cond, err := ranged(f, v)
			if err != nil {
				return nil, err
			}
			filter = append(filter, bson.E{Key: f.Name, Value: cond})
		default:
			return nil, apperror.Validation(fmt.Sprintf("invalid value for %s", k))
		}
	}

	return filter, nil
}

func equality(f Field, raw string) (interface{}, error) {
	if f.Multi && strings.Contains(raw, ",") {
		in := bson.A{}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			v, err := coerce(f, part)
			if err != nil {
				return nil, err
			}
			in = append(in, v)
		}
		return bson.D{{Key: "$in", Value: in}}, nil
	}

	return coerce(f, raw)
}

func ranged(f Field, ops map[string]string) (bson.D, error) {
	if f.Kind != Number && f.Kind != Date {
		return nil, apperror.Validation(fmt.Sprintf("range not supported on %s", f.Name))
	}

	for op := range ops {
		known := false
		for _, r := range rangeOps {
			if op == r {
				known = true
				break
			}
		}
		if !known {
			return nil, apperror.Validation(fmt.Sprintf("unsupported operator %s on %s", op, f.Name))
		}
	}

	cond := bson.D{}
	for _, op := range rangeOps {
		raw, ok := ops[op]
		if !ok {
			continue
		}
		v, err := coerce(f, strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		cond = append(cond, bson.E{Key: "$" + op, Value: v})
	}

	return cond, nil
}

// coerce converts a raw value into the kind of the field; malformed values are rejected
func coerce(f Field, raw string) (interface{}, error) {
	switch f.Kind {
	case Number:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("%s must be a number", f.Name))
		}
		return n, nil
	case ObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("%s must be an id", f.Name))
		}
		return id, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("%s must be true or false", f.Name))
		}
		return b, nil
	case Date:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, apperror.Validation(fmt.Sprintf("%s must be a date", f.Name))
	}
	return raw, nil
}

// buildSearch returns the search condition and whether a $text match is part of it
func buildSearch(ctx context.Context, cfg Config, term string, lookup IDLookup) (bson.E, bool, error) {
	var conds bson.A
	text := false

	if cfg.TextSearch {
		conds = append(conds, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: term}}}})
		text = true
	} else {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		for _, f := range cfg.SearchFields {
			conds = append(conds, bson.D{{Key: f, Value: pattern}})
		}
	}

	if cfg.Join != nil && lookup != nil {
		ids, err := lookup.LookupIDs(ctx, cfg.Join.Collection, cfg.Join.Path, term)
		if err != nil {
			return bson.E{}, false, helpers.WrapError(err, helpers.FuncName())
		}
		if len(ids) > 0 {
			conds = append(conds, bson.D{{Key: cfg.Join.Field, Value: bson.D{{Key: "$in", Value: ids}}}})
		}
	}

	switch len(conds) {
	case 0:
		return bson.E{}, false, nil
	case 1:
		cond := conds[0].(bson.D)
		return cond[0], text, nil
	}
	return bson.E{Key: "$or", Value: conds}, text, nil
}
