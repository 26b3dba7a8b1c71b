package query

import (
	"net/url"
	"sort"
	"strings"
)

// reserved keys are never treated as filters
var reserved = map[string]bool{
	"page":   true,
	"limit":  true,
	"sort":   true,
	"fields": true,
	"q":      true,
	"search": true,
}

// Params holds the raw request parameters: either a string or a map of
// operator -> value for bracketed keys (price[gte]=50)
type Params map[string]interface{}

// ParamsFromValues converts a query string; repeated keys are joined with commas
func ParamsFromValues(values url.Values) Params {
	params := Params{}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		vals := values[k]
		if len(vals) == 0 {
			continue
		}

		name, op, ok := splitBracket(k)
		if !ok {
			if m, isMap := params[k].(map[string]string); isMap {
				m["eq"] = strings.Join(vals, ",")
			} else {
				params[k] = strings.Join(vals, ",")
			}
			continue
		}

		// price=5&price[gte]=1 keeps both: the plain value becomes eq
		m, isMap := params[name].(map[string]string)
		if !isMap {
			m = map[string]string{}
			if s, isString := params[name].(string); isString {
				m["eq"] = s
			}
			params[name] = m
		}
		m[op] = vals[len(vals)-1]
	}

	return params
}

// String returns a scalar parameter
func (p Params) String(key string) string {
	s, _ := p[key].(string)
	return strings.TrimSpace(s)
}

// Set is used by services to add or overwrite a parameter
func (p Params) Set(key string, value string) {
	p[key] = value
}

func splitBracket(key string) (name string, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	op = key[open+1 : len(key)-1]
	if op == "" {
		return "", "", false
	}
	return key[:open], op, true
}
