// Package query builds URL query strings from optional filters.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter is a named candidate. It is included only when Value is truthy.
type Filter struct {
	Name  string
	Value any
}

// Build joins the truthy filters with "&" in input order. There is no leading
// "?"; an empty result means nothing should be appended to the path.
func Build(filters ...Filter) string {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		text, ok := textOf(f.Value)
		if !ok {
			continue
		}
		parts = append(parts, url.QueryEscape(f.Name)+"="+url.QueryEscape(text))
	}
	return strings.Join(parts, "&")
}

// WithQuery appends "?"+q to path when q is non-empty.
func WithQuery(path, q string) string {
	if q == "" {
		return path
	}
	return path + "?" + q
}

func textOf(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, val != ""
	case bool:
		return strconv.FormatBool(val), val
	case int:
		return strconv.Itoa(val), val != 0
	case int64:
		return strconv.FormatInt(val, 10), val != 0
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), val != 0
	case fmt.Stringer:
		s := val.String()
		return s, s != ""
	default:
		s := fmt.Sprint(val)
		return s, s != ""
	}
}
