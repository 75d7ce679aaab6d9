package httpapi

import (
	"net/url"
	"strconv"
	"strings"
)

// Query builds URL query parameters from optional values. Absent values are
// omitted rather than serialized.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Set adds key=value when value is non-empty.
func (q *Query) Set(key, value string) *Query {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

// Int adds key when v is non-nil.
func (q *Query) Int(key string, v *int) *Query {
	if v != nil {
		q.values.Set(key, strconv.Itoa(*v))
	}
	return q
}

// Float adds key when v is non-nil.
func (q *Query) Float(key string, v *float64) *Query {
	if v != nil {
		q.values.Set(key, strconv.FormatFloat(*v, 'f', -1, 64))
	}
	return q
}

// Flag adds key=true when v is set; false is omitted.
func (q *Query) Flag(key string, v bool) *Query {
	if v {
		q.values.Set(key, "true")
	}
	return q
}

// List comma-joins vs into a single parameter.
func (q *Query) List(key string, vs []string) *Query {
	var kept []string
	for _, v := range vs {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) > 0 {
		q.values.Set(key, strings.Join(kept, ","))
	}
	return q
}

// Repeat appends one key=value pair per element.
func (q *Query) Repeat(key string, vs []string) *Query {
	for _, v := range vs {
		if v != "" {
			q.values.Add(key, v)
		}
	}
	return q
}

// Encode returns the encoded query, sorted by key. A nil Query encodes to "".
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}
