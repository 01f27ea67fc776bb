package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// query reads typed values from URL query parameters, keeping the first
// parse error so handlers check once at the end.
type query struct {
	values url.Values
	err    error
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) floatParam(key string, def float64) float64 {
	raw := q.values.Get(key)
	if raw == "" || q.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.err = fmt.Errorf("query parameter %s: %q is not a number", key, raw)
		return def
	}
	return v
}

func (q *query) intParam(key string, def int) int {
	raw := q.values.Get(key)
	if raw == "" || q.err != nil {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.err = fmt.Errorf("query parameter %s: %q is not an integer", key, raw)
		return def
	}
	return v
}

func (q *query) boolParam(key string) bool {
	raw := q.values.Get(key)
	if raw == "" || q.err != nil {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = fmt.Errorf("query parameter %s: %q is not a boolean", key, raw)
		return false
	}
	return v
}
