// Package httputil holds the small JSON helpers shared by the API handlers
// and middleware.
//
// Responses are marshalled before any header is written. A value that cannot
// be encoded (for example a NaN or ±Inf float) therefore turns into a 500
// with a JSON error body instead of a 200 with a truncated one.
package httputil
