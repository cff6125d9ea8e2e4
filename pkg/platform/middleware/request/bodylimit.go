package request

import (
	"net/http"
)

// BodyLimit caps how many request body bytes a handler may read. Reads past
// the cap fail with http.MaxBytesError, which the JSON decode path reports
// to the caller as a bad request. MaxBytesReader also closes the connection
// on overflow, so an oversized upload cannot hold the worker hostage.
//
// Mount it ahead of any middleware or handler that touches the body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
