// Package httpserver builds the process http.Server with hardened timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New returns an http.Server for the given handler. Zero-value servers keep
// idle connections open forever; these timeouts bound header reads, full
// request reads, and response writes. WriteTimeout is derived from the
// per-request timeout so timeout responses still flush instead of being cut
// off by the server itself.
func New(addr string, handler http.Handler, requestTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
