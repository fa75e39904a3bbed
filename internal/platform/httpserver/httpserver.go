// Package httpserver constructs the process's HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with conservative connection timeouts. Request
// deadlines are the router middleware's concern.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
