// Package server constructs the HTTP server for the read-only ops API.
package server

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"
)

// New builds the ops API server on the given address. The caller owns
// its lifecycle: ListenAndServe at startup, Shutdown before the
// forwarding loop is joined.
func New(addr string, router *ginext.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
