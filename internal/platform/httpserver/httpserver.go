package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with timeouts sized for short JSON exchanges.
// OTP dispatch happens inside the request, so the write timeout must cover
// one outbound SMTP or gateway call.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
