package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/GoKB/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// Pooled returns a client on the shared pooling transport so the embedder
// reuses connections instead of paying the handshake on every call.
func Pooled(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}
