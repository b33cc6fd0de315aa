package tool

import (
	"net/http"
	"time"
)

var (
	DefaultTimeout       = 30 * time.Second
	ConnectionHttpClient *http.Client
)

func init() {
	ConnectionHttpClient = NewHTTPClient()
}

// NewHTTPClient creates the client used by the producer side to call the bridge.
// Keep-alives stay on: chunks of one transfer go out back to back on the same connection.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DisableKeepAlives:   false,
	}
	return &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}
}

func GetHttpClient() *http.Client {
	return ConnectionHttpClient
}
