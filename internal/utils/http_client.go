package utils

import (
	"github.com/go-resty/resty/v2"
)

// UserAgent identifies go-church-sync clients to the remote store.
const UserAgent = "go-church-sync"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly.
//
// Example usage:
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Get("https://example.com/api/ping")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client that sends the go-church-sync
// User-Agent and accepts JSON. Callers set the base URL and timeout.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", UserAgent).
		SetHeader("Accept", "application/json")
	return &HTTPClient{Client: client}
}
