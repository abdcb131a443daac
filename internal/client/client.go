package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/cli/logger"
)

// UserAgent is sent with every request
const UserAgent = "misinfo-cli/0.1.0"

var httpClient *resty.Client

// New creates an HTTP client for the posts API
func New(baseURL string, timeout time.Duration) *resty.Client {
	c := resty.New()
	c.SetBaseURL(baseURL)
	c.SetTimeout(timeout)
	c.SetHeader("User-Agent", UserAgent)
	c.SetHeader("Accept", "application/json")

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"status", resp.StatusCode(),
			"url", resp.Request.URL,
			"elapsed", resp.Time(),
		)
		return nil
	})

	return c
}

// Init initializes the shared client from configuration
func Init() {
	httpClient = New(config.GetString("api.base_url"), config.APITimeout())
}

// GetClient returns the shared client, initializing it on first use
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}
