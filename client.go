// Package qantani is a client binding for the Qantani "Easy iDeal" payments
// API. Every call is a single signed request/response round trip; the client
// holds no mutable state besides its credentials and may be used from
// multiple goroutines without coordination.
package qantani

import (
	"net/http"
	"time"

	"golang.org/x/exp/slog"
)

// DefaultEndpoint is the production API endpoint.
const DefaultEndpoint = "https://www.qantanipayments.com/api/"

// Config configures a Client. The three merchant credentials are required;
// everything else has working defaults.
type Config struct {
	MerchantID     string
	MerchantKey    string
	MerchantSecret string

	// Endpoint overrides the API base URL, e.g. to point at a sandbox.
	Endpoint string
	// HTTPClient overrides the HTTP client used for requests.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the Easy iDeal API on behalf of a single merchant.
type Client struct {
	endpoint       string
	merchantID     string
	merchantKey    string
	merchantSecret string
	httpClient     *http.Client
	logger         *slog.Logger
}

// New validates the configuration and builds a Client.
func New(cfg Config) (*Client, error) {
	if cfg.MerchantID == "" {
		return nil, &ConfigurationError{Reason: "merchant id is required"}
	}
	if cfg.MerchantKey == "" {
		return nil, &ConfigurationError{Reason: "merchant key is required"}
	}
	if cfg.MerchantSecret == "" {
		return nil, &ConfigurationError{Reason: "merchant secret is required"}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		endpoint:       endpoint,
		merchantID:     cfg.MerchantID,
		merchantKey:    cfg.MerchantKey,
		merchantSecret: cfg.MerchantSecret,
		httpClient:     httpClient,
		logger:         logger.With(slog.String("component", "qantani")),
	}, nil
}
