package ekdsend

import (
	"strings"

	"github.com/ekddigital/ekdsend-go/internal/api"
)

// Version is the SDK version, sent in the User-Agent header.
const Version = "1.1.0"

// Client is the EKDSend client. It owns one pooled HTTP transport and
// exposes the resource clients as fields. Construct with New, release
// with Close.
//
// All methods are safe for concurrent use. A blocking call occupies its
// goroutine for the full attempt sequence, retry delays included;
// cancellation happens through the call's context. There is no
// cross-goroutine interruption of an in-flight blocking call.
type Client struct {
	api *api.Client

	// Emails sends and manages email messages.
	Emails *EmailsService
	// SMS sends and manages SMS messages.
	SMS *SMSService
	// Calls creates and manages voice calls.
	Calls *CallsService
}

// New creates a new EKDSend client.
//
// The API key is required and must start with "ek_live_" or "ek_test_".
// All other configuration is optional:
//
//	client, err := ekdsend.New(os.Getenv("EKDSEND_API_KEY"),
//	    ekdsend.WithTimeout(10*time.Second),
//	    ekdsend.WithMaxRetries(5),
//	)
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if !strings.HasPrefix(apiKey, "ek_live_") && !strings.HasPrefix(apiKey, "ek_test_") {
		return nil, ErrInvalidAPIKey
	}

	cfg := &clientConfig{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		maxRetries: -1,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiCfg := api.Config{
		BaseURL:    strings.TrimRight(cfg.baseURL, "/"),
		APIKey:     apiKey,
		UserAgent:  cfg.userAgent,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		Logger:     cfg.logger,
		Debug:      cfg.debug,
	}
	if cfg.retry != nil {
		apiCfg.Retry = &api.RetryConfig{
			MaxRetries:    cfg.retry.MaxRetries,
			BaseDelay:     cfg.retry.BaseDelay,
			MaxDelay:      cfg.retry.MaxDelay,
			JitterPercent: cfg.retry.JitterPercent,
		}
	} else if cfg.maxRetries >= 0 {
		retry := api.DefaultRetryConfig()
		retry.MaxRetries = cfg.maxRetries
		apiCfg.Retry = retry
	}
	if cfg.breaker != nil {
		apiCfg.Breaker = &api.BreakerConfig{
			FailureThreshold:    cfg.breaker.FailureThreshold,
			OpenTimeout:         cfg.breaker.OpenTimeout,
			MaxHalfOpenRequests: cfg.breaker.MaxHalfOpenRequests,
		}
	}

	apiClient, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, err
	}

	c := &Client{api: apiClient}
	c.Emails = &EmailsService{api: apiClient}
	c.SMS = &SMSService{api: apiClient}
	c.Calls = &CallsService{api: apiClient}
	return c, nil
}

// Close releases the underlying connection pool. Calls made after Close
// fail with ErrClientClosed. Close is idempotent.
func (c *Client) Close() error {
	c.api.Close()
	return nil
}
