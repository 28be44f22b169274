package utils

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// RequestIDHeader is the header carrying the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// HTTPClient is a wrapper around the resty.Client HTTP client.
// It embeds *resty.Client to expose all of its methods directly and adds
// two request middlewares: a token-bucket pacer and a request-id stamper.
//
// Example usage:
//
//	client := utils.NewHTTPClient(utils.WithRateLimit(5, 10))
//	resp, err := client.R().SetContext(ctx).Get("https://example.com")
type HTTPClient struct {
	*resty.Client

	limiter *rate.Limiter
	ids     *UUIDGenerator
}

// HTTPClientOption configures an [HTTPClient].
type HTTPClientOption func(*HTTPClient)

// WithRateLimit paces outgoing requests to rps per second with the given
// burst. A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) HTTPClientOption {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewHTTPClient creates a new HTTPClient with its own underlying
// resty.Client. Without options requests are not paced.
func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		Client:  resty.New(),
		limiter: rate.NewLimiter(rate.Inf, 0),
		ids:     NewUUIDGenerator(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.OnBeforeRequest(c.waitForToken)
	c.OnBeforeRequest(c.stampRequestID)

	return c
}

func (c *HTTPClient) waitForToken(_ *resty.Client, r *resty.Request) error {
	if err := c.limiter.Wait(r.Context()); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

func (c *HTTPClient) stampRequestID(_ *resty.Client, r *resty.Request) error {
	if r.Header.Get(RequestIDHeader) != "" {
		return nil
	}
	id, ok := GetRequestIDFromContext(r.Context())
	if !ok {
		id = c.ids.Generate()
	}
	r.SetHeader(RequestIDHeader, id)
	return nil
}
