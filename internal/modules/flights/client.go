package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// DefaultBaseURL is the public Aviationstack endpoint.
const DefaultBaseURL = "http://api.aviationstack.com"

const maxBodyBytes = 4 << 20

// ClientConfig configures the Aviationstack client. Zero values take defaults.
type ClientConfig struct {
	BaseURL      string
	AccessKey    string
	Timeout      time.Duration
	MaxTries     uint
	RetryInitial time.Duration
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

func (c ClientConfig) withDefaults() ClientConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxTries == 0 {
		c.MaxTries = 3
	}
	if c.RetryInitial <= 0 {
		c.RetryInitial = 300 * time.Millisecond
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerCooldown <= 0 {
		c.BreakerCooldown = 30 * time.Second
	}
	return c
}

// Client calls Aviationstack. Every call goes through a circuit breaker and
// transient failures are retried with exponential backoff.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "aviationstack",
			Timeout: cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.BreakerFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithFields(log.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("flights: circuit breaker state changed")
			},
		}),
	}
}

type airportsResponse struct {
	Data []Airport `json:"data"`
}

type flightsResponse struct {
	Data []Flight `json:"data"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Airports lists the airports Aviationstack associates with city.
func (c *Client) Airports(ctx context.Context, city string) ([]Airport, error) {
	var out airportsResponse
	if err := c.call(ctx, "/v1/airports", url.Values{"city_name": {city}}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Flights lists flights arriving at iata on date (YYYY-MM-DD).
func (c *Client) Flights(ctx context.Context, iata, date string) ([]Flight, error) {
	q := url.Values{"arrival_iata": {iata}, "flight_date": {date}}
	var out flightsResponse
	if err := c.call(ctx, "/v1/flights", q, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) call(ctx context.Context, path string, q url.Values, out any) error {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.cfg.RetryInitial
		return backoff.Retry(ctx, func() ([]byte, error) {
			return c.get(ctx, path, q)
		}, backoff.WithBackOff(b), backoff.WithMaxTries(c.cfg.MaxTries))
	})
	if err != nil {
		return fmt.Errorf("aviationstack %s: %w", path, err)
	}
	if err := json.Unmarshal(res.([]byte), out); err != nil {
		return fmt.Errorf("aviationstack %s: decode: %w", path, err)
	}
	return nil
}

// get performs one request. Network errors, 429 and 5xx are retryable;
// anything else that fails is permanent.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	params.Set("access_key", c.cfg.AccessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		// The error text carries the URL, which carries the access key.
		return nil, fmt.Errorf("do request: %s", redact(err.Error(), c.cfg.AccessKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, backoff.Permanent(fmt.Errorf("%w: status %d", ErrAPI, resp.StatusCode))
	}

	var env struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: unreadable body: %v", ErrAPI, err))
	}
	if env.Error != nil {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s: %s", ErrAPI, env.Error.Code, env.Error.Message))
	}
	return body, nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
