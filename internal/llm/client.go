package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/projectziio/ziio-ai/pkg/logger"
	"github.com/projectziio/ziio-ai/pkg/metrics"
)

const maxBodyBytes = 10 * 1024 * 1024

// Gateway is the subset of the client the services depend on.
type Gateway interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Stream(ctx context.Context, req Request) (*Stream, error)
}

// Config configures an OpenRouter-compatible client.
type Config struct {
	APIKey   string
	BaseURL  string
	AppURL   string // sent as HTTP-Referer
	AppTitle string // sent as X-Title
	Timeout  time.Duration

	// HTTPClient overrides the default transport (tests).
	HTTPClient *http.Client
}

// Client talks to the chat-completion gateway. Each model gets its own
// circuit breaker.
type Client struct {
	cfg      Config
	http     *http.Client
	breakers *breakerSet
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	hc := cfg.HTTPClient
	if hc == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		// no client-wide Timeout: it would cut long streams; headers must arrive in time
		tr.ResponseHeaderTimeout = cfg.Timeout
		hc = &http.Client{Transport: tr}
	}
	return &Client{cfg: cfg, http: hc, breakers: newBreakerSet()}
}

// Complete sends a non-streaming request and returns the parsed response.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	req.Stream = false

	out, err := c.breakers.execute(req.Model, func() (interface{}, error) {
		resp, err := c.post(ctx, req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		var r Response
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("parse response: %w", err)
		}
		if r.Error != nil {
			return nil, payloadError(req.Model, r.Error)
		}
		return &r, nil
	})
	c.observe(req.Model, err)
	if err != nil {
		return nil, err
	}
	r := out.(*Response)
	if strings.TrimSpace(r.Text()) == "" {
		return nil, ErrEmptyCompletion
	}
	logger.Debugf("llm: model=%s completion_len=%d", req.Model, len(r.Text()))
	return r, nil
}

// Stream opens a streaming request. Gateway rejections are returned here,
// before any delta is read, so callers can still fall back.
func (c *Client) Stream(ctx context.Context, req Request) (*Stream, error) {
	req.Stream = true
	out, err := c.breakers.execute(req.Model, func() (interface{}, error) {
		return c.post(ctx, req)
	})
	c.observe(req.Model, err)
	if err != nil {
		return nil, err
	}
	return newStream(out.(*http.Response).Body, req.Model), nil
}

// post sends req and returns the response when the status is 2xx.
func (c *Client) post(ctx context.Context, req Request) (*http.Response, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.AppURL != "" {
		hreq.Header.Set("HTTP-Referer", c.cfg.AppURL)
	}
	if c.cfg.AppTitle != "" {
		hreq.Header.Set("X-Title", c.cfg.AppTitle)
	}
	if req.Stream {
		hreq.Header.Set("Accept", "text/event-stream")
	}

	start := time.Now()
	resp, err := c.http.Do(hreq)
	metrics.LLMLatency.WithLabelValues(req.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return nil, statusError(req.Model, resp.StatusCode, body)
	}
	return resp, nil
}

// statusError builds an APIError from a non-2xx response, preferring the
// message of an {"error":{...}} body.
func statusError(model string, status int, body []byte) *APIError {
	msg := strings.TrimSpace(string(body))
	code := ""
	var r Response
	if err := json.Unmarshal(body, &r); err == nil && r.Error != nil {
		code = r.Error.code()
		if r.Error.Message != "" {
			msg = r.Error.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Code: code, Message: msg, Model: model}
}

// payloadError handles gateways that answer 200 with an error body.
func payloadError(model string, e *errBody) *APIError {
	status := e.status()
	if status < 400 {
		status = http.StatusBadGateway
	}
	return &APIError{StatusCode: status, Code: e.code(), Message: e.Message, Model: model}
}

func (c *Client) observe(model string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case IsRetryable(err):
		outcome = "retryable"
	default:
		outcome = "error"
	}
	metrics.LLMRequests.WithLabelValues(model, outcome).Inc()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warnf("llm: model=%s outcome=%s: %v", model, outcome, err)
	}
}
