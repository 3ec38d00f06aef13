package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ngmaloney/surf-terminal/internal/metrics"
)

// RequestOptions describes one backend call
type RequestOptions struct {
	// Operation names the call in logs and metrics
	Operation string
	Method    string
	Query     url.Values
	// Body is JSON-encoded when non-nil
	Body any
	// Headers are merged over the defaults; caller values win
	Headers map[string]string
}

// Do performs a request against endpoint and decodes the JSON response into T.
// It never panics or returns a Go error; every failure ends up in Result.Error.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) Result[T] {
	op := opts.Operation
	if op == "" {
		op = "request"
	}
	start := time.Now()

	res, outcome := do[T](ctx, c, endpoint, opts)

	c.metrics.Observe(op, outcome, time.Since(start))
	if !res.OK() {
		c.logger.Warn("api request failed",
			"operation", op,
			"endpoint", endpoint,
			"outcome", outcome,
			"error", res.Error)
	}
	return res
}

func do[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (Result[T], string) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	requestURL := c.baseURL + endpoint
	if len(opts.Query) > 0 {
		requestURL += "?" + opts.Query.Encode()
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return Failure[T](fmt.Sprintf("failed to encode request: %v", err)), metrics.OutcomeTransportError
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return Failure[T](fmt.Sprintf("failed to create request: %v", err)), metrics.OutcomeTransportError
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Failure[T](err.Error()), metrics.OutcomeTransportError
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Failure[T](fmt.Sprintf("failed to read response: %v", err)), metrics.OutcomeTransportError
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Failure[T](errorMessage(resp.StatusCode, raw)), metrics.OutcomeHTTPError
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return Failure[T](fmt.Sprintf("failed to decode response: %v", err)), metrics.OutcomeTransportError
	}
	return Success(data), metrics.OutcomeSuccess
}

// errorMessage pulls a readable message out of a failed response.
// FastAPI puts it in "detail": either a string or a list of validation errors.
func errorMessage(status int, raw []byte) string {
	fallback := fmt.Sprintf("Error: %d %s", status, http.StatusText(status))

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return fallback
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		if detail == "" {
			return fallback
		}
		return detail
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallback
}
