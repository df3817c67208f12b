package zoomphone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"zpexport/pkg/config"
	errs "zpexport/pkg/errors"
	"zpexport/pkg/logger"
	"zpexport/pkg/retry"
)

// Client is a Zoom Phone API client. It authenticates every request with a
// bearer token and transparently walks next_page_token pagination on the
// listing endpoints.
type Client struct {
	httpClient       *http.Client
	server           string
	headers          map[string]string
	tokens           TokenSource
	rateLimitRetries int
	rateLimitPause   time.Duration
	sleep            retry.SleepFunc
	logger           logger.Logger
}

// NewClient creates a new API client with default retry settings
func NewClient(server string, tokens TokenSource, log logger.Logger) *Client {
	return NewClientWithConfig(server, tokens, 30*time.Second, nil, log)
}

// NewClientWithConfig creates a new API client with the given timeout and
// rate-limit retry configuration
func NewClientWithConfig(server string, tokens TokenSource, timeout time.Duration, retryCfg *config.RetryConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if server == "" {
		server = DefaultServer
	}

	retries := 5
	pause := time.Second
	if retryCfg != nil {
		retries = retryCfg.RateLimitRetries
		pause = retryCfg.RateLimitPause
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		server: server,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		tokens:           tokens,
		rateLimitRetries: retries,
		rateLimitPause:   pause,
		sleep:            retry.Wait,
		logger:           log,
	}
}

// SetHeader sets a custom header for the client
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// buildURL joins the server host, endpoint path and query parameters
func (c *Client) buildURL(path string, params url.Values) string {
	u := "https://" + c.server + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// doRequest performs an HTTP request with the configured headers and a
// bearer token from the token source
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeAuth,
				Message: fmt.Sprintf("failed to obtain bearer token: %v", err),
				Code:    0,
			}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, &errs.Error{
			Type:    errs.ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
			Code:    0,
		}
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// statusError maps a non-success HTTP status to a typed error
func statusError(statusCode int, u string) *errs.Error {
	var errType errs.ErrorType
	switch statusCode {
	case http.StatusTooManyRequests:
		errType = errs.ErrorTypeRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		errType = errs.ErrorTypeAuth
	case http.StatusNotFound:
		errType = errs.ErrorTypeNotFound
	default:
		if statusCode >= 500 {
			errType = errs.ErrorTypeServerError
		} else {
			errType = errs.ErrorTypeUnknown
		}
	}
	return &errs.Error{
		Type:    errType,
		Message: fmt.Sprintf("received status code %d on request %s", statusCode, u),
		Code:    statusCode,
	}
}

// isRateLimited reports whether err is a 429 rate-limit error. Only these
// are retried; any other failure surfaces immediately.
func isRateLimited(err error) bool {
	var apiErr *errs.Error
	return errors.As(err, &apiErr) && apiErr.Type == errs.ErrorTypeRateLimit
}

// retryConfig builds the bounded retry loop for rate-limited requests:
// a fixed pause between attempts, initial attempt plus rateLimitRetries
// retries, then a retries-exhausted failure.
func (c *Client) retryConfig() *retry.Config {
	return &retry.Config{
		MaxAttempts: c.rateLimitRetries + 1,
		Backoff:     &retry.ConstantBackoff{Delay: c.rateLimitPause},
		RetryIf:     isRateLimited,
		Context:     context.Background(),
		Sleep:       c.sleep,
		Logger:      c.logger,
	}
}

// getBody performs a GET against a full URL, retrying on 429, and returns
// the response body of the eventual 200
func (c *Client) getBody(u string) ([]byte, error) {
	var body []byte

	op := func() error {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return &errs.Error{
				Type:    errs.ErrorTypeUnknown,
				Message: fmt.Sprintf("failed to create request: %v", err),
				Code:    0,
			}
		}

		resp, err := c.doRequest(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return statusError(resp.StatusCode, u)
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &errs.Error{
				Type:    errs.ErrorTypeNetwork,
				Message: fmt.Sprintf("failed to read response body: %v", err),
				Code:    resp.StatusCode,
			}
		}
		return nil
	}

	if err := retry.Do(op, c.retryConfig()); err != nil {
		return nil, err
	}
	return body, nil
}

// GetRaw performs a GET against an endpoint path and decodes the single
// JSON object into target, with no array extraction or pagination
func (c *Client) GetRaw(path string, params url.Values, target interface{}) error {
	u := c.buildURL(path, params)

	body, err := c.getBody(u)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          u,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errs.Error{
			Type:    errs.ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse JSON: %v", err),
			Code:    http.StatusOK,
		}
	}

	return nil
}

// fetchAll performs a paginated GET: it extracts the named array field from
// each page and follows next_page_token until the cursor comes back empty,
// returning the concatenation of all pages in server order.
//
// The field must be present on the first page; a 200 response without it is
// a missing-data failure, never a silent empty result.
func fetchAll[T any](c *Client, path string, params url.Values, field string) ([]T, error) {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	out := []T{}
	token := ""
	page := 0

	for {
		page++
		if token != "" {
			query.Set("next_page_token", token)
		}

		body, err := c.getBody(c.buildURL(path, query))
		if err != nil {
			return nil, err
		}

		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeParsing,
				Message: fmt.Sprintf("failed to parse JSON: %v", err),
				Code:    http.StatusOK,
			}
		}

		raw, ok := envelope[field]
		if !ok && page == 1 {
			return nil, &errs.Error{
				Type:    errs.ErrorTypeMissingData,
				Message: fmt.Sprintf("no %s records in API response", field),
				Code:    http.StatusOK,
			}
		}
		if ok {
			var items []T
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, &errs.Error{
					Type:    errs.ErrorTypeParsing,
					Message: fmt.Sprintf("failed to parse %s field: %v", field, err),
					Code:    http.StatusOK,
				}
			}
			out = append(out, items...)
		}

		token = ""
		if rawToken, ok := envelope["next_page_token"]; ok {
			if err := json.Unmarshal(rawToken, &token); err != nil {
				return nil, &errs.Error{
					Type:    errs.ErrorTypeParsing,
					Message: fmt.Sprintf("failed to parse next_page_token: %v", err),
					Code:    http.StatusOK,
				}
			}
		}
		if token == "" {
			break
		}

		c.logger.DebugWithFields("following pagination cursor", map[string]interface{}{
			"path":  path,
			"field": field,
			"page":  page + 1,
		})
	}

	return out, nil
}

// Download performs an authenticated GET against an absolute URL, typically
// a recording download_url, and returns the response body verbatim
func (c *Client) Download(u string) ([]byte, error) {
	c.logger.DebugWithFields("downloading file", map[string]interface{}{
		"url": u,
	})

	data, err := c.getBody(u)
	if err != nil {
		c.logger.ErrorWithFields("failed to download file", map[string]interface{}{
			"url":   u,
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.DebugWithFields("successfully downloaded file", map[string]interface{}{
		"url":  u,
		"size": len(data),
	})

	return data, nil
}

// patch performs a PATCH against an endpoint path with a JSON payload,
// retrying on 429; 200 and 204 are both success
func (c *Client) patch(path string, params url.Values, payload interface{}) (int, error) {
	u := c.buildURL(path, params)

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, &errs.Error{
			Type:    errs.ErrorTypeUnknown,
			Message: fmt.Sprintf("failed to encode request payload: %v", err),
			Code:    0,
		}
	}

	var status int
	op := func() error {
		req, err := http.NewRequest(http.MethodPatch, u, bytes.NewReader(data))
		if err != nil {
			return &errs.Error{
				Type:    errs.ErrorTypeUnknown,
				Message: fmt.Sprintf("failed to create request: %v", err),
				Code:    0,
			}
		}

		resp, err := c.doRequest(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
			status = resp.StatusCode
			return nil
		}
		return statusError(resp.StatusCode, u)
	}

	if err := retry.Do(op, c.retryConfig()); err != nil {
		return 0, err
	}
	return status, nil
}
