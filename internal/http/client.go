package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/concourse-client/internal/constants"
	"github.com/fivetwenty-io/concourse-client/pkg/concourse"
)

// Authenticator attaches authentication headers to a request. It returns a
// new request and leaves its argument untouched.
type Authenticator interface {
	Intercept(ctx context.Context, req *concourse.Request) (*concourse.Request, error)
}

// Client is the HTTP client for the Concourse API.
type Client struct {
	baseURL       string
	httpClient    *retryablehttp.Client
	authenticator Authenticator
	interceptors  *concourse.InterceptorChain
	logger        concourse.Logger
	userAgent     string
	debug         bool
}

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a logger.
func WithLogger(logger concourse.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig sets the retry bounds.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithHTTPClient replaces the underlying retrying client.
func WithHTTPClient(httpClient *retryablehttp.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithInterceptors sets the interceptor chain run after authentication.
func WithInterceptors(chain *concourse.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewRetryableClient returns a retrying client with the default bounds and
// stdlib logging disabled. The final response is returned when retries run
// out so callers can inspect the status.
func NewRetryableClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = constants.LowRetryMax
	client.RetryWaitMin = constants.DefaultRetryWaitMin
	client.RetryWaitMax = constants.DefaultRetryWaitMax
	client.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return client
}

// NewClient creates a client for baseURL. A nil authenticator sends requests
// without credentials.
func NewClient(baseURL string, authenticator Authenticator, opts ...Option) *Client {
	client := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    NewRetryableClient(),
		authenticator: authenticator,
		userAgent:     constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Do sends a request. Non-2xx responses are returned together with a
// *concourse.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	outgoing, err := c.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	requestURL := c.baseURL + outgoing.Path
	if len(req.Query) > 0 {
		requestURL += "?" + req.Query.Encode()
	}

	var body interface{}
	if outgoing.Body != nil {
		body = outgoing.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, outgoing.Method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header = outgoing.Headers

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": outgoing.Method,
			"url":    requestURL,
		})
	}

	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status":   httpResp.StatusCode,
			"duration": time.Since(start).String(),
			"size":     len(respBody),
		})
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	var apiErr error
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr = concourse.NewAPIError(outgoing.Method, outgoing.Path, httpResp.StatusCode, respBody)
	}

	if c.interceptors != nil {
		intercepted := &concourse.Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Headers,
			Body:       resp.Body,
			Error:      apiErr,
		}

		err = c.interceptors.ExecuteResponseInterceptors(ctx, outgoing, intercepted)
		if err != nil {
			return resp, err
		}
	}

	if apiErr != nil {
		return resp, apiErr
	}

	return resp, nil
}

// prepare encodes the body, sets default headers, authenticates and runs the
// request interceptors.
func (c *Client) prepare(ctx context.Context, req *Request) (*concourse.Request, error) {
	outgoing := &concourse.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
	}

	outgoing.Headers.Set("Accept", "application/json")

	if c.userAgent != "" {
		outgoing.Headers.Set("User-Agent", c.userAgent)
	}

	if req.Body != nil {
		switch body := req.Body.(type) {
		case []byte:
			outgoing.Body = body
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("marshaling request body: %w", err)
			}

			outgoing.Body = encoded
			outgoing.Headers.Set("Content-Type", "application/json")
		}
	}

	for key, value := range req.Headers {
		outgoing.Headers.Set(key, value)
	}

	if c.authenticator != nil {
		authenticated, err := c.authenticator.Intercept(ctx, outgoing)
		if err != nil {
			return nil, fmt.Errorf("authenticating request: %w", err)
		}

		outgoing = authenticated
	}

	if c.interceptors != nil {
		err := c.interceptors.ExecuteRequestInterceptors(ctx, outgoing)
		if err != nil {
			return nil, err
		}
	}

	return outgoing, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}
