package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

const jsonContentType = "application/json"

func emptyObject() json.RawMessage {
	return json.RawMessage(`{}`)
}

// TokenSource supplies the bearer token for authenticated requests.
type TokenSource interface {
	Token() (string, bool)
}

// HTTPClient talks to the rentdesk REST API. Every call performs exactly
// one request and reports every failure as *APIError. Safe for concurrent
// use.
type HTTPClient struct {
	baseURL   string
	tokens    TokenSource
	http      *http.Client
	logger    logging.Logger
	requestID func() string
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default http.Client. It should not set a
// Timeout; latency is bounded by the caller's context.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.http = c }
}

func WithLogger(l logging.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient builds a client for baseURL, e.g. "http://localhost:8000/api".
// tokens may be nil, in which case no request is authenticated.
func NewHTTPClient(baseURL string, tokens TokenSource, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		tokens:    tokens,
		http:      &http.Client{},
		logger:    logging.Nop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestConfig struct {
	requiresAuth bool
	query        url.Values
}

// RequestOption tunes a single call.
type RequestOption func(*requestConfig)

// WithoutAuth sends the request without an Authorization header even when
// a token is available.
func WithoutAuth() RequestOption {
	return func(rc *requestConfig) { rc.requiresAuth = false }
}

// WithQuery appends v to the request URL.
func WithQuery(v url.Values) RequestOption {
	return func(rc *requestConfig) { rc.query = v }
}

func newRequestConfig(opts []RequestOption) requestConfig {
	rc := requestConfig{requiresAuth: true}
	for _, opt := range opts {
		opt(&rc)
	}
	return rc
}

func (c *HTTPClient) Get(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodGet, path, nil, opts)
}

func (c *HTTPClient) Post(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body, opts)
}

func (c *HTTPClient) Put(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body, opts)
}

func (c *HTTPClient) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodPatch, path, body, opts)
}

func (c *HTTPClient) Delete(ctx context.Context, path string, opts ...RequestOption) (json.RawMessage, error) {
	return c.sendJSON(ctx, http.MethodDelete, path, nil, opts)
}

// UploadFile POSTs form as multipart/form-data.
func (c *HTTPClient) UploadFile(ctx context.Context, path string, form *Form, opts ...RequestOption) (json.RawMessage, error) {
	if form == nil {
		form = NewForm()
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, body, contentType, newRequestConfig(opts))
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, path string, body any, opts []RequestOption) (json.RawMessage, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		r = bytes.NewReader(b)
	}
	return c.do(ctx, method, path, r, jsonContentType, newRequestConfig(opts))
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, rc requestConfig) (json.RawMessage, error) {
	reqID := c.requestID()
	log := c.logger.With("method", method, "path", path, "request_id", reqID)

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, rc.query), body)
	if err != nil {
		log.Warn(ctx, "build request failed", "error", err)
		return nil, transportError(err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", jsonContentType)
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if rc.requiresAuth && c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn(ctx, "read response failed", "status", resp.StatusCode, "error", err)
		return nil, transportError(err)
	}
	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := httpError(resp.StatusCode, data)
		log.Warn(ctx, "request rejected", "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return emptyObject(), nil
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return emptyObject(), nil
	}
	var out json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		log.Warn(ctx, invalidJSONMessage, "status", resp.StatusCode, "error", err)
		return nil, transportError(fmt.Errorf("%s: %w", invalidJSONMessage, err))
	}
	return out, nil
}

func (c *HTTPClient) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) == 0 {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + query.Encode()
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == jsonContentType || strings.HasSuffix(mt, "+json")
}

type validator interface {
	Validate() error
}

// Decode unmarshals the result of an HTTPClient call into T and runs its
// Validate method, if any. A non-nil err is returned unchanged.
//
//	apt, err := client.Decode[models.Apartment](c.Get(ctx, "/Appartements/"+id+"/"))
func Decode[T any](raw json.RawMessage, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	if v, ok := any(&out).(validator); ok {
		if err := v.Validate(); err != nil {
			return out, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
		}
	}
	return out, nil
}
