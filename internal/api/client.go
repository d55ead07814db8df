package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

const errorBodyReadLimit int64 = 4096

var errBaseURLRequired = errors.New("api base url is required")

// TokenSource supplies the bearer token attached to authorized requests.
// An empty token means the request goes out unauthenticated, matching the
// backend's own handling of anonymous calls.
type TokenSource func(ctx context.Context) string

// Client is the storefront's REST surface against the backend. It builds
// JSON (and, for uploads, multipart) requests against a fixed base URL and
// fails every non-2xx response with the server-provided message. There is
// no retry and no backoff; a transport failure surfaces immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource installs the bearer token provider.
func WithTokenSource(source TokenSource) Option {
	return func(c *Client) {
		if source != nil {
			c.token = source
		}
	}
}

// NewClient builds the backend client for the given base URL
// (including the API prefix, e.g. http://localhost:5000/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
		token:      func(context.Context) string { return "" },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// doJSON issues a JSON request and decodes the response into dest when
// dest is non-nil. withAuth controls the bearer header; anonymous
// endpoints suppress it explicitly, mirroring the backend contract.
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, dest any, withAuth bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return wrapInternal(err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint), reader)
	if err != nil {
		return wrapInternal(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if withAuth {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return c.execute(req, dest)
}

// doMultipart posts form fields plus an optional file as multipart form
// data. The generic JSON path is bypassed; only the bearer header rides
// along, the multipart writer sets the content type.
func (c *Client) doMultipart(ctx context.Context, method, endpoint string, fields map[string]string, file *FileUpload, dest any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return wrapInternal(err, "write form field")
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			return wrapInternal(err, "create form file")
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return wrapInternal(err, "copy upload content")
		}
	}
	if err := writer.Close(); err != nil {
		return wrapInternal(err, "finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint), &buf)
	if err != nil {
		return wrapInternal(err, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token := c.token(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.execute(req, dest)
}

func (c *Client) execute(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapTransport(err, fmt.Sprintf("%s %s", req.Method, req.URL.Path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return backendError(resp)
	}

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return wrapTransport(err, "decode response body")
	}
	return nil
}

func (c *Client) buildURL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// errorBody is the backend's error envelope ({"error": "..."}).
type errorBody struct {
	Error string `json:"error"`
}

func serverMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return body.Error
	}
	return fmt.Sprintf("HTTP error: %d", resp.StatusCode)
}
