// Package nio implements the ServiceStore port over the nio REST API.
package nio

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/example/annotate/internal/core/document"
	"github.com/example/annotate/internal/ports/secondary"
)

var (
	// ErrHostEmpty is returned when the client is configured without a host.
	ErrHostEmpty = errors.New("nio host is required")
	// ErrTransport is returned when a request could not be built, sent or read.
	ErrTransport = errors.New("nio request failed")
	// ErrUnexpectedPayload is returned when a response body is not the expected JSON.
	ErrUnexpectedPayload = errors.New("nio returned an unexpected payload")
)

const (
	servicesPath  = "/services"
	errWrappedFmt = "%w: %s"

	// DefaultTimeout bounds each request when no HTTP client is supplied.
	DefaultTimeout = 30 * time.Second
)

// RemoteError is returned when nio answers with a status outside [200,300).
type RemoteError struct {
	StatusCode int
	Status     string
}

func (e *RemoteError) Error() string {
	if e.Status != "" {
		return e.Status
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// statusText strips the numeric code from an HTTP status line, keeping the
// reason phrase the server sent.
func statusText(code int, status string) string {
	text := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}

// ClientConfig contains the settings of a Client.
type ClientConfig struct {
	// Host is the nio base URL (i.e. http://127.0.0.1:8181).
	Host string

	// Auth is a user:pass pair sent as Basic authorization.
	// (Optional) Empty sends no Authorization header.
	Auth string

	// Timeout bounds each request of the default HTTP client.
	// (Optional) Defaults to DefaultTimeout. Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient is used to send requests.
	// (Optional) Defaults to a client with Timeout.
	HTTPClient *http.Client

	// Logger to be used by the client.
	// (Optional) Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client talks to the services endpoints of a nio instance.
type Client struct {
	client  *http.Client
	baseURL string
	auth    string
	logger  *zap.Logger
}

// Ensure Client implements the interface
var _ secondary.ServiceStore = (*Client)(nil)

type response struct {
	Body   []byte
	Code   int
	Status string
}

// NewClient creates a Client from config.
func NewClient(config ClientConfig) (*Client, error) {
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	var auth string
	if config.Auth != "" {
		auth = "Basic " + base64.StdEncoding.EncodeToString([]byte(config.Auth))
	}

	return &Client{
		client:  config.HTTPClient,
		baseURL: strings.TrimRight(config.Host, "/") + servicesPath,
		auth:    auth,
		logger:  config.Logger,
	}, nil
}

// ListServices returns the keys of the services index.
func (c *Client) ListServices(ctx context.Context) ([]string, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp, "ListServices"); err != nil {
		return nil, err
	}

	index := gjson.ParseBytes(resp.Body)
	if !index.IsObject() {
		return nil, fmt.Errorf("ListServices: %w: expected a JSON object", ErrUnexpectedPayload)
	}

	var names []string
	index.ForEach(func(key, _ gjson.Result) bool {
		names = append(names, key.String())
		return true
	})
	return names, nil
}

// FetchService retrieves the configuration document of a service.
func (c *Client) FetchService(ctx context.Context, name string) (*document.Document, error) {
	resp, err := c.sendRequest(ctx, http.MethodGet, c.serviceURL(name), nil)
	if err != nil {
		return nil, err
	}
	if err := c.checkStatus(resp, "FetchService"); err != nil {
		return nil, err
	}

	doc, err := document.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("FetchService: %w", err)
	}
	return doc, nil
}

// PutService replaces the configuration document of a service.
func (c *Client) PutService(ctx context.Context, name string, doc *document.Document) error {
	resp, err := c.sendRequest(ctx, http.MethodPut, c.serviceURL(name), bytes.NewReader(doc.Bytes()))
	if err != nil {
		return err
	}
	return c.checkStatus(resp, "PutService")
}

func (c *Client) serviceURL(name string) string {
	return c.baseURL + "/" + url.PathEscape(name)
}

func (c *Client) checkStatus(resp response, op string) error {
	if resp.Code >= http.StatusOK && resp.Code < http.StatusMultipleChoices {
		return nil
	}
	c.logger.Error("nio responded with a non-successful status code",
		zap.String("op", op), zap.Int("code", resp.Code), zap.ByteString("body", truncate(resp.Body, 512)))
	return &RemoteError{StatusCode: resp.Code, Status: statusText(resp.Code, resp.Status)}
}

func (c *Client) sendRequest(ctx context.Context, method, target string, body io.Reader) (response, error) {
	r, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return response{}, fmt.Errorf(errWrappedFmt, ErrTransport, err.Error())
	}
	if c.auth != "" {
		r.Header.Set("Authorization", c.auth)
	}
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	r.Header.Set("Accept", "application/json")

	logger := c.logger.With(zap.String("request", uuid.NewString()))
	logger.Debug("sending request", zap.String("method", method), zap.String("url", target))
	start := time.Now()
	resp, err := c.client.Do(r)
	if err != nil {
		return response{}, fmt.Errorf(errWrappedFmt, ErrTransport, err.Error())
	}
	defer resp.Body.Close()

	out := response{Code: resp.StatusCode, Status: resp.Status}
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, fmt.Errorf(errWrappedFmt, ErrTransport, err.Error())
	}
	out.Body = bodyBytes

	logger.Debug("received response",
		zap.String("method", method), zap.String("url", target),
		zap.Int("code", resp.StatusCode), zap.Int("bytes", len(bodyBytes)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

func validateConfig(config *ClientConfig) error {
	if config.Host == "" {
		return ErrHostEmpty
	}

	if config.HTTPClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		config.HTTPClient = &http.Client{Timeout: timeout}
	}

	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return nil
}
