package api

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/youzill/bvtc-desktop/internal/logging"
)

// Client talks to the BVTC backend. The base URL and timeout are fixed at
// construction; the cookie jar carries the NetEase session across calls,
// including the SSE stream which reuses the same underlying http.Client.
type Client struct {
	rc      *resty.Client
	baseURL string
}

// NewClient creates a backend client for the given base URL (including the
// API prefix, e.g. "http://host:8080/bvtc/api")
func NewClient(baseURL string, timeout time.Duration) *Client {
	jar, _ := cookiejar.New(nil)

	base := strings.TrimRight(baseURL, "/")
	rc := resty.New().
		SetBaseURL(base).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetCookieJar(jar)

	return &Client{rc: rc, baseURL: base}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying http.Client so the SSE stream shares
// the session cookie jar and transport
func (c *Client) HTTPClient() *http.Client {
	return c.rc.GetClient()
}

// envelope is the backend's uniform response wrapper
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// decode unwraps an envelope response into out. A non-200 envelope code
// becomes an *APIError regardless of the HTTP status the backend chose.
func decode(resp *resty.Response, out any) error {
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		logging.Logger.Error("malformed backend response",
			logging.Int("http_status", resp.StatusCode()),
			logging.Err(err))
		return &APIError{Code: resp.StatusCode(), Msg: http.StatusText(resp.StatusCode())}
	}
	if env.Code != http.StatusOK {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &APIError{Code: env.Code, Msg: "unexpected response payload"}
		}
	}
	return nil
}
