// Package client talks to the vim-fmi exercise server.
package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/user"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/mod/semver"
)

// ErrClientOutdated is returned by CheckVersion when a task needs a newer client.
var ErrClientOutdated = errors.New("client is older than the task requires")

// User is the account solutions are submitted as.
type User struct {
	ID            uint32 `json:"id"`
	FacultyNumber string `json:"faculty_number"`
	Token         string `json:"token"`
}

// Task is an exercise: edit Input until it becomes Output.
type Task struct {
	Input   string `json:"input"`
	Output  string `json:"output"`
	Version string `json:"version"`
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client is an HTTP client for one server.
type Client struct {
	host      *url.URL
	http      *http.Client
	logger    *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithVersion sets the client version reported in the User-Agent.
func WithVersion(v string) Option {
	return func(c *Client) { c.userAgent = "vim-fmi-cli/" + v }
}

// New returns a Client for the server at host.
func New(host string, opts ...Option) (*Client, error) {
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse host: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("host %q is not an absolute URL", host)
	}

	c := &Client{
		host:      u,
		http:      &http.Client{Timeout: 30 * time.Second},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		userAgent: "vim-fmi-cli",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetupUser activates token and returns the user it belongs to.
func (c *Client) SetupUser(ctx context.Context, token string) (*User, error) {
	form := url.Values{
		"token": {token},
		"meta":  {Meta()},
	}

	var u User
	if err := c.do(ctx, http.MethodPost, "/api/setup.json", form, &u); err != nil {
		return nil, fmt.Errorf("setup user: %w", err)
	}
	return &u, nil
}

// DownloadTask fetches the task with the given id.
func (c *Client) DownloadTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	path := "/api/task/" + id + ".json"
	if err := c.do(ctx, http.MethodGet, path, nil, &t); err != nil {
		return nil, fmt.Errorf("download task %s: %w", id, err)
	}
	return &t, nil
}

// Upload submits the raw keylog of a solution to taskID.
func (c *Client) Upload(ctx context.Context, taskID, userToken string, keylog []byte) error {
	form := url.Values{
		"entry":        {base64.StdEncoding.EncodeToString(keylog)},
		"challenge_id": {taskID},
		"user_token":   {userToken},
		"meta":         {Meta()},
	}
	if err := c.do(ctx, http.MethodPost, "/api/solution.json", form, nil); err != nil {
		return fmt.Errorf("upload solution: %w", err)
	}
	return nil
}

// do sends a request and decodes a JSON body into out, unless out is nil.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, out any) error {
	endpoint := c.host.ResolveReference(&url.URL{Path: path})

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("request done",
		"method", method,
		"path", endpoint.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	} else {
		apiErr.Message = body.Message
	}
	return apiErr
}

// Meta describes the machine a request comes from, as a JSON object.
func Meta() string {
	meta := map[string]string{
		"username":   "",
		"devicename": "",
		"platform":   platform(),
	}
	if u, err := user.Current(); err == nil {
		meta["username"] = u.Username
	}
	if host, err := os.Hostname(); err == nil {
		meta["devicename"] = host
	}
	data, _ := json.Marshal(meta)
	return string(data)
}

func platform() string {
	switch runtime.GOOS {
	case "darwin":
		return "Mac OS"
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

// CheckVersion reports ErrClientOutdated when required is a higher semantic
// version than current. Versions may omit the leading "v". An empty or
// malformed required version is accepted.
func CheckVersion(current, required string) error {
	req := canonical(required)
	if !semver.IsValid(req) {
		return nil
	}
	cur := canonical(current)
	if !semver.IsValid(cur) {
		return nil
	}
	if semver.Compare(cur, req) < 0 {
		return fmt.Errorf("%w: have %s, need %s", ErrClientOutdated, current, required)
	}
	return nil
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
