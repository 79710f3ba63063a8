package daemon

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Service defines the daemon operations downlink relies on.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	FetchTasks(ctx context.Context) ([]Task, error)
	StreamEvents(ctx context.Context, onEvent func(Event), onMalformed func(error)) error
	Command(ctx context.Context, action Action, taskIDs []string) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// ErrStreamClosed is returned when the daemon ends the event stream.
var ErrStreamClosed = errors.New("event stream closed by daemon")

// Client talks to the download daemon's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	stream    *http.Client
	userAgent string
}

const (
	defaultAPIBind   = "127.0.0.1:7788"
	defaultUserAgent = "downlink/0.1"
	requestTimeout   = 5 * time.Second
	maxEventLine     = 1024 * 1024
)

// NewClient builds a Client using the provided apiBind host:port value.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		// The event stream is long-lived; it ends with the context.
		stream:    &http.Client{},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the resolved daemon address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchTasks retrieves every task the daemon currently knows about.
func (c *Client) FetchTasks(ctx context.Context) ([]Task, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tasks, nil
}

// Command asks the daemon to apply action to the given tasks.
func (c *Client) Command(ctx context.Context, action Action, taskIDs []string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if len(taskIDs) == 0 {
		return nil
	}
	switch action {
	case ActionPause, ActionResume, ActionDelete, ActionRestart:
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	body, err := json.Marshal(commandRequest{TaskIDs: taskIDs})
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/api/tasks/"+string(action), body, nil)
}

// StreamEvents reads newline-delimited events from /api/events until ctx is
// cancelled or the connection drops. Lines that fail to decode are reported
// to onMalformed (when non-nil) and skipped. It always returns a non-nil
// error; ctx.Err() after cancellation.
func (c *Client) StreamEvents(ctx context.Context, onEvent func(Event), onMalformed func(error)) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/api/events"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.stream.Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api /api/events returned status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			if onMalformed != nil {
				onMalformed(fmt.Errorf("decode event: %w", err))
			}
			continue
		}
		onEvent(ev)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return ErrStreamClosed
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.String(), resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
