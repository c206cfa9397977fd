// Package avatar wraps the D-ID talking-head API. Rendering is
// asynchronous upstream: CreateTalk returns a handle immediately and
// GetTalk polls its status; the initiating call never blocks on
// completion.
package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/companion-labs/companion/pkg/errx"
	"github.com/companion-labs/companion/pkg/logx"
)

const (
	defaultBaseURL   = "https://api.d-id.com"
	defaultSourceURL = "presenter_1"
	defaultTimeout   = 30 * time.Second
)

// Talk statuses reported by D-ID.
const (
	StatusCreated  = "created"
	StatusStarted  = "started"
	StatusDone     = "done"
	StatusError    = "error"
	StatusRejected = "rejected"
)

// Talk is the handle to a rendering job.
type Talk struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"result_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Pending reports whether rendering is still in progress.
func (t *Talk) Pending() bool {
	return t.Status == StatusCreated || t.Status == StatusStarted
}

// Ready reports whether the rendered video is available at ResultURL.
func (t *Talk) Ready() bool {
	return t.Status == StatusDone
}

// Failed reports whether rendering failed upstream.
func (t *Talk) Failed() bool {
	return t.Status == StatusError || t.Status == StatusRejected
}

// Config configures the client. Zero values are filled with defaults.
type Config struct {
	APIKey    string
	BaseURL   string
	SourceURL string
	Timeout   time.Duration
}

// Client calls the D-ID API.
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates an avatar client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	if config.SourceURL == "" {
		config.SourceURL = defaultSourceURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	logx.WithFields(logx.Fields{
		"base_url":   config.BaseURL,
		"source_url": config.SourceURL,
	}).Debug("Avatar client created")

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type createTalkRequest struct {
	Script talkScript `json:"script"`
	Source talkSource `json:"source"`
	Config talkConfig `json:"config"`
}

type talkScript struct {
	Type  string `json:"type"`
	Input string `json:"input"`
}

type talkSource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type talkConfig struct {
	Fluent   bool    `json:"fluent"`
	PadAudio float64 `json:"pad_audio"`
}

// CreateTalk submits a rendering job for the given text and source image.
// An empty sourceURL falls back to the configured default presenter.
func (c *Client) CreateTalk(ctx context.Context, text, sourceURL string) (*Talk, error) {
	if sourceURL == "" {
		sourceURL = c.config.SourceURL
	}

	body, err := json.Marshal(createTalkRequest{
		Script: talkScript{Type: "text", Input: text},
		Source: talkSource{Type: "image", URL: sourceURL},
		Config: talkConfig{Fluent: true, PadAudio: 0.1},
	})
	if err != nil {
		return nil, NewRenderFailedError(fmt.Errorf("marshaling request: %w", err))
	}

	logx.WithFields(logx.Fields{
		"source_url":  sourceURL,
		"text_length": len(text),
	}).Debug("Submitting talk rendering job")

	talk, err := c.do(ctx, http.MethodPost, "/talks", body, NewRenderFailedError)
	if err != nil {
		return nil, err
	}

	logx.WithFields(logx.Fields{
		"talk_id": talk.ID,
		"status":  talk.Status,
	}).Debug("Talk rendering job created")

	return talk, nil
}

// GetTalk polls the status of a rendering job.
func (c *Client) GetTalk(ctx context.Context, id string) (*Talk, error) {
	return c.do(ctx, http.MethodGet, "/talks/"+id, nil, NewStatusFailedError)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, wrap func(error) *errx.Error) (*Talk, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, wrap(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Authorization", "Basic "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, NewTimeoutError(err)
		}
		return nil, wrap(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap(fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, raw, wrap)
	}

	var talk Talk
	if err := json.Unmarshal(raw, &talk); err != nil {
		return nil, wrap(fmt.Errorf("decoding response: %w", err))
	}

	return &talk, nil
}

func classifyStatus(status int, body []byte, wrap func(error) *errx.Error) error {
	detail := string(body)

	switch {
	case status == http.StatusTooManyRequests:
		return NewRateLimitedError(detail)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewUnauthorizedError(detail)
	default:
		return wrap(fmt.Errorf("unexpected status %d: %s", status, detail))
	}
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
