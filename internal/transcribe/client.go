package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"autosheetify/internal/logging"
	"autosheetify/internal/services"
)

const (
	// DefaultTimeout bounds a whole transcription round trip. Server-side
	// transcription of long media takes minutes.
	DefaultTimeout = 600 * time.Second

	maxResponseBytes  = 4 << 20
	maxErrorBodyRunes = 300
)

// HTTPDoer describes the HTTP client used to reach the service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Executor performs one transcription request.
type Executor interface {
	Execute(ctx context.Context, payload Payload, authHeader string, requestID uint64) Outcome
}

// Client is the HTTP Executor for the transcription service.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	userAgent  string
	timeout    time.Duration
	logger     *slog.Logger
	strip      *bluemonday.Policy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the per-request timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = strings.TrimSpace(ua)
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient constructs a client for the service rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		userAgent:  "autosheetify",
		timeout:    DefaultTimeout,
		strip:      bluemonday.StrictPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "transcribe")
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Execute issues a single multipart POST to {base}/transcribe. The body is
// streamed so large files are never held in memory.
func (c *Client) Execute(ctx context.Context, payload Payload, authHeader string, requestID uint64) Outcome {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	logger := logging.WithContext(ctx, c.logger)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	writeDone := make(chan error, 1)
	go func() {
		err := payload.WriteMultipart(mw)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
		writeDone <- err
	}()
	defer func() {
		_ = pr.Close()
		<-writeDone
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", pr)
	if err != nil {
		return NetworkFailure(requestID, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	logger.Debug("transcription request sent",
		logging.String("field", payload.Field),
		logging.String(logging.FieldSource, payload.DisplayName()),
		logging.String(logging.FieldInstrument, payload.Instrument.String()),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		select {
		case werr := <-writeDone:
			writeDone <- werr
			if werr != nil && !errors.Is(werr, io.ErrClosedPipe) {
				err = fmt.Errorf("upload %s: %w", payload.DisplayName(), werr)
			}
		default:
		}
		logger.Debug("transcription request failed", logging.Error(err), logging.Duration("elapsed", time.Since(started)))
		return NetworkFailure(requestID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return NetworkFailure(requestID, fmt.Errorf("read response: %w", err))
	}
	logger.Debug("transcription response received",
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(started)),
	)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return HTTPFailure(requestID, resp.StatusCode, c.summarizeErrorBody(body))
	}
	return Ok(requestID, body)
}

// summarizeErrorBody reduces an error response to one readable line. FastAPI
// detail payloads are unwrapped and HTML error pages are stripped to text.
func (c *Client) summarizeErrorBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}
	if detail, ok := fastAPIDetail(body); ok {
		return truncate(detail)
	}
	if strings.HasPrefix(trimmed, "<") {
		trimmed = html.UnescapeString(c.strip.Sanitize(trimmed))
	}
	return truncate(strings.Join(strings.Fields(trimmed), " "))
}

func fastAPIDetail(body []byte) (string, bool) {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return "", false
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return strings.TrimSpace(text), true
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil && len(items) > 0 {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			msg := strings.TrimSpace(item.Msg)
			if len(item.Loc) > 0 {
				msg = fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], msg)
			}
			msgs = append(msgs, msg)
		}
		return strings.Join(msgs, "; "), true
	}
	return strings.TrimSpace(string(envelope.Detail)), true
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= maxErrorBodyRunes {
		return value
	}
	return string(runes[:maxErrorBodyRunes]) + "..."
}

var _ Executor = (*Client)(nil)

// classify is shared by the non-transcribe endpoints.
func (c *Client) classify(stage string, resp *http.Response, err error) error {
	if err != nil {
		return services.Wrap(services.ErrNetwork, stage, "", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return &services.HTTPStatusError{StatusCode: resp.StatusCode, Body: c.summarizeErrorBody(body)}
	}
	return nil
}
