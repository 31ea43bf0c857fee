package artifacts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"autosheetify/internal/logging"
	"autosheetify/internal/services"
	"autosheetify/internal/textutil"
)

// HTTPDoer describes the HTTP client used for downloads.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// File is a downloaded artifact.
type File struct {
	Path string
	Size int64
}

// HumanSize renders Size for people.
func (f File) HumanSize() string {
	if f.Size < 0 {
		return "unknown"
	}
	return humanize.Bytes(uint64(f.Size))
}

// Set is the pair of artifacts produced by one transcription.
type Set struct {
	Sheet File
	Midi  File
}

// Downloader fetches artifacts relative to the service root.
type Downloader struct {
	base      *url.URL
	client    HTTPDoer
	userAgent string
	logger    *slog.Logger
}

// Option customizes a Downloader.
type Option func(*Downloader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(d *Downloader) {
		if client != nil {
			d.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// NewDownloader builds a downloader resolving relative URLs against baseURL.
func NewDownloader(baseURL string, opts ...Option) (*Downloader, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	d := &Downloader{base: base, client: http.DefaultClient, userAgent: "autosheetify"}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.NewComponentLogger(d.logger, "artifacts")
	return d, nil
}

// ResolveURL returns the absolute form of ref.
func (d *Downloader) ResolveURL(ref string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse artifact url %q: %w", ref, err)
	}
	if parsed.String() == "" {
		return "", fmt.Errorf("artifact url is empty")
	}
	if parsed.IsAbs() {
		return parsed.String(), nil
	}
	parsed.Path = strings.TrimPrefix(parsed.Path, "/")
	return d.base.ResolveReference(parsed).String(), nil
}

// FetchSet downloads the sheet and MIDI files for title into dir.
func (d *Downloader) FetchSet(ctx context.Context, title, sheetURL, midiURL, dir string) (Set, error) {
	sheet, err := d.Fetch(ctx, sheetURL, dir, title, ".pdf")
	if err != nil {
		return Set{}, err
	}
	midi, err := d.Fetch(ctx, midiURL, dir, title, ".mid")
	if err != nil {
		return Set{}, err
	}
	return Set{Sheet: sheet, Midi: midi}, nil
}

// Fetch downloads ref into dir as <name><ext>. The extension of the URL path
// wins over defaultExt.
func (d *Downloader) Fetch(ctx context.Context, ref, dir, name, defaultExt string) (File, error) {
	target, err := d.ResolveURL(ref)
	if err != nil {
		return File{}, err
	}
	dest := filepath.Join(dir, fileName(target, name, defaultExt))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("ensure download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return File{}, fmt.Errorf("build download request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return File{}, services.Wrap(services.ErrNetwork, "download", target, "", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return File{}, &services.HTTPStatusError{StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return File{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	written, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if copyErr != nil {
			return File{}, services.Wrap(services.ErrNetwork, "download", target, "read body", copyErr)
		}
		return File{}, fmt.Errorf("close temp file: %w", closeErr)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return File{}, fmt.Errorf("move download into place: %w", err)
	}

	file := File{Path: dest, Size: written}
	d.logger.Info("artifact downloaded",
		logging.String("path", dest),
		logging.String("size", file.HumanSize()),
	)
	return file, nil
}

func fileName(target, name, defaultExt string) string {
	ext := defaultExt
	if parsed, err := url.Parse(target); err == nil {
		if e := strings.ToLower(path.Ext(parsed.Path)); e == ".pdf" || e == ".mid" || e == ".midi" || e == ".musicxml" || e == ".xml" {
			ext = e
		}
	}
	base := textutil.SanitizeFileName(name)
	if base == "" {
		if parsed, err := url.Parse(target); err == nil {
			base = strings.TrimSuffix(path.Base(parsed.Path), path.Ext(parsed.Path))
		}
		base = textutil.SanitizeFileName(base)
	}
	if base == "" {
		base = "transcription"
	}
	return base + ext
}
