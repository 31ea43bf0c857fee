package transcribe_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"autosheetify/internal/services"
	"autosheetify/internal/transcribe"
)

func TestExecuteSendsMultipartFileWithBearer(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/transcribe" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "autosheetify/test" {
			t.Errorf("User-Agent = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("instrument"); got != "guitar" {
			t.Errorf("instrument = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
		} else {
			data, _ := io.ReadAll(f)
			f.Close()
			if hdr.Filename != "song.wav" || string(data) != "RIFFDATA" {
				t.Errorf("unexpected upload %q %q", hdr.Filename, data)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success","sheet_url":"/static/a.pdf","midi_url":"/static/a.mid","original_filename":"song.wav"}`)
	}))
	defer srv.Close()

	client := transcribe.NewClient(srv.URL+"/", transcribe.WithUserAgent("autosheetify/test"), transcribe.WithHTTPClient(srv.Client()))
	payload, err := transcribe.Build(fileSource(t, "song.wav", []byte("RIFFDATA")), transcribe.Guitar)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	outcome := client.Execute(context.Background(), payload, "Bearer tok", 11)
	if outcome.Kind != transcribe.OutcomeOK {
		t.Fatalf("outcome kind = %v cause=%v status=%d", outcome.Kind, outcome.Cause, outcome.StatusCode)
	}
	if outcome.RequestID != 11 {
		t.Fatalf("request id = %d", outcome.RequestID)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected exactly one call, got %d", calls.Load())
	}
	if res := transcribe.Bind(outcome); !res.Succeeded() || res.SheetURL != "/static/a.pdf" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestExecuteSendsURLField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("youtube_url"); got != "https://youtu.be/dQw4w9WgXcQ" {
			t.Errorf("youtube_url = %q", got)
		}
		if got := r.FormValue("instrument"); got != "piano" {
			t.Errorf("instrument = %q", got)
		}
		_, _ = io.WriteString(w, `{"status":"success","sheet_url":"s","midi_url":"m","original_filename":"Never Gonna"}`)
	}))
	defer srv.Close()

	client := transcribe.NewClient(srv.URL)
	payload, err := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	outcome := client.Execute(context.Background(), payload, "Bearer tok", 1)
	if outcome.Kind != transcribe.OutcomeOK {
		t.Fatalf("outcome = %+v", outcome)
	}
}

func TestExecuteUnwrapsFastAPIDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Invalid or expired token"}`)
	}))
	defer srv.Close()

	payload, _ := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	outcome := transcribe.NewClient(srv.URL).Execute(context.Background(), payload, "Bearer bad", 2)
	if outcome.Kind != transcribe.OutcomeHTTPError || outcome.StatusCode != http.StatusUnauthorized {
		t.Fatalf("outcome = %+v", outcome)
	}
	if string(outcome.Body) != "Invalid or expired token" {
		t.Fatalf("body = %q", outcome.Body)
	}
	var statusErr *services.HTTPStatusError
	if !errors.As(outcome.Err(), &statusErr) || statusErr.StatusCode != 401 {
		t.Fatalf("Err = %v", outcome.Err())
	}
}

func TestExecuteSummarizesValidationDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":[{"loc":["body","instrument"],"msg":"field required","type":"value_error.missing"}]}`)
	}))
	defer srv.Close()

	payload, _ := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	outcome := transcribe.NewClient(srv.URL).Execute(context.Background(), payload, "Bearer tok", 2)
	if string(outcome.Body) != "instrument: field required" {
		t.Fatalf("body = %q", outcome.Body)
	}
}

func TestExecuteStripsHTMLErrorPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html><head><title>502 Bad Gateway</title></head><body><h1>Bad &amp; Gateway</h1><script>alert(1)</script></body></html>")
	}))
	defer srv.Close()

	payload, _ := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	outcome := transcribe.NewClient(srv.URL).Execute(context.Background(), payload, "Bearer tok", 5)
	if outcome.Kind != transcribe.OutcomeHTTPError {
		t.Fatalf("outcome = %+v", outcome)
	}
	body := string(outcome.Body)
	if strings.Contains(body, "<") || strings.Contains(body, "alert") {
		t.Fatalf("expected stripped body, got %q", body)
	}
	if !strings.Contains(body, "Bad & Gateway") {
		t.Fatalf("expected text content, got %q", body)
	}
}

func TestExecuteTimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	client := transcribe.NewClient(srv.URL, transcribe.WithTimeout(50*time.Millisecond))
	payload, _ := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	outcome := client.Execute(context.Background(), payload, "Bearer tok", 8)
	if outcome.Kind != transcribe.OutcomeNetworkError {
		t.Fatalf("outcome = %+v", outcome)
	}
	if outcome.RequestID != 8 {
		t.Fatalf("request id = %d", outcome.RequestID)
	}
	res := transcribe.Bind(outcome)
	if res.ErrorDetail != "network error: request timed out" {
		t.Fatalf("detail = %q", res.ErrorDetail)
	}
}

func TestExecuteConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	payload, _ := transcribe.Build(urlSource(t, "https://youtu.be/dQw4w9WgXcQ"), transcribe.Piano)
	outcome := transcribe.NewClient(base).Execute(context.Background(), payload, "Bearer tok", 3)
	if outcome.Kind != transcribe.OutcomeNetworkError {
		t.Fatalf("outcome = %+v", outcome)
	}
	if !errors.Is(outcome.Err(), services.ErrNetwork) {
		t.Fatalf("Err = %v", outcome.Err())
	}
}

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Not authenticated"}`)
			return
		}
		_, _ = io.WriteString(w, `{"history":[{"file":"song.mp3","sheet_url":"/static/song.pdf","timestamp":"2025-07-16T12:00:00"}]}`)
	}))
	defer srv.Close()

	client := transcribe.NewClient(srv.URL)
	entries, err := client.History(context.Background(), "Bearer tok")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 1 || entries[0].File != "song.mp3" {
		t.Fatalf("entries = %+v", entries)
	}
	ts, ok := entries[0].Time()
	if !ok || !ts.Equal(time.Date(2025, 7, 16, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("Time() = %v, %v", ts, ok)
	}

	_, err = client.History(context.Background(), "Bearer nope")
	var statusErr *services.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized || statusErr.Body != "Not authenticated" {
		t.Fatalf("expected 401 status error, got %v", err)
	}
}
