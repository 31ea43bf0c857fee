package transcribe_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"autosheetify/internal/services"
	"autosheetify/internal/transcribe"
)

func TestBindSuccess(t *testing.T) {
	body := []byte(`{"status":"success","sheet_url":"https://x/sheet.pdf","midi_url":"https://x/song.mid","original_filename":"song.mp3"}`)
	got := transcribe.Bind(transcribe.Ok(9, body))
	want := transcribe.Result{
		Status:           transcribe.StatusSuccess,
		SheetURL:         "https://x/sheet.pdf",
		MidiURL:          "https://x/song.mid",
		OriginalFilename: "song.mp3",
		RequestID:        9,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Bind mismatch (-want +got):\n%s", diff)
	}
	if got.Err() != nil {
		t.Fatalf("expected nil Err, got %v", got.Err())
	}
}

func TestBindMalformed(t *testing.T) {
	bodies := []string{
		`{"status":"error"}`,
		`{"status":"success","sheet_url":"https://x/sheet.pdf"}`,
		`{"status":"success","sheet_url":"","midi_url":"https://x/song.mid"}`,
		`{"status":"success","sheet_url":42,"midi_url":"https://x/song.mid"}`,
		`{"status":"processing","sheet_url":"a","midi_url":"b"}`,
		`not json`,
		`[]`,
		``,
	}
	for _, body := range bodies {
		got := transcribe.Bind(transcribe.Ok(1, []byte(body)))
		if got.Status != transcribe.StatusError {
			t.Fatalf("body %q: status = %q", body, got.Status)
		}
		if got.ErrorDetail != transcribe.MalformedDetail {
			t.Fatalf("body %q: detail = %q", body, got.ErrorDetail)
		}
		if got.ErrorKind != services.KindServerLogic {
			t.Fatalf("body %q: kind = %q", body, got.ErrorKind)
		}
		if !errors.Is(got.Err(), services.ErrServerLogic) {
			t.Fatalf("body %q: Err = %v", body, got.Err())
		}
	}
}

func TestBindFailures(t *testing.T) {
	tests := []struct {
		name       string
		outcome    transcribe.Outcome
		wantKind   services.Kind
		wantDetail string
		wantMarker error
	}{
		{
			name:       "timeout",
			outcome:    transcribe.NetworkFailure(4, fmt.Errorf("post: %w", context.DeadlineExceeded)),
			wantKind:   services.KindNetwork,
			wantDetail: "network error: request timed out",
			wantMarker: services.ErrNetwork,
		},
		{
			name:       "refused",
			outcome:    transcribe.NetworkFailure(4, errors.New("dial tcp: connection refused")),
			wantKind:   services.KindNetwork,
			wantDetail: "network error: dial tcp: connection refused",
			wantMarker: services.ErrNetwork,
		},
		{
			name:       "unauthorized",
			outcome:    transcribe.HTTPFailure(4, http.StatusUnauthorized, "Invalid token"),
			wantKind:   services.KindHTTP,
			wantDetail: "server returned 401 Unauthorized: Invalid token",
			wantMarker: services.ErrHTTP,
		},
		{
			name:       "server error without body",
			outcome:    transcribe.HTTPFailure(4, http.StatusInternalServerError, ""),
			wantKind:   services.KindHTTP,
			wantDetail: "server returned 500 Internal Server Error",
			wantMarker: services.ErrHTTP,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := transcribe.Bind(tc.outcome)
			if got.Status != transcribe.StatusError || got.RequestID != 4 {
				t.Fatalf("unexpected result %+v", got)
			}
			if got.ErrorKind != tc.wantKind {
				t.Fatalf("kind = %q want %q", got.ErrorKind, tc.wantKind)
			}
			if got.ErrorDetail != tc.wantDetail {
				t.Fatalf("detail = %q want %q", got.ErrorDetail, tc.wantDetail)
			}
			if !errors.Is(got.Err(), tc.wantMarker) {
				t.Fatalf("Err() = %v, want marker %v", got.Err(), tc.wantMarker)
			}
			if got.Err().Error() != tc.wantDetail {
				t.Fatalf("Err().Error() = %q", got.Err().Error())
			}
		})
	}
}
