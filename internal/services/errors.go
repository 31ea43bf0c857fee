package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrAuth        = errors.New("auth error")
	ErrNetwork     = errors.New("network error")
	ErrHTTP        = errors.New("http error")
	ErrServerLogic = errors.New("server logic error")
)

var (
	// ErrNoInput is returned when a submission has neither a file nor a URL.
	ErrNoInput = fmt.Errorf("%w: no input provided", ErrValidation)
	// ErrInvalidURL is returned for URLs that are not recognised media links.
	ErrInvalidURL = fmt.Errorf("%w: invalid media url", ErrValidation)
	// ErrUnsupportedMedia is returned for files the service cannot transcribe.
	ErrUnsupportedMedia = fmt.Errorf("%w: unsupported media file", ErrValidation)
	// ErrNotAuthenticated is returned when no valid session is available.
	ErrNotAuthenticated = fmt.Errorf("%w: not authenticated", ErrAuth)
	// ErrMalformedResponse marks a 2xx reply that is not a usable success payload.
	ErrMalformedResponse = fmt.Errorf("%w: malformed or non-success server response", ErrServerLogic)
)

// Kind names an error class for presentation.
type Kind string

const (
	KindNone        Kind = ""
	KindValidation  Kind = "validation"
	KindAuth        Kind = "auth"
	KindNetwork     Kind = "network"
	KindHTTP        Kind = "http"
	KindServerLogic Kind = "server_logic"
)

// HTTPStatusError carries a non-2xx reply from the transcription service.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	status = strings.TrimSpace(status)
	if e.Body == "" {
		return fmt.Sprintf("server returned %s", status)
	}
	return fmt.Sprintf("server returned %s: %s", status, e.Body)
}

// Is lets errors.Is(err, ErrHTTP) match status errors.
func (e *HTTPStatusError) Is(target error) bool {
	return target == ErrHTTP
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrNetwork
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// KindOf maps an error to the class rendered in a Failed state.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrAuth):
		return KindAuth
	case errors.Is(err, ErrHTTP):
		return KindHTTP
	case errors.Is(err, ErrServerLogic):
		return KindServerLogic
	default:
		return KindNetwork
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
