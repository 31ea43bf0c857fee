package transcribe

import (
	"context"
	"errors"
	"net"

	"autosheetify/internal/services"
)

// OutcomeKind classifies a finished request.
type OutcomeKind int

const (
	OutcomeOK OutcomeKind = iota
	OutcomeNetworkError
	OutcomeHTTPError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeHTTPError:
		return "http_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one Execute call, tagged with its request id.
type Outcome struct {
	RequestID  uint64
	Kind       OutcomeKind
	Body       []byte
	StatusCode int
	Cause      error
}

// Ok builds a successful outcome carrying the raw response body.
func Ok(requestID uint64, body []byte) Outcome {
	return Outcome{RequestID: requestID, Kind: OutcomeOK, Body: body}
}

// NetworkFailure builds an outcome for a request that never produced a response.
func NetworkFailure(requestID uint64, cause error) Outcome {
	return Outcome{RequestID: requestID, Kind: OutcomeNetworkError, Cause: cause}
}

// HTTPFailure builds an outcome for a non-2xx response.
func HTTPFailure(requestID uint64, statusCode int, body string) Outcome {
	return Outcome{
		RequestID:  requestID,
		Kind:       OutcomeHTTPError,
		StatusCode: statusCode,
		Body:       []byte(body),
	}
}

// Err returns the classified error for failed outcomes and nil for OK ones.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeOK:
		return nil
	case OutcomeHTTPError:
		return &services.HTTPStatusError{StatusCode: o.StatusCode, Body: string(o.Body)}
	default:
		return services.Wrap(services.ErrNetwork, "", "", networkCause(o.Cause), nil)
	}
}

func networkCause(err error) string {
	if err == nil {
		return "request failed"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "request timed out"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "request timed out"
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	return err.Error()
}
