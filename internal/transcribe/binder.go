package transcribe

import (
	"encoding/json"

	"autosheetify/internal/services"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// MalformedDetail is the error detail for 2xx replies that are not a usable
// success payload.
const MalformedDetail = "malformed or non-success server response"

// Result is the display-ready record of a resolved submission. Treat it as
// immutable.
type Result struct {
	Status           string        `json:"status"`
	SheetURL         string        `json:"sheet_url,omitempty"`
	MidiURL          string        `json:"midi_url,omitempty"`
	OriginalFilename string        `json:"original_filename,omitempty"`
	ErrorDetail      string        `json:"error_detail,omitempty"`
	ErrorKind        services.Kind `json:"error_kind,omitempty"`
	RequestID        uint64        `json:"request_id"`
}

// Succeeded reports whether the result carries artifacts.
func (r Result) Succeeded() bool { return r.Status == StatusSuccess }

// Err reconstructs the classified error of a failed result.
func (r Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	marker := services.ErrNetwork
	switch r.ErrorKind {
	case services.KindServerLogic:
		return services.ErrMalformedResponse
	case services.KindHTTP:
		marker = services.ErrHTTP
	case services.KindAuth:
		marker = services.ErrAuth
	case services.KindValidation:
		marker = services.ErrValidation
	}
	return &resultError{marker: marker, detail: r.ErrorDetail}
}

type resultError struct {
	marker error
	detail string
}

func (e *resultError) Error() string { return e.detail }

func (e *resultError) Unwrap() error { return e.marker }

// Bind maps an outcome into a Result.
func Bind(o Outcome) Result {
	if o.Kind != OutcomeOK {
		err := o.Err()
		return Result{
			Status:      StatusError,
			ErrorDetail: err.Error(),
			ErrorKind:   services.KindOf(err),
			RequestID:   o.RequestID,
		}
	}

	malformed := Result{
		Status:      StatusError,
		ErrorDetail: MalformedDetail,
		ErrorKind:   services.KindServerLogic,
		RequestID:   o.RequestID,
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(o.Body, &fields); err != nil {
		return malformed
	}
	status, _ := stringField(fields, "status")
	sheet, sheetOK := stringField(fields, "sheet_url")
	midi, midiOK := stringField(fields, "midi_url")
	if status != StatusSuccess || !sheetOK || !midiOK || sheet == "" || midi == "" {
		return malformed
	}
	original, _ := stringField(fields, "original_filename")
	return Result{
		Status:           StatusSuccess,
		SheetURL:         sheet,
		MidiURL:          midi,
		OriginalFilename: original,
		RequestID:        o.RequestID,
	}
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}
