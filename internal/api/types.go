package api

import (
	"autosheetify/internal/input"
	"autosheetify/internal/library"
	"autosheetify/internal/orchestrator"
	"autosheetify/internal/transcribe"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// State describes the orchestrator state in a transport-friendly format.
type State struct {
	Phase         string  `json:"phase"`
	Submitting    bool    `json:"submitting"`
	CanSubmit     bool    `json:"canSubmit"`
	Instrument    string  `json:"instrument"`
	Input         Input   `json:"input"`
	Result        *Result `json:"result,omitempty"`
	RequestID     uint64  `json:"requestId,omitempty"`
	CorrelationID string  `json:"correlationId,omitempty"`
	Version       uint64  `json:"version"`
}

// Input mirrors the active input selection.
type Input struct {
	Kind string `json:"kind"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Result mirrors a bound transcription result.
type Result struct {
	Status           string `json:"status"`
	SheetURL         string `json:"sheetUrl,omitempty"`
	MidiURL          string `json:"midiUrl,omitempty"`
	OriginalFilename string `json:"originalFilename,omitempty"`
	ErrorDetail      string `json:"errorDetail,omitempty"`
	ErrorKind        string `json:"errorKind,omitempty"`
}

// LibraryEntry describes a saved transcription.
type LibraryEntry struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	OriginalFilename string `json:"originalFilename,omitempty"`
	Instrument       string `json:"instrument"`
	SourceKind       string `json:"sourceKind"`
	SourceRef        string `json:"sourceRef,omitempty"`
	SheetURL         string `json:"sheetUrl"`
	MidiURL          string `json:"midiUrl"`
	Downloaded       bool   `json:"downloaded"`
	CreatedAt        string `json:"createdAt,omitempty"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// FromState converts a machine snapshot. canSubmit reflects the auth gate.
func FromState(state orchestrator.State, canSubmit bool) State {
	out := State{
		Phase:         string(state.Phase),
		Submitting:    state.Phase == orchestrator.PhaseSubmitting,
		CanSubmit:     canSubmit && state.Phase != orchestrator.PhaseSubmitting && state.Input.Kind != input.KindNone.String(),
		Instrument:    state.Instrument.String(),
		Input:         fromSummary(state.Input),
		RequestID:     state.RequestID,
		CorrelationID: state.CorrelationID,
		Version:       state.Version,
	}
	if state.Result != nil {
		out.Result = FromResult(*state.Result)
	}
	return out
}

// FromResult converts a bound result.
func FromResult(result transcribe.Result) *Result {
	return &Result{
		Status:           result.Status,
		SheetURL:         result.SheetURL,
		MidiURL:          result.MidiURL,
		OriginalFilename: result.OriginalFilename,
		ErrorDetail:      result.ErrorDetail,
		ErrorKind:        string(result.ErrorKind),
	}
}

// FromEntry converts a library entry.
func FromEntry(entry *library.Entry) LibraryEntry {
	if entry == nil {
		return LibraryEntry{}
	}
	out := LibraryEntry{
		ID:               entry.ID,
		Title:            entry.Title,
		OriginalFilename: entry.OriginalFilename,
		Instrument:       entry.Instrument,
		SourceKind:       entry.SourceKind,
		SourceRef:        entry.SourceRef,
		SheetURL:         entry.SheetURL,
		MidiURL:          entry.MidiURL,
		Downloaded:       entry.Downloaded(),
	}
	if !entry.CreatedAt.IsZero() {
		out.CreatedAt = entry.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return out
}

func fromSummary(summary input.Summary) Input {
	kind := summary.Kind
	if kind == "" {
		kind = input.KindNone.String()
	}
	return Input{Kind: kind, Name: summary.Name, Size: summary.Size, URL: summary.URL}
}
