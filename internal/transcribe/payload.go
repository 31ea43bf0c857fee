package transcribe

import (
	"fmt"
	"io"
	"mime/multipart"

	"autosheetify/internal/input"
	"autosheetify/internal/services"
)

// Multipart field names understood by the transcription service.
const (
	FieldFile       = "file"
	FieldURL        = "youtube_url"
	FieldInstrument = "instrument"
)

// Request is one submission attempt.
type Request struct {
	Source     input.Source
	Instrument Instrument
	ID         uint64
}

// Payload is a transport-ready submission. File content is only read when
// the payload is written.
type Payload struct {
	Field      string
	File       input.File
	URL        string
	Instrument Instrument
	RequestID  uint64
}

// Build converts a source and instrument into a payload. It performs no I/O.
func Build(source input.Source, instrument Instrument) (Payload, error) {
	switch source.Kind() {
	case input.KindFile:
		f, _ := source.File()
		return Payload{Field: FieldFile, File: f, Instrument: instrument}, nil
	case input.KindURL:
		u, _ := source.URL()
		return Payload{Field: FieldURL, URL: u, Instrument: instrument}, nil
	default:
		return Payload{}, services.ErrNoInput
	}
}

// BuildRequest is Build for a Request; the payload carries the request id.
func BuildRequest(req Request) (Payload, error) {
	payload, err := Build(req.Source, req.Instrument)
	if err != nil {
		return Payload{}, err
	}
	payload.RequestID = req.ID
	return payload, nil
}

// WriteMultipart encodes the payload into w. The caller closes w.
func (p Payload) WriteMultipart(w *multipart.Writer) error {
	switch p.Field {
	case FieldFile:
		part, err := w.CreateFormFile(FieldFile, p.File.Name)
		if err != nil {
			return fmt.Errorf("create file part: %w", err)
		}
		rc, err := p.File.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", p.File.Name, err)
		}
		defer rc.Close()
		if _, err := io.Copy(part, rc); err != nil {
			return fmt.Errorf("copy %s: %w", p.File.Name, err)
		}
	case FieldURL:
		if err := w.WriteField(FieldURL, p.URL); err != nil {
			return fmt.Errorf("write url field: %w", err)
		}
	default:
		return services.ErrNoInput
	}
	if err := w.WriteField(FieldInstrument, p.Instrument.String()); err != nil {
		return fmt.Errorf("write instrument field: %w", err)
	}
	return nil
}

// DisplayName labels the payload in logs.
func (p Payload) DisplayName() string {
	if p.Field == FieldFile {
		return p.File.Name
	}
	return p.URL
}
