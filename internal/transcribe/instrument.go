package transcribe

import (
	"fmt"
	"strings"

	"autosheetify/internal/services"
)

// Instrument selects the notation target. The zero value is Piano.
type Instrument int

const (
	Piano Instrument = iota
	Guitar
)

// Instruments lists every supported instrument in display order.
func Instruments() []Instrument { return []Instrument{Piano, Guitar} }

// String returns the wire form.
func (i Instrument) String() string {
	switch i {
	case Guitar:
		return "guitar"
	default:
		return "piano"
	}
}

// ParseInstrument accepts the wire form, case-insensitively. An empty value
// yields Piano.
func ParseInstrument(value string) (Instrument, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "piano":
		return Piano, nil
	case "guitar":
		return Guitar, nil
	default:
		return Piano, fmt.Errorf("%w: unknown instrument %q (want piano or guitar)", services.ErrValidation, value)
	}
}

func (i Instrument) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Instrument) UnmarshalText(text []byte) error {
	parsed, err := ParseInstrument(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
