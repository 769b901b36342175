// Bytesize formats byte counts as human-readable sizes and measures how many
// bytes data occupies once stored.
package bytesize

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownBase = errors.New("unknown base")
	ErrInvalidSize = errors.New("invalid size")
	ErrUnknownUnit = errors.New("unknown unit")
	ErrOverflow    = errors.New("size overflows 64 bits")
)

// Base selects the scale used between two consecutive units.
type Base uint8

const (
	// Decimal scales by powers of 1000 (SI style).
	Decimal Base = iota
	// Binary scales by powers of 1024, the way most operating systems display
	// sizes.
	Binary
)

// Threshold returns the factor between two consecutive units.
func (b Base) Threshold() uint64 {
	if b == Binary {
		return 1024
	}
	return 1000
}

func (b Base) String() string {
	switch b {
	case Decimal:
		return "decimal"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Base(%d)", uint8(b))
}

// ParseBase parses the name of a base. It accepts "decimal", "si" or "1000"
// and "binary", "iec" or "1024", ignoring case.
func ParseBase(s string) (Base, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "decimal", "si", "1000":
		return Decimal, nil
	case "binary", "iec", "1024":
		return Binary, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBase, s)
}

// Set implements flag.Value.
func (b *Base) Set(s string) error {
	v, err := ParseBase(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b Base) MarshalText() ([]byte, error) {
	if b != Decimal && b != Binary {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBase, uint8(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Base) UnmarshalText(text []byte) error {
	return b.Set(string(text))
}
