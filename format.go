package bytesize

import "fmt"

// Size is a byte count tagged with the unit it is displayed in.
type Size struct {
	// Bytes is the exact byte count.
	Bytes uint64
	// Magnitude is Bytes expressed in Unit.
	Magnitude float64
	// Unit is the largest unit, up to MaxUnit, that keeps Magnitude >= 1.
	Unit Unit
	// Base is the base Unit was chosen in.
	Base Base
}

// String renders whole bytes as an integer and every other unit with two
// decimals, e.g. "999 bytes" or "1.02 KB".
func (s Size) String() string {
	if s.Unit == Bytes {
		return fmt.Sprintf("%d bytes", s.Bytes)
	}
	return fmt.Sprintf("%.2f %s", s.Magnitude, s.Unit)
}

// Scale picks the unit bytes is displayed in. The magnitude is divided by the
// base threshold until it drops below the threshold or the unit reaches
// MaxUnit.
func Scale(bytes uint64, base Base) Size {
	threshold := base.Threshold()
	s := Size{Bytes: bytes, Magnitude: float64(bytes), Unit: Bytes, Base: base}
	if bytes < threshold {
		return s
	}

	t := float64(threshold)
	for s.Magnitude >= t && s.Unit < MaxUnit {
		s.Magnitude /= t
		s.Unit++
	}
	return s
}

// Format returns a human-readable representation of bytes in the given base.
func Format(bytes uint64, base Base) string {
	return Scale(bytes, base).String()
}

// FormatDecimal formats bytes using powers of 1000.
func FormatDecimal(bytes uint64) string {
	return Format(bytes, Decimal)
}

// FormatBinary formats bytes using powers of 1024.
func FormatBinary(bytes uint64) string {
	return Format(bytes, Binary)
}
