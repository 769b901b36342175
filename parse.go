package bytesize

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// unitAliases maps lower-cased labels to units. The base of a parsed size is
// chosen by the caller, so "kb" and "kib" mean the same thing here.
var unitAliases = map[string]Unit{
	"":      Bytes,
	"b":     Bytes,
	"byte":  Bytes,
	"bytes": Bytes,
	"k":     Kilobytes,
	"kb":    Kilobytes,
	"kib":   Kilobytes,
	"m":     Megabytes,
	"mb":    Megabytes,
	"mib":   Megabytes,
	"g":     Gigabytes,
	"gb":    Gigabytes,
	"gib":   Gigabytes,
	"t":     Terabytes,
	"tb":    Terabytes,
	"tib":   Terabytes,
	"p":     Petabytes,
	"pb":    Petabytes,
	"pib":   Petabytes,
}

// ParseUnit looks up a unit by its label, ignoring case.
func ParseUnit(label string) (Unit, error) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, label)
	}
	return u, nil
}

// Parse converts a human-readable size such as "1.50 KB", "10MB" or
// "500 bytes" back into a byte count. The unit is optional and defaults to
// bytes. Fractional results are rounded to the nearest byte.
func Parse(s string, base Base) (uint64, error) {
	str := strings.TrimSpace(s)
	if str == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}

	split := strings.IndexFunc(str, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	number, label := str, ""
	if split >= 0 {
		number, label = str[:split], str[split:]
	}
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	unit, err := ParseUnit(label)
	if err != nil {
		return 0, err
	}
	multiplier := unit.Multiplier(base)

	// Whole numbers are multiplied exactly so that values near the top of the
	// uint64 range survive.
	if !strings.Contains(number, ".") {
		n, err := strconv.ParseUint(number, 10, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
			}
			return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}
		hi, lo := bits.Mul64(n, multiplier)
		if hi != 0 {
			return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
		}
		return lo, nil
	}

	f, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	total := math.Round(f * float64(multiplier))
	if total >= math.Exp2(64) {
		return 0, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	return uint64(total), nil
}

// MustParse is like Parse but panics if s cannot be parsed. It is meant for
// constants and flag defaults.
func MustParse(s string, base Base) uint64 {
	n, err := Parse(s, base)
	if err != nil {
		panic(err)
	}
	return n
}
