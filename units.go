package bytesize

import "fmt"

// Unit is the scale exponent of a size. Bytes is exponent 0.
type Unit uint8

const (
	Bytes Unit = iota
	Kilobytes
	Megabytes
	Gigabytes
	Terabytes
	Petabytes
)

// MaxUnit is the largest unit. Scaling saturates here.
const MaxUnit = Petabytes

var unitLabels = [...]string{"bytes", "KB", "MB", "GB", "TB", "PB"}

// Units returns the unit labels, indexed by Unit.
func Units() []string {
	labels := make([]string, len(unitLabels))
	copy(labels, unitLabels[:])
	return labels
}

func (u Unit) String() string {
	if u > MaxUnit {
		return fmt.Sprintf("Unit(%d)", uint8(u))
	}
	return unitLabels[u]
}

// Multiplier returns the number of bytes in one u under the given base. The
// result always fits in a uint64.
func (u Unit) Multiplier(base Base) uint64 {
	m := uint64(1)
	for i := Unit(0); i < u && i < MaxUnit; i++ {
		m *= base.Threshold()
	}
	return m
}
