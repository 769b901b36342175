package bytesize_test

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/OhanaFS/bytesize"
)

func TestFormatSmallValues(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("0 bytes", bytesize.Format(0, bytesize.Decimal))
	assert.Equal("0 bytes", bytesize.Format(0, bytesize.Binary))
	assert.Equal("500 bytes", bytesize.Format(500, bytesize.Decimal))
	assert.Equal("500 bytes", bytesize.Format(500, bytesize.Binary))
	assert.Equal("999 bytes", bytesize.Format(999, bytesize.Decimal))
	assert.Equal("1023 bytes", bytesize.Format(1023, bytesize.Binary))
}

func TestFormatThresholds(t *testing.T) {
	tests := []struct {
		bytes uint64
		base  bytesize.Base
		want  string
	}{
		{1000, bytesize.Decimal, "1.00 KB"},
		{1000, bytesize.Binary, "1000 bytes"},
		{1024, bytesize.Binary, "1.00 KB"},
		{1024, bytesize.Decimal, "1.02 KB"},
		{1536, bytesize.Binary, "1.50 KB"},
		{2500, bytesize.Decimal, "2.50 KB"},
		{2500, bytesize.Binary, "2.44 KB"},
		{999_999, bytesize.Decimal, "1000.00 KB"},
		{999_999, bytesize.Binary, "976.56 KB"},
		{1024 * 1024, bytesize.Binary, "1.00 MB"},
		{5_000_000_000, bytesize.Decimal, "5.00 GB"},
		{6_888_837_399, bytesize.Decimal, "6.89 GB"},
		{6_888_837_399, bytesize.Binary, "6.42 GB"},
		{6_888_822_237_399, bytesize.Decimal, "6.89 TB"},
		{6_888_822_237_399, bytesize.Binary, "6.27 TB"},
		{1 << 50, bytesize.Binary, "1.00 PB"},
		{1 << 50, bytesize.Decimal, "1.13 PB"},
	}

	for _, tt := range tests {
		got := bytesize.Format(tt.bytes, tt.base)
		if got != tt.want {
			t.Errorf("Format(%d, %s) = %q, want %q", tt.bytes, tt.base, got, tt.want)
		}
	}
}

func TestFormatSaturatesAtPetabytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("1000.00 PB", bytesize.FormatDecimal(1_000_000_000_000_000_000))
	assert.Equal("888.18 PB", bytesize.FormatBinary(1_000_000_000_000_000_000))
	assert.Equal("18446.74 PB", bytesize.FormatDecimal(math.MaxUint64))
	assert.Equal("16384.00 PB", bytesize.FormatBinary(math.MaxUint64))
}

func TestFormatHelpers(t *testing.T) {
	assert := assert.New(t)

	for _, v := range []uint64{0, 1, 999, 1000, 1023, 1024, 123456789, math.MaxUint64} {
		assert.Equal(bytesize.Format(v, bytesize.Decimal), bytesize.FormatDecimal(v))
		assert.Equal(bytesize.Format(v, bytesize.Binary), bytesize.FormatBinary(v))
		assert.Equal(bytesize.Scale(v, bytesize.Binary).String(), bytesize.FormatBinary(v))
	}
}

func TestScaleUnitIndex(t *testing.T) {
	for _, base := range []bytesize.Base{bytesize.Decimal, bytesize.Binary} {
		threshold := float64(base.Threshold())
		for _, v := range []uint64{1, 7, 999, 1000, 1023, 1024, 65535, 1 << 20, 3_000_000_000, 1 << 40, 1 << 49} {
			s := bytesize.Scale(v, base)
			scaled := float64(v) / math.Pow(threshold, float64(s.Unit))
			assert.GreaterOrEqual(t, scaled, 1.0, "%d in %s", v, base)
			assert.Less(t, scaled, threshold, "%d in %s", v, base)
			assert.InDelta(t, scaled, s.Magnitude, scaled*1e-12)
		}

		top := bytesize.Scale(math.MaxUint64, base)
		assert.Equal(t, bytesize.MaxUnit, top.Unit)
		assert.GreaterOrEqual(t, top.Magnitude, threshold)
	}
}

func TestFormatMonotonicWithinUnit(t *testing.T) {
	for _, base := range []bytesize.Base{bytesize.Decimal, bytesize.Binary} {
		prev := bytesize.Scale(base.Threshold(), base)
		for v := base.Threshold() + 1; v < 5_000_000; v += 997 {
			cur := bytesize.Scale(v, base)
			if cur.Unit == prev.Unit && cur.Magnitude < prev.Magnitude {
				t.Fatalf("%s: magnitude of %d (%f) is below %d (%f)", base, v, cur.Magnitude, prev.Bytes, prev.Magnitude)
			}
			assert.GreaterOrEqual(t, int(cur.Unit), int(prev.Unit))

			// The printed magnitude must agree with the numeric one.
			fields := strings.Fields(cur.String())
			assert.Equal(t, strconv.FormatFloat(cur.Magnitude, 'f', 2, 64), fields[0])
			prev = cur
		}
	}
}

func TestFormatConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if got := bytesize.FormatBinary(1024 * 1024); got != "1.00 MB" {
					t.Errorf("FormatBinary = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestUnits(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]string{"bytes", "KB", "MB", "GB", "TB", "PB"}, bytesize.Units())

	// The returned slice is a copy.
	labels := bytesize.Units()
	labels[1] = "kb"
	assert.Equal("KB", bytesize.Kilobytes.String())

	assert.Equal("PB", bytesize.MaxUnit.String())
	assert.Equal("Unit(9)", bytesize.Unit(9).String())
	assert.Equal(uint64(1), bytesize.Bytes.Multiplier(bytesize.Binary))
	assert.Equal(uint64(1_000_000), bytesize.Megabytes.Multiplier(bytesize.Decimal))
	assert.Equal(uint64(1<<50), bytesize.Petabytes.Multiplier(bytesize.Binary))
}
