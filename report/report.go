// Package report renders size listings as text, JSON, YAML, msgpack or a
// table.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/footprint"
)

var ErrUnknownFormat = errors.New("unknown format")

type FormatType string

const (
	Text    FormatType = "text"
	JSON    FormatType = "json"
	YAML    FormatType = "yaml"
	Table   FormatType = "table"
	MsgPack FormatType = "msgpack"
)

// ParseFormatType validates the name of an output format.
func ParseFormatType(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML, Table, MsgPack:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Set implements flag.Value.
func (f *FormatType) Set(s string) error {
	v, err := ParseFormatType(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f FormatType) String() string {
	return string(f)
}

// Entry is one line of a report.
type Entry struct {
	Path  string `json:"path" yaml:"path" msgpack:"path"`
	Bytes uint64 `json:"bytes" yaml:"bytes" msgpack:"bytes"`
	// Size is Bytes formatted for display.
	Size string `json:"size" yaml:"size" msgpack:"size"`
	// Estimate is set when the footprint of the entry was measured.
	Estimate *footprint.Estimate `json:"footprint,omitempty" yaml:"footprint,omitempty" msgpack:"footprint,omitempty"`

	base bytesize.Base
}

// NewEntry creates an entry whose Size is formatted in the given base.
func NewEntry(path string, bytes uint64, base bytesize.Base) Entry {
	return Entry{Path: path, Bytes: bytes, Size: bytesize.Format(bytes, base), base: base}
}

// WithEstimate returns a copy of e carrying the given footprint.
func (e Entry) WithEstimate(est *footprint.Estimate) Entry {
	e.Estimate = est
	return e
}

func (e Entry) String() string {
	if e.Estimate == nil {
		return fmt.Sprintf("%s\t%s", e.Size, e.Path)
	}
	s := e.Estimate.Sizes(e.base)
	return fmt.Sprintf("%s\t%s\t(zstd %s, seekable %s, sharded %s)",
		e.Size, e.Path, s.Compressed, s.Seekable, s.Sharded)
}

func (e Entry) TableHeaders() []string {
	if e.Estimate == nil {
		return []string{"Path", "Bytes", "Size"}
	}
	return []string{"Path", "Bytes", "Size", "Zstd", "Seekable", "Encrypted", "Sharded", "Per shard", "Ratio"}
}

func (e Entry) TableRow() []string {
	row := []string{e.Path, strconv.FormatUint(e.Bytes, 10), e.Size}
	if e.Estimate == nil {
		return row
	}
	s := e.Estimate.Sizes(e.base)
	return append(row, s.Compressed, s.Seekable, s.Encrypted, s.Sharded, s.ShardSize,
		strconv.FormatFloat(e.Estimate.Ratio(), 'f', 3, 64))
}

// Format renders entries in the given format.
func Format(entries []Entry, format FormatType) ([]byte, error) {
	switch format {
	case Text:
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.String())
		}
		return []byte(strings.Join(lines, "\n") + "\n"), nil
	case JSON:
		return json.MarshalIndent(entries, "", "  ")
	case YAML:
		return yaml.Marshal(entries)
	case MsgPack:
		return msgpack.Marshal(entries)
	case Table:
		var tableData [][]string
		for _, e := range entries {
			tableData = append(tableData, e.TableRow())
		}

		buffer := new(bytes.Buffer)
		table := tablewriter.NewWriter(buffer)
		if len(entries) > 0 {
			table.SetHeader(entries[0].TableHeaders())
		}
		table.SetBorder(true)
		table.SetAutoWrapText(false)
		table.AppendBulk(tableData)
		table.Render()

		return buffer.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, format)
	}
}

// Total sums the sizes and footprints of entries into a single entry.
func Total(entries []Entry, base bytesize.Base) Entry {
	var bytes uint64
	var est *footprint.Estimate
	for _, e := range entries {
		bytes += e.Bytes
		if e.Estimate != nil {
			if est == nil {
				est = &footprint.Estimate{}
			}
			est.Add(e.Estimate)
		}
	}
	return NewEntry("total", bytes, base).WithEstimate(est)
}
