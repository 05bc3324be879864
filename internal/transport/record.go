package transport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"goflix/pkg/types"
)

// EncodeRecord writes rec as the text line "row,col,value\n". Integer
// formatting is the resolved choice between the two historical wire
// formats (decimal-real vs. decimal-integer) — see DESIGN.md.
func EncodeRecord(w io.Writer, rec types.OutputRecord) error {
	_, err := fmt.Fprintf(w, "%d,%d,%d\n", rec.Row, rec.Col, rec.Value)
	return err
}

// ParseRecord parses one output record line. It tolerates a trailing
// newline and, for compatibility with a decimal-real producer, a value
// field written with a fractional part (e.g. "5,33,10.0"), which is
// truncated toward zero.
func ParseRecord(line string) (types.OutputRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return types.OutputRecord{}, fmt.Errorf("transport: malformed record %q", line)
	}

	row, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return types.OutputRecord{}, fmt.Errorf("transport: bad row in %q: %w", line, err)
	}
	col, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return types.OutputRecord{}, fmt.Errorf("transport: bad col in %q: %w", line, err)
	}
	value, err := parseValue(parts[2])
	if err != nil {
		return types.OutputRecord{}, fmt.Errorf("transport: bad value in %q: %w", line, err)
	}

	return types.OutputRecord{Row: uint16(row), Col: uint16(col), Value: value}, nil
}

func parseValue(s string) (int32, error) {
	if i, err := strconv.ParseInt(s, 10, 32); err == nil {
		return int32(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int32(f), nil
}
