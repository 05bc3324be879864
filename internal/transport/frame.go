// Package transport implements the Framed Transport (C5): a 9-byte
// big-endian input frame carrying one triple, and a text-line output
// record, so the engine can be driven by bytes on one side and produce
// parseable records on the other. It never goes past byte framing — bit-
// level shift registers and clock-domain crossing are out of scope.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"goflix/pkg/types"
)

// FrameSize is the fixed length of one input frame in bytes:
// value(4) + row(2) + col(2) + flags(1).
const FrameSize = 9

const flagLast = 1 << 0

var (
	// ErrShortFrame is returned when a frame shorter than FrameSize is
	// read before end of stream.
	ErrShortFrame = errors.New("transport: short frame")
	// ErrReservedBits is returned when a flags byte sets any of the
	// reserved bits 1..7.
	ErrReservedBits = errors.New("transport: reserved flag bits set")
)

// DecodeFrame reads exactly one 9-byte frame from r and decodes it into a
// Triple. It returns io.EOF unmodified when r is exhausted before any
// bytes of the frame are read, and ErrShortFrame if the stream ends
// partway through a frame — the distinction lets a caller tell "clean
// end of stream" from "malformed frame".
func DecodeFrame(r io.Reader) (types.Triple, error) {
	var buf [FrameSize]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		if n == 0 && errors.Is(err, io.EOF) {
			return types.Triple{}, io.EOF
		}
		return types.Triple{}, fmt.Errorf("%w: %v", ErrShortFrame, err)
	}

	flags := buf[8]
	if flags&^flagLast != 0 {
		return types.Triple{}, ErrReservedBits
	}

	return types.Triple{
		Value: int32(binary.BigEndian.Uint32(buf[0:4])),
		Row:   binary.BigEndian.Uint16(buf[4:6]),
		Col:   binary.BigEndian.Uint16(buf[6:8]),
		Last:  flags&flagLast != 0,
	}, nil
}

// EncodeFrame writes t as a 9-byte frame to w.
func EncodeFrame(w io.Writer, t types.Triple) error {
	var buf [FrameSize]byte
	binary.BigEndian.PutUint32(buf[0:4], uint32(t.Value))
	binary.BigEndian.PutUint16(buf[4:6], t.Row)
	binary.BigEndian.PutUint16(buf[6:8], t.Col)
	if t.Last {
		buf[8] = flagLast
	}
	_, err := w.Write(buf[:])
	return err
}
