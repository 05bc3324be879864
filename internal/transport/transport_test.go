package transport_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"goflix/internal/transport"
	"goflix/pkg/types"
)

func TestFrameRoundTrip(t *testing.T) {
	in := types.Triple{Value: -42, Row: 3, Col: 2047, Last: true}
	var buf bytes.Buffer
	require.NoError(t, transport.EncodeFrame(&buf, in))
	require.Equal(t, transport.FrameSize, buf.Len())

	got, err := transport.DecodeFrame(&buf)
	require.NoError(t, err)
	require.Equal(t, in, got)
}

func TestDecodeFrameEOFAtBoundary(t *testing.T) {
	_, err := transport.DecodeFrame(bytes.NewReader(nil))
	require.ErrorIs(t, err, io.EOF)
}

func TestDecodeFrameShort(t *testing.T) {
	_, err := transport.DecodeFrame(bytes.NewReader(make([]byte, 4)))
	require.Error(t, err)
}

func TestDecodeFrameReservedBits(t *testing.T) {
	buf := make([]byte, transport.FrameSize)
	buf[8] = 0x02 // reserved bit set
	_, err := transport.DecodeFrame(bytes.NewReader(buf))
	require.ErrorIs(t, err, transport.ErrReservedBits)
}

func TestRecordRoundTrip(t *testing.T) {
	rec := types.OutputRecord{Row: 1, Col: 256, Value: -294_967_296}
	var buf bytes.Buffer
	require.NoError(t, transport.EncodeRecord(&buf, rec))
	require.Equal(t, "1,256,-294967296\n", buf.String())

	got, err := transport.ParseRecord(buf.String())
	require.NoError(t, err)
	require.Equal(t, rec, got)
}

func TestParseRecordTolerantOfDecimalReal(t *testing.T) {
	got, err := transport.ParseRecord("0,5,33.0\n")
	require.NoError(t, err)
	require.Equal(t, types.OutputRecord{Row: 0, Col: 5, Value: 33}, got)
}

func TestParseRecordMalformed(t *testing.T) {
	_, err := transport.ParseRecord("not,a,record,line")
	require.Error(t, err)
}
