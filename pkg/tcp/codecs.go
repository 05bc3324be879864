// Package tcp implements the control-plane wire codec shared by the
// coordinator and its producer/consumer clients: a 4-byte big-endian
// length prefix followed by a JSON body. It never carries the engine's
// own data-plane frames — those are framed separately by
// internal/transport, which trades JSON's flexibility for a fixed
// 9-byte layout once a connection has been handed off to streaming.
package tcp

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"goflix/pkg/types"
)

// maxMessageSize bounds the length prefix so a corrupt or hostile peer
// can't make ReadMessage allocate an unbounded buffer.
const maxMessageSize = 1 << 20

// WriteMessage sends msg as a length-prefixed JSON body.
func WriteMessage(conn net.Conn, msg types.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("tcp: marshal message: %w", err)
	}

	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := conn.Write(length); err != nil {
		return fmt.Errorf("tcp: write length: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("tcp: write body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed JSON message from conn.
func ReadMessage(conn net.Conn) (types.Message, error) {
	var msg types.Message

	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(conn, lenBuf); err != nil {
		return msg, err
	}
	length := binary.BigEndian.Uint32(lenBuf)
	if length > maxMessageSize {
		return msg, fmt.Errorf("tcp: message of %d bytes exceeds limit", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(conn, data); err != nil {
		return msg, fmt.Errorf("tcp: read body: %w", err)
	}

	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("tcp: unmarshal body: %w", err)
	}
	return msg, nil
}
