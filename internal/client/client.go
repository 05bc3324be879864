// Package client implements the producer/consumer side of the control-
// plane handshake: send HELLO, wait for ACK, then hand the connection
// off to data-plane framing — the same two-step handshake
// worker-node's client.go performs against the coordinator.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"goflix/pkg/tcp"
	"goflix/pkg/types"
)

// handshakeTimeout bounds how long the client waits for an ACK after HELLO.
const handshakeTimeout = 5 * time.Second

// Handshake sends a Hello over conn and waits for the coordinator's Ack.
func Handshake(conn net.Conn, hello types.Hello) (types.Ack, error) {
	data, err := json.Marshal(hello)
	if err != nil {
		return types.Ack{}, fmt.Errorf("client: marshal hello: %w", err)
	}
	if err := tcp.WriteMessage(conn, types.Message{Type: "HELLO", Data: data}); err != nil {
		return types.Ack{}, fmt.Errorf("client: send hello: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	defer conn.SetReadDeadline(time.Time{})

	msg, err := tcp.ReadMessage(conn)
	if err != nil {
		return types.Ack{}, fmt.Errorf("client: read ack: %w", err)
	}
	if msg.Type != "ACK" {
		return types.Ack{}, errors.New("client: expected ACK from coordinator")
	}

	var ack types.Ack
	if err := json.Unmarshal(msg.Data, &ack); err != nil {
		return types.Ack{}, fmt.Errorf("client: parse ack: %w", err)
	}
	if ack.ClientID == "" {
		return types.Ack{}, errors.New("client: ACK missing client_id")
	}
	return ack, nil
}
