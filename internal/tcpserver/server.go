// Package tcpserver is the control plane: it accepts producer and
// consumer connections, performs a HELLO/ACK handshake that assigns
// each connection a row-range shard, and then hands the raw
// connection off to a per-shard engine for data-plane framing.
package tcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"goflix/internal/cache"
	"goflix/internal/dispatcher"
	"goflix/internal/spgemm"
	"goflix/internal/transport"
	"goflix/pkg/styles"
	"goflix/pkg/tcp"
	"goflix/pkg/types"
)

// Client is one connected producer or consumer, past the handshake.
type Client struct {
	ID      string
	Role    string
	ShardID int
	Conn    net.Conn
}

// Server owns the listener, the shard dispatcher, the shard registry
// and the pool of per-shard engines.
type Server struct {
	dispatcher *dispatcher.Dispatcher
	registry   *cache.ShardRegistry
	engines    []*spgemm.Engine
	engineMu   []sync.Mutex // each engine is single-threaded; producer and consumer goroutines share one

	Incoming chan types.Envelope
}

// New builds a Server over numShards engines, each with cfg, spanning
// [0, totalRows) of row space.
func New(cfg spgemm.Config, numShards int, totalRows uint16, watchdogTimeout time.Duration, registry *cache.ShardRegistry) *Server {
	engines := make([]*spgemm.Engine, numShards)
	for i := range engines {
		engines[i] = spgemm.New(cfg)
	}
	return &Server{
		dispatcher: dispatcher.New(numShards, totalRows, watchdogTimeout),
		registry:   registry,
		engines:    engines,
		engineMu:   make([]sync.Mutex, numShards),
		Incoming:   make(chan types.Envelope, 100),
	}
}

// Dispatcher exposes the shard dispatcher for health/monitoring readers.
func (s *Server) Dispatcher() *dispatcher.Dispatcher { return s.dispatcher }

// Start opens addr and accepts connections until the listener is closed.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("tcpserver: listen: %w", err)
	}
	styles.PrintFS("default", "[TCPSERVER] listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			styles.PrintFS("error", "[TCPSERVER] accept: %v", err)
			continue
		}
		styles.PrintFS("info", "[TCPSERVER] connection from %s", conn.RemoteAddr())
		go s.handleConnection(conn)
	}
}

// handleConnection performs the handshake, then dispatches to a
// role-specific streaming loop for the remaining lifetime of conn.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	msg, err := tcp.ReadMessage(conn)
	if err != nil {
		styles.PrintFS("error", "[TCPSERVER] reading HELLO: %v", err)
		return
	}
	if msg.Type != "HELLO" {
		styles.PrintFS("error", "[TCPSERVER] expected HELLO, got %s", msg.Type)
		return
	}
	var hello types.Hello
	if err := json.Unmarshal(msg.Data, &hello); err != nil {
		styles.PrintFS("error", "[TCPSERVER] parsing HELLO: %v", err)
		return
	}

	client, err := s.handshake(conn, hello)
	if err != nil {
		styles.PrintFS("error", "[TCPSERVER] handshake: %v", err)
		return
	}
	defer s.dispatcher.Release(client.ShardID, client.ID)

	styles.PrintFS("success", "[TCPSERVER] %s %s bound to shard %d", client.Role, client.ID, client.ShardID)

	switch client.Role {
	case "producer":
		s.serveProducer(client)
	case "consumer":
		s.serveConsumer(client)
	default:
		styles.PrintFS("error", "[TCPSERVER] unknown role %q from %s", client.Role, client.ID)
	}
}

// handshake assigns conn a client ID and shard, then replies with Ack.
func (s *Server) handshake(conn net.Conn, hello types.Hello) (*Client, error) {
	clientID := hello.ClientID
	if clientID == "" {
		clientID = uuid.New().String()
	}

	var shardID int
	switch hello.Role {
	case "producer":
		shard, err := s.dispatcher.AssignProducer(clientID)
		if err != nil {
			return nil, err
		}
		shardID = shard.ID
	case "consumer":
		// A consumer announces the shard it wants to drain via Concurrency,
		// reused here as the shard index to avoid widening the handshake
		// payload for a single extra integer.
		shard, err := s.dispatcher.AssignConsumer(clientID, hello.Concurrency)
		if err != nil {
			return nil, err
		}
		shardID = shard.ID
	default:
		return nil, fmt.Errorf("unknown role %q", hello.Role)
	}

	ack := types.Ack{ClientID: clientID, ShardID: shardID}
	data, err := json.Marshal(ack)
	if err != nil {
		return nil, fmt.Errorf("marshal ack: %w", err)
	}
	if err := tcp.WriteMessage(conn, types.Message{Type: "ACK", Data: data}); err != nil {
		return nil, fmt.Errorf("send ack: %w", err)
	}

	if s.registry != nil {
		_ = s.registry.Register(context.Background(), fmt.Sprint(shardID), clientID, hello.Concurrency, conn.RemoteAddr().String(), time.Now())
	}

	return &Client{ID: clientID, Role: hello.Role, ShardID: shardID, Conn: conn}, nil
}

// serveProducer decodes data-plane frames from conn and submits each
// triple to the shard's engine. A submission refused because the engine
// is mid-flush is transient: it is retried once the consumer's
// Tick/AckOutput loop has had a chance to drain it back to FILL, the
// same in_valid/in_ready backpressure the engine's own Submit contract
// describes. OutOfRange is permanent — no amount of draining makes an
// out-of-bounds column fit the store — so that triple is dropped and the
// loop moves on to the next frame instead of retrying forever.
func (s *Server) serveProducer(c *Client) {
	engine := s.engines[c.ShardID]
	mu := &s.engineMu[c.ShardID]
	for {
		t, err := transport.DecodeFrame(c.Conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				styles.PrintFS("error", "[TCPSERVER] %s frame decode: %v", c.ID, err)
			}
			return
		}

		for {
			mu.Lock()
			outcome := engine.Submit(t)
			mu.Unlock()
			if outcome == spgemm.OutOfRange {
				styles.PrintFS("warn", "[TCPSERVER] %s dropping out-of-range column %d (row %d)", c.ID, t.Col, t.Row)
				break
			}
			if outcome != spgemm.Refused {
				break
			}
			time.Sleep(time.Millisecond)
		}
		s.dispatcher.Touch(c.ShardID, true)
	}
}

// serveConsumer drains the shard's engine output and writes each
// completed record back over conn as a text line.
func (s *Server) serveConsumer(c *Client) {
	engine := s.engines[c.ShardID]
	mu := &s.engineMu[c.ShardID]
	for {
		mu.Lock()
		rec, ok := engine.PollOutput()
		if ok {
			mu.Unlock()
			if err := transport.EncodeRecord(c.Conn, rec); err != nil {
				styles.PrintFS("error", "[TCPSERVER] %s record encode: %v", c.ID, err)
				return
			}
			mu.Lock()
			engine.AckOutput()
			mu.Unlock()
			continue
		}
		idle := engine.Idle()
		if !idle {
			engine.Tick()
		}
		mu.Unlock()

		if idle {
			s.dispatcher.Touch(c.ShardID, false)
			time.Sleep(5 * time.Millisecond)
		}
	}
}
