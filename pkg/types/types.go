// Package types holds the wire-level and control-plane structures shared
// between the SpGEMM engine, its TCP control plane and the HTTP API.
package types

import "encoding/json"

// WorkerState is the lifecycle state of a registered engine shard, as seen
// by the coordinator.
type WorkerState int

const (
	WorkerIdle WorkerState = iota
	WorkerBusy
	WorkerDisconnected
)

// Message is the generic container sent over the TCP control plane. Type
// selects the payload carried in Data.
type Message struct {
	Type string          `json:"type"` // "HELLO","ACK","HEARTBEAT","JOB","JOB_DONE","ERROR"
	Data json.RawMessage `json:"data"`
}

// ---- control-plane payloads ----

// Hello is sent by a producer or consumer when it first connects.
type Hello struct {
	ClientID    string `json:"client_id"`
	Role        string `json:"role"` // "producer" | "consumer"
	Concurrency int    `json:"concurrency"`
}

// Ack is the coordinator's reply to Hello, assigning the connection an ID
// and telling it which row-range shard it has been bound to.
type Ack struct {
	ClientID string `json:"client_id"`
	ShardID  int    `json:"shard_id"`
}

// Heartbeat keeps a control-plane connection alive and reports liveness.
type Heartbeat struct {
	ClientID string  `json:"client_id"`
	Busy     bool    `json:"busy"`
	CPU      float64 `json:"cpu"`
}

// Envelope associates a received control-plane message with the client that
// sent it, so the coordinator can route replies without losing context.
type Envelope struct {
	ClientID string
	Msg      Message
}

// ---- data-plane records (the engine's actual input/output) ----

// Triple is one partial product (row, col, value) consumed by the engine.
// Last marks the final triple of the stream; it is an advisory hint, not
// required for correctness at row boundaries.
type Triple struct {
	Value int32
	Row   uint16
	Col   uint16
	Last  bool
}

// OutputRecord is one accumulated nonzero of a completed output row.
type OutputRecord struct {
	Row   uint16
	Col   uint16
	Value int32
}

// ---- HTTP ----

type UserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UserResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// JobStatus is the lifecycle of a submitted SpGEMM job as exposed over HTTP.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is the persisted record of one engine run submitted through the HTTP API.
type Job struct {
	ID        string         `bson:"_id,omitempty" json:"id"`
	Status    JobStatus      `bson:"status" json:"status"`
	Submitted int64          `bson:"submitted" json:"submitted"` // unix millis
	Results   []OutputRecord `bson:"results,omitempty" json:"results,omitempty"`
	Error     string         `bson:"error,omitempty" json:"error,omitempty"`
}
