// Package dispatcher assigns connected producers and consumers to a
// fixed pool of row-range shards and tracks their liveness, the way the
// coordinator's worker dispatcher hands out row-partitioned tasks and
// watches for workers that go quiet.
package dispatcher

import (
	"fmt"
	"sync"
	"time"

	"goflix/pkg/types"
)

// Shard is one row-range partition of the overall matrix, bound to at
// most one producer and one consumer connection at a time.
type Shard struct {
	ID       int
	RowStart uint16
	RowEnd   uint16 // exclusive

	ProducerID string
	ConsumerID string
	State      types.WorkerState
	LastSeen   time.Time
}

// Dispatcher partitions the row space into shards and assigns
// newly-connected clients to them: a producer to the lowest-numbered
// shard without a producer, a consumer to the shard it asks for.
type Dispatcher struct {
	mu      sync.RWMutex
	shards  []*Shard
	timeout time.Duration
}

// New builds a Dispatcher with numShards partitions spanning
// [0, totalRows) as evenly as possible. watchdogTimeout bounds how long
// a shard may go without a heartbeat before it is considered dead.
func New(numShards int, totalRows uint16, watchdogTimeout time.Duration) *Dispatcher {
	d := &Dispatcher{timeout: watchdogTimeout}
	if numShards <= 0 {
		numShards = 1
	}
	rowsPer := int(totalRows) / numShards
	remainder := int(totalRows) % numShards

	start := 0
	for i := 0; i < numShards; i++ {
		size := rowsPer
		if i < remainder {
			size++
		}
		d.shards = append(d.shards, &Shard{
			ID:       i,
			RowStart: uint16(start),
			RowEnd:   uint16(start + size),
			State:    types.WorkerIdle,
		})
		start += size
	}
	return d
}

// AssignProducer binds clientID to the shard with no producer yet,
// preferring the lowest shard ID so row ranges fill in order. It
// returns an error if every shard already has a producer.
func (d *Dispatcher) AssignProducer(clientID string) (*Shard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.shards {
		if s.ProducerID == "" {
			s.ProducerID = clientID
			s.LastSeen = time.Now()
			return s, nil
		}
	}
	return nil, fmt.Errorf("dispatcher: no free shard for producer %s", clientID)
}

// AssignConsumer binds clientID to shardID's consumer slot.
func (d *Dispatcher) AssignConsumer(clientID string, shardID int) (*Shard, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.shardLocked(shardID)
	if err != nil {
		return nil, err
	}
	s.ConsumerID = clientID
	s.LastSeen = time.Now()
	return s, nil
}

// Touch records a heartbeat from the client occupying shardID,
// refreshing its liveness deadline.
func (d *Dispatcher) Touch(shardID int, busy bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.shardLocked(shardID)
	if err != nil {
		return err
	}
	s.LastSeen = time.Now()
	if busy {
		s.State = types.WorkerBusy
	} else {
		s.State = types.WorkerIdle
	}
	return nil
}

// Release clears clientID from whichever slot (producer or consumer)
// it occupies on shardID, on clean disconnect.
func (d *Dispatcher) Release(shardID int, clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, err := d.shardLocked(shardID)
	if err != nil {
		return
	}
	if s.ProducerID == clientID {
		s.ProducerID = ""
	}
	if s.ConsumerID == clientID {
		s.ConsumerID = ""
	}
}

// Expired returns the shards whose last heartbeat is older than the
// watchdog timeout, so the caller can mark their connections dead and
// free the slot for a reconnect.
func (d *Dispatcher) Expired() []*Shard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cutoff := time.Now().Add(-d.timeout)
	var stale []*Shard
	for _, s := range d.shards {
		if s.LastSeen.Before(cutoff) && (s.ProducerID != "" || s.ConsumerID != "") {
			stale = append(stale, s)
		}
	}
	return stale
}

// Shards returns a snapshot of every shard's state.
func (d *Dispatcher) Shards() []Shard {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Shard, len(d.shards))
	for i, s := range d.shards {
		out[i] = *s
	}
	return out
}

func (d *Dispatcher) shardLocked(shardID int) (*Shard, error) {
	for _, s := range d.shards {
		if s.ID == shardID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("dispatcher: unknown shard %d", shardID)
}
