package dispatcher_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goflix/internal/dispatcher"
)

func TestNewPartitionsRowsEvenly(t *testing.T) {
	d := dispatcher.New(3, 10, time.Minute)
	shards := d.Shards()
	require.Len(t, shards, 3)
	require.Equal(t, uint16(0), shards[0].RowStart)
	require.Equal(t, uint16(10), shards[2].RowEnd)
	for i := 1; i < len(shards); i++ {
		require.Equal(t, shards[i-1].RowEnd, shards[i].RowStart, "gap between shard %d and %d", i-1, i)
	}
}

func TestAssignProducerFillsLowestFreeShardFirst(t *testing.T) {
	d := dispatcher.New(2, 10, time.Minute)
	s, err := d.AssignProducer("p1")
	require.NoError(t, err)
	require.Equal(t, 0, s.ID, "expected shard 0 assigned first")

	_, err = d.AssignProducer("p2")
	require.NoError(t, err)

	_, err = d.AssignProducer("p3")
	require.Error(t, err, "expected an error once every shard has a producer")
}

func TestAssignConsumerUnknownShard(t *testing.T) {
	d := dispatcher.New(1, 10, time.Minute)
	_, err := d.AssignConsumer("c1", 99)
	require.Error(t, err)
}

func TestReleaseClearsOnlyMatchingClient(t *testing.T) {
	d := dispatcher.New(1, 10, time.Minute)
	_, err := d.AssignProducer("p1")
	require.NoError(t, err)

	d.Release(0, "someone-else")
	require.Equal(t, "p1", d.Shards()[0].ProducerID, "Release cleared a client ID that wasn't the one released")

	d.Release(0, "p1")
	require.Empty(t, d.Shards()[0].ProducerID, "Release did not clear the matching producer")
}

func TestExpiredReportsStaleShardsOnly(t *testing.T) {
	d := dispatcher.New(2, 10, -time.Second) // negative timeout: everything is immediately stale
	_, err := d.AssignProducer("p1")
	require.NoError(t, err)

	stale := d.Expired()
	require.Len(t, stale, 1, "expected 1 stale shard (the occupied one)")
	require.Equal(t, "p1", stale[0].ProducerID)
}
