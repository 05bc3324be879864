package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goflix/internal/dispatcher"
	"goflix/internal/health"
)

func TestCheckUnconfiguredMongoStillOK(t *testing.T) {
	disp := dispatcher.New(2, 10, time.Minute)
	svc := health.NewService(nil, disp)

	status := svc.Check(context.Background())
	require.Equal(t, "ok", status.Status)

	mongo, ok := status.Services["mongodb"].(map[string]string)
	require.True(t, ok)
	require.Equal(t, "unconfigured", mongo["status"])
}

func TestCheckReportsShardCounts(t *testing.T) {
	disp := dispatcher.New(2, 10, time.Minute)
	_, err := disp.AssignProducer("p1")
	require.NoError(t, err)

	svc := health.NewService(nil, disp)
	status := svc.Check(context.Background())

	shards, ok := status.Services["shards"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, 2, shards["total"])
	require.Equal(t, 1, shards["bound"])
}
