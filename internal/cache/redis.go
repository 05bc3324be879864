// Package cache backs the shard registry with Redis: which engine
// shards are connected, their concurrency and last-seen time, so the
// coordinator survives a restart without losing track of who's live.
package cache

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	shardIndexKey  = "shards:index"
	shardKeyPrefix = "shard:"
	writeTimeout   = 2 * time.Second
	shardTTL       = 5 * time.Minute
)

// NewRedisClient builds a client from REDIS_ADDR / REDIS_PASSWORD /
// REDIS_DB, defaulting to a local single-instance Redis.
func NewRedisClient() *redis.Client {
	addr := getenv("REDIS_ADDR", "localhost:6379")
	pass := os.Getenv("REDIS_PASSWORD")
	db := getint("REDIS_DB", 0)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})

	log.Printf("[CACHE] connecting to %s (db %d)", addr, db)
	return client
}

// ShardRegistry records which engine shards are live, persisting
// through Redis so the coordinator can recover its view of the fleet
// after a restart without waiting for every shard to re-announce.
type ShardRegistry struct {
	client *redis.Client
}

// NewShardRegistry wraps an existing Redis client. client may be nil,
// in which case every method is a harmless no-op — this lets the
// coordinator run without Redis in local/dev settings.
func NewShardRegistry(client *redis.Client) *ShardRegistry {
	return &ShardRegistry{client: client}
}

// Register upserts shard metadata and refreshes its TTL.
func (r *ShardRegistry) Register(ctx context.Context, shardID, clientID string, concurrency int, addr string, lastSeen time.Time) error {
	if r.client == nil || clientID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	key := shardKeyPrefix + clientID
	fields := map[string]interface{}{
		"client_id":   clientID,
		"shard_id":    shardID,
		"concurrency": concurrency,
		"last_seen":   lastSeen.UnixMilli(),
		"addr":        addr,
	}

	if err := r.client.HSet(ctx, key, fields).Err(); err != nil {
		return err
	}
	if err := r.client.SAdd(ctx, shardIndexKey, clientID).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, shardTTL).Err()
}

// Deregister removes a shard from the index on clean disconnect.
func (r *ShardRegistry) Deregister(ctx context.Context, clientID string) error {
	if r.client == nil || clientID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := r.client.SRem(ctx, shardIndexKey, clientID).Err(); err != nil {
		return err
	}
	return r.client.Del(ctx, shardKeyPrefix+clientID).Err()
}

// Touch refreshes a shard's TTL on heartbeat without rewriting its fields.
func (r *ShardRegistry) Touch(ctx context.Context, clientID string) error {
	if r.client == nil || clientID == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return r.client.Expire(ctx, shardKeyPrefix+clientID, shardTTL).Err()
}

// Members lists the client IDs of every shard currently in the index.
func (r *ShardRegistry) Members(ctx context.Context) ([]string, error) {
	if r.client == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return r.client.SMembers(ctx, shardIndexKey).Result()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
