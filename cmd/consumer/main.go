package main

import (
	"bufio"
	"net"
	"os"
	"strconv"

	"goflix/internal/client"
	"goflix/internal/ratings"
	"goflix/internal/recommend"
	"goflix/internal/transport"
	"goflix/pkg/styles"
	"goflix/pkg/types"
)

func main() {
	addr := getEnv("COORDINATOR_ADDR", "localhost:9000")
	shardID := getEnvInt("SHARD_ID", 0)
	csvPath := getEnv("RATINGS_CSV", "ratings.csv")
	targetUser := getEnvInt("TARGET_USER", 0)
	topN := getEnvInt("TOP_N", 10)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		styles.PrintFS("error", "[CONSUMER] dial %s: %v", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	// Concurrency doubles as the desired shard index in this handshake's
	// consumer role, matching tcpserver's handshake assignment.
	ack, err := client.Handshake(conn, types.Hello{Role: "consumer", Concurrency: shardID})
	if err != nil {
		styles.PrintFS("error", "[CONSUMER] handshake: %v", err)
		os.Exit(1)
	}
	styles.PrintFS("success", "[CONSUMER] %s bound to shard %d", ack.ClientID, ack.ShardID)

	var records []types.OutputRecord
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		rec, err := transport.ParseRecord(scanner.Text())
		if err != nil {
			styles.PrintFS("error", "[CONSUMER] record parse: %v", err)
			continue
		}
		records = append(records, rec)
	}
	styles.PrintFS("success", "[CONSUMER] received %d records", len(records))

	sim := recommend.BuildSimilarities(records)
	neighbors := recommend.TopKNeighbors(sim, 30)

	matrix, err := ratings.LoadCSV(csvPath)
	if err != nil {
		styles.PrintFS("error", "[CONSUMER] loading %s: %v", csvPath, err)
		return
	}
	userRatings, ok := matrix[targetUser]
	if !ok {
		styles.PrintFS("error", "[CONSUMER] user %d has no ratings in %s", targetUser, csvPath)
		return
	}

	recs := recommend.TopN(topN, userRatings, neighbors)
	styles.PrintFS("info", "[CONSUMER] top %d recommendations for user %d:", len(recs), targetUser)
	for i, r := range recs {
		styles.PrintFS("default", "%2d. item %d (score %.4f)", i+1, r.Item, r.Score)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
