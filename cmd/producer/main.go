package main

import (
	"net"
	"os"
	"runtime"

	"goflix/internal/client"
	"goflix/internal/expand"
	"goflix/internal/ratings"
	"goflix/internal/transport"
	"goflix/pkg/styles"
	"goflix/pkg/types"
)

func main() {
	addr := getEnv("COORDINATOR_ADDR", "localhost:9000")
	csvPath := getEnv("RATINGS_CSV", "ratings.csv")

	matrix, err := ratings.LoadCSV(csvPath)
	if err != nil {
		styles.PrintFS("error", "[PRODUCER] loading %s: %v", csvPath, err)
		os.Exit(1)
	}
	styles.PrintFS("success", "[PRODUCER] loaded %d users from %s", len(matrix), csvPath)

	triples := expand.Stream(matrix)
	styles.PrintFS("info", "[PRODUCER] expanded into %d partial products", len(triples))

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		styles.PrintFS("error", "[PRODUCER] dial %s: %v", addr, err)
		os.Exit(1)
	}
	defer conn.Close()

	ack, err := client.Handshake(conn, types.Hello{Role: "producer", Concurrency: runtime.NumCPU()})
	if err != nil {
		styles.PrintFS("error", "[PRODUCER] handshake: %v", err)
		os.Exit(1)
	}
	styles.PrintFS("success", "[PRODUCER] %s bound to shard %d", ack.ClientID, ack.ShardID)

	for _, t := range triples {
		if err := transport.EncodeFrame(conn, t); err != nil {
			styles.PrintFS("error", "[PRODUCER] frame encode: %v", err)
			os.Exit(1)
		}
	}
	styles.PrintFS("success", "[PRODUCER] streamed %d triples", len(triples))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
