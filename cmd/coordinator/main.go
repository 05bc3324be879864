package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"goflix/internal/cache"
	"goflix/internal/health"
	httpapi "goflix/internal/http"
	"goflix/internal/monitoring"
	"goflix/internal/platform"
	"goflix/internal/spgemm"
	"goflix/internal/tcpserver"
	"goflix/pkg/styles"

	"goflix/internal/auth"
)

func main() {
	numShards := getEnvInt("NUM_SHARDS", 4)
	totalRows := getEnvInt("TOTAL_ROWS", 65535)
	watchdog := 30 * time.Second

	redisClient := cache.NewRedisClient()
	registry := cache.NewShardRegistry(redisClient)

	cfg := spgemm.DefaultConfig()
	server := tcpserver.New(cfg, numShards, uint16(totalRows), watchdog, registry)

	tcpAddr := getEnv("TCP_ADDR", ":9000")
	go func() {
		log.Fatal(server.Start(tcpAddr))
	}()

	disp := server.Dispatcher()

	ctx := context.Background()
	var plat *platform.Service
	if p, err := platform.NewClient(ctx); err != nil {
		styles.PrintFS("error", "[COORDINATOR] MongoDB unavailable, job persistence disabled: %v", err)
	} else {
		plat = p
		defer plat.Disconnect(ctx)
	}

	secret := getEnv("JWT_SECRET", "default-secret-key")
	tokenManager := auth.NewJWTTokenManager(secret)

	var authSvc auth.Service
	if plat != nil {
		repo := auth.NewMongoRepository(plat.GetUsersCollection())
		authSvc = auth.NewService(repo, tokenManager)
	}

	healthSvc := health.NewService(plat, disp)
	monitoringSvc := monitoring.NewService(plat, disp)

	router := httpapi.NewRouter(httpapi.Deps{
		Platform:     plat,
		Auth:         authSvc,
		TokenManager: tokenManager,
		Health:       healthSvc,
		Monitoring:   monitoringSvc,
	})

	httpAddr := getEnv("HTTP_ADDR", ":8080")
	styles.PrintFS("info", "[COORDINATOR] HTTP listening on %s, TCP listening on %s", httpAddr, tcpAddr)
	log.Fatal(router.Run(httpAddr))
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
