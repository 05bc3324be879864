// Package health aggregates a liveness/readiness snapshot across
// MongoDB and the shard dispatcher, the way the coordinator's own
// health check folds its dependencies into one status payload.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goflix/internal/dispatcher"
	"goflix/internal/platform"
)

// Status is the aggregate health snapshot.
type Status struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]interface{} `json:"services"`
}

// Service computes a Status on demand.
type Service interface {
	Check(ctx context.Context) Status
}

type service struct {
	platform   *platform.Service
	dispatcher *dispatcher.Dispatcher
}

// NewService builds a health Service over the platform persistence
// layer and the shard dispatcher. platform may be nil when MongoDB
// persistence is not configured.
func NewService(plat *platform.Service, disp *dispatcher.Dispatcher) Service {
	return &service{platform: plat, dispatcher: disp}
}

func (s *service) Check(ctx context.Context) Status {
	services := make(map[string]interface{})
	overall := "ok"

	mongoStatus := "unconfigured"
	if s.platform != nil {
		mongoStatus = "ok"
		if err := s.platform.Ping(ctx); err != nil {
			mongoStatus = "down"
			overall = "degraded"
		}
	}
	services["mongodb"] = map[string]string{"status": mongoStatus}

	boundShards := 0
	for _, shard := range s.dispatcher.Shards() {
		if shard.ProducerID != "" || shard.ConsumerID != "" {
			boundShards++
		}
	}
	services["shards"] = map[string]interface{}{
		"status": "ok",
		"total":  len(s.dispatcher.Shards()),
		"bound":  boundShards,
	}

	return Status{Status: overall, Timestamp: time.Now(), Services: services}
}

// Handler exposes GET /health.
type Handler struct {
	svc Service
}

// NewHandler wraps svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the health check under g.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/health", h.check)
}

func (h *Handler) check(c *gin.Context) {
	status := h.svc.Check(c.Request.Context())
	httpStatus := http.StatusOK
	if status.Status != "ok" {
		httpStatus = http.StatusServiceUnavailable
	}
	c.JSON(httpStatus, status)
}
