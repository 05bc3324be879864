// Package monitoring reports process and host resource stats plus
// per-shard occupancy, the operational picture an operator watches
// while a large job streams through the engine pool.
package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"goflix/internal/dispatcher"
	"goflix/internal/platform"
)

// ShardStats describes one shard's current occupancy.
type ShardStats struct {
	ID         int    `json:"id"`
	RowStart   uint16 `json:"row_start"`
	RowEnd     uint16 `json:"row_end"`
	ProducerID string `json:"producer_id,omitempty"`
	ConsumerID string `json:"consumer_id,omitempty"`
	State      int    `json:"state"`
}

// SystemStats is process- and host-level resource usage.
type SystemStats struct {
	NumGoroutine int    `json:"num_goroutine"`
	Alloc        uint64 `json:"alloc_bytes"`
	Sys          uint64 `json:"sys_bytes"`
	NumGC        uint32 `json:"num_gc"`

	TotalRAM        uint64                 `json:"total_ram"`
	AvailableRAM    uint64                 `json:"available_ram"`
	UsedRAMPercent  float64                `json:"used_ram_percent"`
	TotalCPUCores   int                    `json:"total_cpu_cores"`
	CPUUsagePercent []float64              `json:"cpu_usage_percent"`
	CPUTemperatures []host.TemperatureStat `json:"cpu_temperatures"`
}

// Status is the full monitoring payload.
type Status struct {
	Timestamp time.Time    `json:"timestamp"`
	MongoDB   string       `json:"mongodb"`
	Shards    []ShardStats `json:"shards"`
	System    SystemStats  `json:"system"`
}

// Service computes a Status on demand.
type Service interface {
	GetStatus(ctx context.Context) Status
}

type service struct {
	platform   *platform.Service
	dispatcher *dispatcher.Dispatcher
}

// NewService builds a monitoring Service.
func NewService(plat *platform.Service, disp *dispatcher.Dispatcher) Service {
	return &service{platform: plat, dispatcher: disp}
}

func (s *service) GetStatus(ctx context.Context) Status {
	mongoStatus := "unconfigured"
	if s.platform != nil {
		mongoStatus = "ok"
		if err := s.platform.Ping(ctx); err != nil {
			mongoStatus = "down"
		}
	}

	shards := s.dispatcher.Shards()
	shardStats := make([]ShardStats, 0, len(shards))
	for _, sh := range shards {
		shardStats = append(shardStats, ShardStats{
			ID:         sh.ID,
			RowStart:   sh.RowStart,
			RowEnd:     sh.RowEnd,
			ProducerID: sh.ProducerID,
			ConsumerID: sh.ConsumerID,
			State:      int(sh.State),
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	vMem, _ := mem.VirtualMemory()
	cpuPercent, _ := cpu.Percent(0, true)
	temps, _ := host.SensorsTemperatures()

	sys := SystemStats{
		NumGoroutine:    runtime.NumGoroutine(),
		Alloc:           memStats.Alloc,
		Sys:             memStats.Sys,
		NumGC:           memStats.NumGC,
		TotalCPUCores:   runtime.NumCPU(),
		CPUUsagePercent: cpuPercent,
		CPUTemperatures: temps,
	}
	if vMem != nil {
		sys.TotalRAM = vMem.Total
		sys.AvailableRAM = vMem.Available
		sys.UsedRAMPercent = vMem.UsedPercent
	}

	return Status{
		Timestamp: time.Now(),
		MongoDB:   mongoStatus,
		Shards:    shardStats,
		System:    sys,
	}
}

// Handler exposes GET /monitoring.
type Handler struct {
	svc Service
}

// NewHandler wraps svc.
func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires the monitoring endpoint under g.
func (h *Handler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/monitoring", h.getStatus)
}

func (h *Handler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.GetStatus(c.Request.Context()))
}
