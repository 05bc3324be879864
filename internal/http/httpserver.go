// Package httpapi is the coordinator's HTTP surface: job submission,
// result retrieval, health and monitoring, and the auth routes gating
// them — the same gin wiring the teacher's httpserver.go builds, now
// fronting the engine instead of a recommendation job queue.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"goflix/internal/auth"
	"goflix/internal/health"
	"goflix/internal/monitoring"
	"goflix/internal/platform"
	"goflix/pkg/types"
)

// Deps bundles the services the router needs. platform may be nil when
// MongoDB persistence is not configured, in which case job submission
// responds 503 rather than silently dropping the request.
type Deps struct {
	Platform     *platform.Service
	Auth         auth.Service
	TokenManager auth.TokenManager
	Health       health.Service
	Monitoring   monitoring.Service
}

// NewRouter builds the gin engine with every route group wired.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	api := r.Group("/api")

	auth.NewHandler(deps.Auth).RegisterRoutes(api.Group("/auth"))
	health.NewHandler(deps.Health).RegisterRoutes(api)
	monitoring.NewHandler(deps.Monitoring).RegisterRoutes(api)

	jobs := api.Group("/jobs")
	jobs.Use(auth.Middleware(deps.TokenManager))
	jobsHandler := &jobsHandler{platform: deps.Platform}
	jobs.POST("", jobsHandler.create)
	jobs.GET("/:id", jobsHandler.get)
	jobs.GET("/:id/results", jobsHandler.results)

	return r
}

type jobsHandler struct {
	platform *platform.Service
	timeout  time.Duration
}

func (h *jobsHandler) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := h.timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

// create registers a new pending job and returns its ID. It reads no
// request body, and the TCP producer handshake carries no job ID, so no
// triples are attached to the job through this route.
func (h *jobsHandler) create(c *gin.Context) {
	if h.platform == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job persistence not configured"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	id := uuid.New().String()
	if err := h.platform.CreateJob(ctx, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create job"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": types.JobPending})
}

func (h *jobsHandler) get(c *gin.Context) {
	if h.platform == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job persistence not configured"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	job, err := h.platform.Get(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *jobsHandler) results(c *gin.Context) {
	if h.platform == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job persistence not configured"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	job, err := h.platform.Get(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if job.Status != types.JobDone {
		c.JSON(http.StatusAccepted, gin.H{"status": job.Status})
		return
	}
	c.JSON(http.StatusOK, job.Results)
}
