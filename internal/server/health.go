package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

const bytesPerMB = 1 << 20

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// MemoryResponse is the /health/memory payload.
type MemoryResponse struct {
	Timestamp     time.Time `json:"timestamp"`
	HeapAllocMB   float64   `json:"heap_alloc_mb"`
	HeapInuseMB   float64   `json:"heap_inuse_mb"`
	StackInuseMB  float64   `json:"stack_inuse_mb"`
	NumGC         uint32    `json:"num_gc"`
	LastGCPauseMs float64   `json:"last_gc_pause_ms,omitempty"`
	// Goroutines grows by one per open stream, so it doubles as a live
	// stream gauge.
	Goroutines int `json:"goroutines"`
}

// RegisterHealthRoutes adds GET and HEAD /health plus GET /health/memory.
func RegisterHealthRoutes(router *gin.Engine, serviceName, version string) {
	started := time.Now()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Service: serviceName,
			Version: version,
			Uptime:  time.Since(started).Truncate(time.Second).String(),
		})
	})
	router.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/health/memory", func(c *gin.Context) {
		c.JSON(http.StatusOK, readMemory())
	})
}

func readMemory() MemoryResponse {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := MemoryResponse{
		Timestamp:    time.Now().UTC(),
		HeapAllocMB:  float64(ms.HeapAlloc) / bytesPerMB,
		HeapInuseMB:  float64(ms.HeapInuse) / bytesPerMB,
		StackInuseMB: float64(ms.StackInuse) / bytesPerMB,
		NumGC:        ms.NumGC,
		Goroutines:   runtime.NumGoroutine(),
	}
	if ms.NumGC > 0 {
		resp.LastGCPauseMs = float64(ms.PauseNs[(ms.NumGC+255)%256]) / float64(time.Millisecond)
	}
	return resp
}
