package gateway

import (
	"net/http"
	"time"

	"github.com/mackerelio/go-osstat/cpu"
	"github.com/mackerelio/go-osstat/memory"

	"github.com/libvault/registry/pkg/httputil"
)

// healthHandler handles GET /health and /v1/health
func (g *Gateway) healthHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// versionHandler handles GET /v1/version
func (g *Gateway) versionHandler(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"version": Version})
}

// statusHandler handles GET /v1/status: uptime, registry size, and basic
// system usage.
func (g *Gateway) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":    "ok",
		"version":   Version,
		"uptime":    time.Since(g.startedAt).Round(time.Second).String(),
		"libraries": len(g.svc.GetAllLibraryNames()),
	}

	if mem, err := memory.Get(); err == nil {
		status["memory_used_percent"] = float64(mem.Used) / float64(mem.Total) * 100
	}
	if usage, err := cpuUsagePercent(250 * time.Millisecond); err == nil {
		status["cpu_used_percent"] = usage
	}

	httputil.WriteJSON(w, http.StatusOK, status)
}

// cpuUsagePercent samples CPU counters twice across interval.
func cpuUsagePercent(interval time.Duration) (float64, error) {
	before, err := cpu.Get()
	if err != nil {
		return 0, err
	}
	time.Sleep(interval)
	after, err := cpu.Get()
	if err != nil {
		return 0, err
	}
	total := float64(after.Total - before.Total)
	if total == 0 {
		return 0, nil
	}
	idle := float64(after.Idle - before.Idle)
	return (1.0 - idle/total) * 100.0, nil
}
