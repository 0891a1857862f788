package handlers

import (
	"net/http"
	"time"

	"taskflow/internal/service"
)

// DashboardHandler handles dashboard aggregation HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	startTime        time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		startTime:        time.Now(),
	}
}

// Stats returns weekly completion summaries for the user
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	stats, err := h.dashboardService.GetStats(user.ID)
	if err != nil {
		respondWithError(w, "failed to get dashboard stats", err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Analytics returns creation trends and priority distribution
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	timeframe := r.URL.Query().Get("timeframe")
	analytics, err := h.dashboardService.GetAnalytics(user.ID, timeframe)
	if err != nil {
		respondWithError(w, "failed to get dashboard analytics", err)
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

// Index lists the API surface at the server root
func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "TaskFlow API Server",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":    "/api/health",
			"auth":      "/api/auth/*",
			"tasks":     "/api/tasks/*",
			"family":    "/api/family/*",
			"dashboard": "/api/dashboard/*",
		},
	})
}

// Health reports service liveness and uptime
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"message":   "TaskFlow API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startTime).Seconds(),
	})
}
