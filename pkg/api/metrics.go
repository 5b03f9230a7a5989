package api

import (
	"net/http"

	"github.com/VictoriaMetrics/metrics"
)

// HandleMetrics handles GET requests to the Prometheus metrics endpoint
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics.WritePrometheus(w, true)
}
