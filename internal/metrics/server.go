package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/eaclient/user-api/internal/health"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServer serves the operational surface (/metrics, /livez, /readyz) on its
// own port, away from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeResult(w, checker.Liveness(r.Context()), http.StatusOK)
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		writeResult(w, result, status)
	})

	return &http.Server{Addr: addr, Handler: mux}
}

func writeResult(w http.ResponseWriter, result health.Result, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
