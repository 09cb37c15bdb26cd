package api

import (
	"net/http"
	"time"

	"github.com/daydeskapp/daydesk-server/internal/http/response"
)

// Version is the server version reported by the health endpoint.
// Overridden at build time with -ldflags.
var Version = "dev"

var startTime = time.Now()

// HealthData is the payload of the health endpoint.
type HealthData struct {
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	response.Success(w, "Server is running", HealthData{
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Version:   Version,
	}, s.logger)
}
