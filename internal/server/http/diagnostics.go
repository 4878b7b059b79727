package internalhttp

import (
	"net/http"
	"os"
)

type diagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// diagnostics reports liveness and storage connectivity. Every failure is
// rendered as text in the payload, the endpoint itself always answers 200.
func (s *Server) diagnostics(w http.ResponseWriter, r *http.Request) {
	resp := diagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	if stor := s.app.Storage; stor != nil {
		resp.Database = "✅ Available"
		resp.ConnectionStatus = "Connected"
		if err := stor.Ping(r.Context()); err != nil {
			resp.Database = "⚠️ Connected but Error: " + truncate(err.Error(), 50)
		} else if names, err := stor.Collections(r.Context()); err != nil {
			resp.Database = "⚠️ Connected but Error: " + truncate(err.Error(), 50)
		} else {
			if len(names) > 10 {
				names = names[:10]
			}
			resp.Collections = names
			resp.Database = "✅ Connected & Working"
		}
	}

	resp.DatabaseURL = checkEnv("DATABASE_URL")
	resp.DatabaseName = checkEnv("DATABASE_NAME")

	writeJSON(w, http.StatusOK, resp)
}

func checkEnv(name string) string {
	if os.Getenv(name) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
