package api

import (
	"net/http"

	"github.com/seenimoa/thermometer/internal/config"
	"github.com/seenimoa/thermometer/internal/layout"
)

// StyleResponse is returned by GET /api/v1/style.
type StyleResponse struct {
	Style     layout.Style `json:"style"`
	BarY      int          `json:"bar_y"`
	BarHeight int          `json:"bar_height"`
	Width     int          `json:"width"`
}

// ConfigResponse is returned by GET /api/v1/config. Secrets are reported
// by status only.
type ConfigResponse struct {
	Render  config.RenderConfig   `json:"render"`
	API     PublicAPIConfig       `json:"api"`
	Secrets []config.SecretStatus `json:"secrets"`
}

// PublicAPIConfig is APIConfig without the token.
type PublicAPIConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	CORSOrigins []string `json:"cors_origins"`
	CacheTTL    int      `json:"cache_ttl"`
	RateLimit   int      `json:"rate_limit"`
	RateWindow  int      `json:"rate_window"`
}

// handleStyle returns the immutable style every render uses.
func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: StyleResponse{
			Style:     s.style,
			BarY:      s.style.BarY(),
			BarHeight: s.style.BarHeight(),
			Width:     layout.CanvasWidth(s.style, s.style.LabelMask()),
		},
	})
}

// handleConfig returns the running configuration with secrets masked.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	a := s.cfg.API
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Render: s.cfg.Render,
			API: PublicAPIConfig{
				Host:        a.Host,
				Port:        a.Port,
				CORSOrigins: a.CORSOrigins,
				CacheTTL:    a.CacheTTL,
				RateLimit:   a.RateLimit,
				RateWindow:  a.RateWindow,
			},
			Secrets: config.CheckSecrets(s.cfg),
		},
	})
}
