package controllerImp

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"cropcast/pkg/ai"
)

var appStart = time.Now()

type HealthCtrl struct {
	provider ai.Client
}

func NewHealthCtrl(p ai.Client) *HealthCtrl { return &HealthCtrl{provider: p} }

func (h *HealthCtrl) Health(c echo.Context) error {
	type sub struct {
		OK    bool   `json:"ok"`
		Model string `json:"model,omitempty"`
		Err   string `json:"err,omitempty"`
	}

	provider := sub{OK: h.provider != nil}
	if h.provider == nil {
		provider.Err = "model client not configured"
	} else {
		provider.Model = h.provider.Model()
		if !ai.Available(h.provider) {
			provider.OK = false
			provider.Err = "circuit open: recent model calls failed"
		}
	}

	status := http.StatusOK
	if !provider.OK {
		status = http.StatusServiceUnavailable
	}

	resp := map[string]any{
		"status":     map[string]any{"ok": provider.OK},
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"checks": map[string]any{
			"provider": provider,
		},
		"time": time.Now().Format(time.RFC3339),
	}
	return c.JSON(status, resp)
}
