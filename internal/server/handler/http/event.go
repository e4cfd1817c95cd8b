package http

import (
	"io"
	"net/http"

	"go.uber.org/zap"
)

// EventHandler receives event notifications pushed by devices.
//
// Devices POST here once an HTTP host notification pointing at this
// service is configured. Payloads are multipart or JSON depending on
// device firmware, so the body is logged as-is rather than parsed.
type EventHandler struct {
	Log *zap.Logger
}

// Receive handles POST /api/isup/event. The device only needs an
// acknowledgment; it retries on anything other than a 2xx.
func (h *EventHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	h.Log.Info("device event received",
		zap.String("remote", r.RemoteAddr),
		zap.String("content_type", r.Header.Get("Content-Type")),
		zap.Int("size", len(body)),
	)
	h.Log.Debug("device event payload", zap.ByteString("body", body))

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Event received",
	})
}
