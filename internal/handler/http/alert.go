package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/freedomdance/studio-backend/internal/domain/alert"
	"github.com/freedomdance/studio-backend/internal/handler/http/response"
	"github.com/freedomdance/studio-backend/internal/pkg/jwt"
	"github.com/freedomdance/studio-backend/internal/pkg/sse"
)

const defaultPingInterval = 30 * time.Second

type AlertHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Refresh(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type alertHandlerImpl struct {
	alertService alert.AlertService
	jwtService   jwt.Service
	hub          *sse.Hub
	pingInterval time.Duration
}

func NewAlertHandler(alertService alert.AlertService, jwtService jwt.Service, hub *sse.Hub) AlertHandler {
	return &alertHandlerImpl{
		alertService: alertService,
		jwtService:   jwtService,
		hub:          hub,
		pingInterval: defaultPingInterval,
	}
}

// List returns ?mode=expiry|usage alerts, bounded by ?days and ?limit.
func (h *alertHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := alert.AlertFilter{
		Mode:  alert.Mode(r.URL.Query().Get("mode")),
		Days:  queryInt(r, "days"),
		Limit: queryInt(r, "limit"),
	}

	result, err := h.alertService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *alertHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	count, err := h.alertService.RecomputeAll(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Alerts refreshed", map[string]int{"refreshed": count})
}

// Stream pushes alert.updated events over SSE. EventSource cannot set
// headers, so the stream token arrives as ?token=.
func (h *alertHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// The server write timeout would otherwise cut long-lived streams.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	if err := sse.WriteEvent(w, "connected", map[string]string{"status": "connected", "user_id": userID}); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.pingInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := sse.WriteEvent(w, event.Event, event.Data); err != nil {
				slog.DebugContext(r.Context(), "alert stream write failed", "user_id", userID, "error", err)
				return
			}
			flusher.Flush()

		case t := <-keepalive.C:
			if err := sse.WriteEvent(w, "ping", map[string]int64{"timestamp": t.Unix()}); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
