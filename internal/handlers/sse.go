// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"
	"time"

	"codeberg.org/oliverandrich/timetracker/internal/appcontext"
	"codeberg.org/oliverandrich/timetracker/internal/sse"
	"github.com/labstack/echo/v4"
)

// DefaultHeartbeat is how often an idle event stream is kept alive.
const DefaultHeartbeat = 30 * time.Second

// SSEHandler handles Server-Sent Events connections.
type SSEHandler struct {
	hub       *sse.Hub
	heartbeat time.Duration
}

// NewSSEHandler creates a new SSE handler. A non-positive heartbeat
// selects DefaultHeartbeat.
func NewSSEHandler(hub *sse.Hub, heartbeat time.Duration) *SSEHandler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &SSEHandler{hub: hub, heartbeat: heartbeat}
}

// Events streams change notifications to the logged-in user's browser tab.
func (h *SSEHandler) Events(c echo.Context) error {
	cc, ok := c.(*appcontext.Context)
	if !ok || !cc.IsAuthenticated() {
		return respondError(c, errUnauthorized)
	}

	w := c.Response()
	ctx := c.Request().Context()

	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch := h.hub.Register(cc.User.ID, cc.SessionID())
	defer h.hub.Unregister(cc.User.ID, cc.SessionID(), ch)

	if _, err := w.Write([]byte(sse.FormatEvent("connected", "ok"))); err != nil {
		return nil
	}
	w.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Write([]byte(sse.Heartbeat)); err != nil {
				return nil
			}
			w.Flush()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if _, err := w.Write([]byte(msg)); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}

// Hub returns the SSE hub.
func (h *SSEHandler) Hub() *sse.Hub {
	return h.hub
}
