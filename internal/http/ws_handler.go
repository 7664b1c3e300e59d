package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"livepoll/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// @Summary     Subscribe to live results
// @Description Upgrades to a websocket. Every committed vote produces a pollUpdated event for its poll.
// @Tags        realtime
// @Success     101
// @Router      /ws [get]
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		slogLogger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := realtime.NewConn(ws, h.connOpts, h.registry.OnDisconnect, slogLogger)
	if err := h.registry.OnConnect(c); err != nil {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "not accepting subscribers"),
			time.Now().Add(time.Second))
		_ = ws.Close()
		return
	}
	c.Run()
}
