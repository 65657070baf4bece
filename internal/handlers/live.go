package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"simple_forum/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	maxMsgSize       = 1 << 12 // 4 KB
	defaultInterval  = 2 * time.Second
	minInterval      = 100 * time.Millisecond
	maxInterval      = 30 * time.Second
	maxIntervalMilli = 30_000
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The zero CheckOrigin rejects cross-origin upgrades.
var upgrader = websocket.Upgrader{}

// liveComments streams the comment thread of a post. The full list is sent
// on connect and again whenever the number of comments changes.
func (h *Handler) liveComments(c *gin.Context) {
	id, ok := parsePostID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrPostNotFound.Error()})
		return
	}
	if _, err := h.services.GetPost(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "ws_get_post_failed", err, "post_id", id)
		return
	}

	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ticker := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
	}()

	ctx := c.Request.Context()
	sent, err := h.sendComments(ctx, conn, id, -1)
	if err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "post_id", id, "err", err)
		}
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case <-ticker.C:
			if sent, err = h.sendComments(ctx, conn, id, sent); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "post_id", id, "err", err)
				}
				return
			}
		}
	}
}

// parseInterval reads ?interval=2s or ?interval_ms=2000 within bounds.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d >= minInterval && d <= maxInterval {
			return d
		}
	}

	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= maxIntervalMilli {
			if d := time.Duration(v) * time.Millisecond; d >= minInterval {
				return d
			}
		}
	}

	return defaultInterval
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// sendComments writes the thread when its length differs from last and
// returns the length now on the wire. Comparing lengths only works because
// comments are append-only; editing or deleting comments needs a real diff.
func (h *Handler) sendComments(ctx context.Context, conn *websocket.Conn, postID, last int) (int, error) {
	comments, err := h.services.ListComments(ctx, postID)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_list_comments_failed", "post_id", postID, "err", err)
		}
		return last, err
	}
	if len(comments) == last {
		return last, nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(wsEnvelope{Type: "comments", Data: comments}); err != nil {
		return last, err
	}
	return len(comments), nil
}
