package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"callerdesk-console/internal/callerdesk"
	"callerdesk-console/pkg/logger"
)

const (
	defaultLivePollInterval = 3 * time.Second

	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamReadLimit  = 512
	streamEventLive  = "live_calls"
	streamEventError = "error"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Access is already gated by the bearer token.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is one frame on the live-call stream.
type StreamMessage struct {
	Type      string                        `json:"type"`
	Data      *callerdesk.LiveCallsResponse `json:"data,omitempty"`
	Error     string                        `json:"error,omitempty"`
	Timestamp time.Time                     `json:"timestamp"`
}

// LiveCallStream upgrades to a websocket and pushes the live-call list every
// LivePollInterval until the client goes away. Upstream failures are sent as
// error frames; the stream keeps polling.
func (h Handlers) LiveCallStream(c *gin.Context) {
	cred, ok := h.credential(c)
	if !ok {
		return
	}
	log := logger.FromGin(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("live stream upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	if h.Streams != nil {
		h.Streams.StreamOpened()
		defer h.Streams.StreamClosed()
	}

	pongWait := h.StreamPongWait
	if pongWait <= 0 {
		pongWait = streamPongWait
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	go readUntilClosed(conn, pongWait, cancel)

	interval := h.LivePollInterval
	if interval <= 0 {
		interval = defaultLivePollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Pings must land inside the read deadline so silent viewers stay open.
	pinger := time.NewTicker(pongWait * 9 / 10)
	defer pinger.Stop()

	poll := true
	for {
		if poll {
			if err := conn.SetWriteDeadline(time.Now().Add(streamWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(h.pollLive(ctx, cred)); err != nil {
				log.Debug("live stream closed", "err", err)
				return
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll = true
		case <-pinger.C:
			poll = false
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				log.Debug("live stream ping failed", "err", err)
				return
			}
		}
	}
}

func (h Handlers) pollLive(ctx context.Context, cred string) StreamMessage {
	msg := StreamMessage{Type: streamEventLive, Timestamp: time.Now().UTC()}
	resp, err := h.API.LiveCalls(ctx, cred)
	switch {
	case err != nil:
		logger.From(ctx).Warn("live poll failed", "err", err)
		msg.Type, msg.Error = streamEventError, msgUpstreamUnavailable
	case !resp.OK():
		msg.Type, msg.Error = streamEventError, resp.MessageOr("request failed")
	default:
		msg.Data = resp
	}
	return msg
}

// readUntilClosed drains client frames so control messages are processed, and
// cancels the stream once the peer disconnects.
func readUntilClosed(conn *websocket.Conn, pongWait time.Duration, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
