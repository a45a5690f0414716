package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/hearthline/hearthline/internal/services"
	"github.com/hearthline/hearthline/internal/utils"
	"github.com/redis/go-redis/v9"
)

// WSHandler is the live ingest boundary: the call platform opens one socket
// per call and delivers conversational events in chronological order. The
// engine is driven synchronously from the read loop, which preserves the
// per-call event ordering the tracker requires.
type WSHandler struct {
	calls    services.CallService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewWSHandler(calls services.CallService, rdb *redis.Client) *WSHandler {
	return &WSHandler{
		calls: calls,
		redis: rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsEvent struct {
	Type      string         `json:"type"` // user_utterance|assistant_response|interruption|function_call|end_call
	Text      string         `json:"text,omitempty"`
	TSUnixMS  int64          `json:"ts_unix_ms,omitempty"`
	LatencyMS int64          `json:"latency_ms,omitempty"`
	Name      string         `json:"name,omitempty"`
	Args      map[string]any `json:"args,omitempty"`
}

type wsAck struct {
	Type     string `json:"type"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Recorded *bool  `json:"recorded,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteJSON(v)
}

func (ev wsEvent) timestamp() time.Time {
	if ev.TSUnixMS > 0 {
		return time.UnixMilli(ev.TSUnixMS).UTC()
	}
	return time.Now().UTC()
}

func (h *WSHandler) CallWS(c *gin.Context) {
	callID := c.Param("call_id")
	if callID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "WSHandler.CallWS", "missing call_id", nil))
		return
	}

	if _, err := h.calls.Get(c.Request.Context(), callID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// alerts published at finalize time flow back to the platform live
	pubsub := h.redis.Subscribe(ctx, "call:"+callID+":alerts")
	defer pubsub.Close()

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var ev wsEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				_ = wc.writeJSON(wsAck{Type: "error", Code: string(utils.CodeInvalidArgument), Message: "invalid json"})
				continue
			}

			if done := h.dispatch(ctx, wc, callID, ev); done {
				return
			}
		}
	}()

	// writer: Redis Pub/Sub -> WS
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		default:
			m, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				return
			}
			if werr := wc.writeJSON(json.RawMessage(m.Payload)); werr != nil {
				return
			}
		}
	}
}

// dispatch routes one event into the engine. Returns true when the socket
// should close (call ended).
func (h *WSHandler) dispatch(ctx context.Context, wc *wsConn, callID string, ev wsEvent) bool {
	at := ev.timestamp()

	ackErr := func(err error) {
		code := string(utils.CodeInvalidArgument)
		if utils.IsCode(err, utils.CodeConflict) {
			code = string(utils.CodeConflict)
		} else if utils.IsCode(err, utils.CodeNotFound) {
			code = string(utils.CodeNotFound)
		}
		_ = wc.writeJSON(wsAck{Type: "error", Code: code, Message: err.Error()})
	}

	switch ev.Type {
	case "user_utterance":
		if err := h.calls.TrackUserUtterance(callID, ev.Text, at, ev.LatencyMS); err != nil {
			ackErr(err)
		}

	case "assistant_response":
		recorded, err := h.calls.TrackAssistantResponse(callID, ev.Text, at)
		if err != nil {
			ackErr(err)
			break
		}
		_ = wc.writeJSON(wsAck{Type: "ack", Recorded: &recorded})

	case "interruption":
		if err := h.calls.TrackInterruption(callID, at); err != nil {
			ackErr(err)
		}

	case "function_call":
		if err := h.calls.TrackFunctionCall(callID, ev.Name, ev.Args, at); err != nil {
			ackErr(err)
		}

	case "end_call":
		report, err := h.calls.End(ctx, callID)
		if err != nil {
			ackErr(err)
			return true
		}
		_ = wc.writeJSON(map[string]any{"type": "report", "report": report})
		return true

	default:
		_ = wc.writeJSON(wsAck{Type: "error", Code: string(utils.CodeInvalidArgument), Message: "unknown event type"})
	}
	return false
}
