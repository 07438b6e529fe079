package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ai-dashboard/internal/infrastructure/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 4
)

// Event types pushed over WebSocket streams.
const (
	EventPrompts = "prompts"
	EventChat    = "chat"
	EventStats   = "stats"
	EventError   = "error"
)

// refreshCommand is the only client-to-server message streams react to.
const refreshCommand = "refresh"

// WSEvent is the frame written for every push.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Streamer upgrades requests to WebSockets and owns their lifetime.
type Streamer struct {
	upgrader websocket.Upgrader
	metrics  metrics.Recorder
	log      *zap.Logger
}

// NewStreamer accepts upgrades from allowedOrigins; "*" accepts any origin.
func NewStreamer(allowedOrigins []string, m metrics.Recorder, log *zap.Logger) *Streamer {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}
	return &Streamer{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if allowAll || origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		metrics: m,
		log:     log,
	}
}

// Stream is one open socket. All writes go through a single pump goroutine.
type Stream struct {
	ID      uuid.UUID
	conn    *websocket.Conn
	send    chan []byte
	refresh chan struct{}
	log     *zap.Logger
}

// Emit queues an event, blocking until it is accepted or ctx ends.
func (st *Stream) Emit(ctx context.Context, typ string, payload interface{}) error {
	b, err := json.Marshal(WSEvent{Type: typ, Payload: payload})
	if err != nil {
		return err
	}
	select {
	case st.send <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh fires whenever the client sends "refresh". Signals coalesce.
func (st *Stream) Refresh() <-chan struct{} { return st.refresh }

// Serve upgrades the request and runs produce until the client goes away.
// produce must return once ctx is done.
func (s *Streamer) Serve(w http.ResponseWriter, r *http.Request, kind string, produce func(ctx context.Context, st *Stream)) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("stream", kind), zap.Error(err))
		return
	}

	st := &Stream{
		ID:      uuid.New(),
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		refresh: make(chan struct{}, 1),
	}
	st.log = s.log.With(zap.String("stream", kind), zap.String("conn_id", st.ID.String()))

	s.metrics.StreamOpened(kind)
	defer s.metrics.StreamClosed(kind)
	st.log.Debug("stream opened")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		produce(ctx, st)
	}()
	go st.readPump(cancel)

	st.writePump(ctx)
	cancel()
	_ = conn.Close()
	<-done
	st.log.Debug("stream closed")
}

func (st *Stream) readPump(cancel context.CancelFunc) {
	defer cancel()
	st.conn.SetReadLimit(maxMessageSize)
	_ = st.conn.SetReadDeadline(time.Now().Add(pongWait))
	st.conn.SetPongHandler(func(string) error {
		return st.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, msg, err := st.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				st.log.Debug("stream read failed", zap.Error(err))
			}
			return
		}
		if strings.TrimSpace(string(msg)) == refreshCommand {
			select {
			case st.refresh <- struct{}{}:
			default:
			}
		}
	}
}

func (st *Stream) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = st.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-st.send:
			_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := st.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				st.log.Debug("stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = st.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := st.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
