package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ai-dashboard/internal/domain"
	"github.com/ai-dashboard/internal/infrastructure/metrics"
	"github.com/ai-dashboard/internal/pkg/pubsub"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rawEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestStreamer() *Streamer {
	return NewStreamer([]string{"*"}, metrics.Nop(), zap.NewNop())
}

func dial(t *testing.T, h http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) rawEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev rawEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestChatStream_SendsHistoryOnConnect(t *testing.T) {
	svc := &fakeChatSvc{msgs: []domain.ChatMessage{
		{ID: "m1", User: "Alice", Message: "first", Timestamp: 1},
		{ID: "m2", User: "Bob", Message: "second", Timestamp: 2},
	}}
	h := NewChatHandler(svc, newTestStreamer())
	conn := dial(t, http.HandlerFunc(h.Stream))

	ev := readEvent(t, conn)
	assert.Equal(t, EventChat, ev.Type)
	var msgs []domain.ChatMessage
	require.NoError(t, json.Unmarshal(ev.Payload, &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Message)
	assert.Equal(t, "second", msgs[1].Message)
}

func TestAdminStream_RefreshCommand(t *testing.T) {
	svc := &fakeStatsSvc{snap: &domain.AdminSnapshot{Stats: domain.AggregatedStats{TotalUsers: 3}}}
	h := NewAdminHandler(svc, newTestStreamer(), time.Hour)
	conn := dial(t, injectClaims("admin1", "root@x.com", domain.RoleAdmin, h.Stream))

	first := readEvent(t, conn)
	assert.Equal(t, EventStats, first.Type)
	var snap domain.AdminSnapshot
	require.NoError(t, json.Unmarshal(first.Payload, &snap))
	assert.Equal(t, 3, snap.Stats.TotalUsers)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("refresh")))
	second := readEvent(t, conn)
	assert.Equal(t, EventStats, second.Type)
}

func TestAdminStream_ErrorEvent(t *testing.T) {
	svc := &fakeStatsSvc{err: assert.AnError}
	h := NewAdminHandler(svc, newTestStreamer(), time.Hour)
	conn := dial(t, http.HandlerFunc(h.Stream))

	ev := readEvent(t, conn)
	assert.Equal(t, EventError, ev.Type)
	assert.NotContains(t, string(ev.Payload), assert.AnError.Error())
}

func TestPromptStream_PushesOnOwnSaves(t *testing.T) {
	svc := &mockPromptSvc{}
	svc.On("List", mock.Anything, "u1").Return([]domain.Prompt{}, nil).Once()
	svc.On("List", mock.Anything, "u1").Return([]domain.Prompt{{ID: "p1", UID: "u1", Prompt: "hello"}}, nil)
	hub := pubsub.NewHub[domain.PromptSaved]()
	h := NewPromptHandler(svc, hub, newTestStreamer())
	conn := dial(t, injectClaims("u1", "a@x.com", domain.RoleUser, h.Stream))

	first := readEvent(t, conn)
	assert.Equal(t, EventPrompts, first.Type)
	assert.JSONEq(t, `[]`, string(first.Payload))

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(domain.PromptSaved{UID: "someone-else"})
	hub.Publish(domain.PromptSaved{UID: "u1", Prompt: domain.Prompt{ID: "p1"}})

	second := readEvent(t, conn)
	var prompts []domain.Prompt
	require.NoError(t, json.Unmarshal(second.Payload, &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, "hello", prompts[0].Prompt)
}

func TestStream_UnsubscribesOnClose(t *testing.T) {
	svc := &mockPromptSvc{}
	svc.On("List", mock.Anything, "u1").Return([]domain.Prompt{}, nil)
	hub := pubsub.NewHub[domain.PromptSaved]()
	h := NewPromptHandler(svc, hub, newTestStreamer())
	conn := dial(t, injectClaims("u1", "a@x.com", domain.RoleUser, h.Stream))

	readEvent(t, conn)
	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestStreamer_RejectsUnknownOrigin(t *testing.T) {
	s := NewStreamer([]string{"https://dash.example.com"}, metrics.Nop(), zap.NewNop())
	h := NewChatHandler(&fakeChatSvc{}, s)
	srv := httptest.NewServer(http.HandlerFunc(h.Stream))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
