package eventstream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halim/orin/pkg/executor"
)

func dialBroadcaster(t *testing.T, b *Broadcaster) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return b.ClientCount() > 0 },
		2*time.Second, 10*time.Millisecond)
	return conn
}

func TestBroadcaster_DeliversEvents(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()
	conn := dialBroadcaster(t, b)

	b.Broadcast(executor.Event{
		Type:      executor.EventStatus,
		Stage:     executor.StageExecutionStarted,
		Message:   "Executing tool: echo",
		Tool:      "echo",
		Timestamp: time.Now(),
	})

	var msg EventMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "status", msg.Type)
	assert.Equal(t, "execution_started", msg.Stage)
	assert.Equal(t, "Executing tool: echo", msg.Message)
	assert.Equal(t, "echo", msg.Tool)
	assert.NotZero(t, msg.Timestamp)
	assert.NotZero(t, msg.Seq)
}

func TestBroadcaster_SequenceIsMonotonic(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()
	conn := dialBroadcaster(t, b)

	b.Broadcast(executor.Event{Type: executor.EventInfo, Stage: executor.StageLookupStarted, Message: "one"})
	b.Broadcast(executor.Event{Type: executor.EventInfo, Stage: executor.StageLookupCompleted, Message: "two"})

	var first, second EventMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Greater(t, second.Seq, first.Seq)
}

func TestBroadcaster_CallbackFeedsClients(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()
	conn := dialBroadcaster(t, b)

	callback := b.Callback()
	callback(executor.Event{
		Type:    executor.EventError,
		Stage:   executor.StageLookupFailed,
		Message: "Tool not found: missing",
	})

	var msg EventMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, "tool_lookup_failed", msg.Stage)
}

func TestBroadcaster_ClientCountTracksDisconnect(t *testing.T) {
	b := New(zerolog.Nop())
	defer b.Close()
	conn := dialBroadcaster(t, b)

	assert.Equal(t, 1, b.ClientCount())

	conn.Close()
	require.Eventually(t, func() bool { return b.ClientCount() == 0 },
		2*time.Second, 10*time.Millisecond)
}
