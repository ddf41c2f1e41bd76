package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startRelay(t *testing.T) (*httptest.Server, *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)

	srv := httptest.NewServer(NewServer(hub))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, hub
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForMembers(t *testing.T, hub *Hub, room string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		sizes, err := hub.RoomSizes(context.Background())
		return err == nil && sizes[room] == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStateUpdateRelayedToOtherMembers(t *testing.T) {
	srv, hub := startRelay(t)

	sender := dial(t, srv, "game-1")
	peer := dial(t, srv, "game-1")
	outsider := dial(t, srv, "game-2")
	waitForMembers(t, hub, "game-1", 2)
	waitForMembers(t, hub, "game-2", 1)

	payload := `{"type":"state_update","score":42,"word":"cat"}`
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(payload)))

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, got, err := peer.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, payload, string(got), "frame is relayed verbatim")

	outsider.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = outsider.ReadMessage()
	assert.Error(t, err, "other rooms receive nothing")

	sender.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = sender.ReadMessage()
	assert.Error(t, err, "sender does not receive its own frame")
}

func TestOtherFrameTypesIgnored(t *testing.T) {
	srv, hub := startRelay(t)

	sender := dial(t, srv, "game-1")
	peer := dial(t, srv, "game-1")
	waitForMembers(t, hub, "game-1", 2)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`{"type":"chat","text":"hi"}`)))
	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte(`not json`)))

	peer.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := peer.ReadMessage()
	assert.Error(t, err)
}

func TestRoomsEndpoint(t *testing.T) {
	srv, hub := startRelay(t)

	dial(t, srv, "a")
	dial(t, srv, "a")
	dial(t, srv, "b")
	waitForMembers(t, hub, "a", 2)
	waitForMembers(t, hub, "b", 1)

	resp, err := http.Get(srv.URL + "/rooms")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Rooms map[string]int `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]int{"a": 2, "b": 1}, body.Rooms)
}

func TestRoomRemovedWhenLastClientLeaves(t *testing.T) {
	srv, hub := startRelay(t)

	conn := dial(t, srv, "solo")
	waitForMembers(t, hub, "solo", 1)

	conn.Close()
	require.Eventually(t, func() bool {
		sizes, err := hub.RoomSizes(context.Background())
		_, present := sizes["solo"]
		return err == nil && !present
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSlowClientDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	slow := &Client{hub: hub, room: "r", send: make(chan []byte)}
	require.True(t, hub.join(slow))
	waitForMembers(t, hub, "r", 1)

	require.True(t, hub.Publish("r", nil, []byte(`{"type":"state_update"}`)))
	waitForMembers(t, hub, "r", 0)

	_, open := <-slow.send
	assert.False(t, open, "send channel is closed for dropped clients")
}
