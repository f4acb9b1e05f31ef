package http

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestWebSocketSession(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/allocate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Traffic_Volume\n1\n2\n3\n")))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	require.Empty(t, reply.Error)
	require.Equal(t, 3, reply.Rows)
	require.Len(t, reply.Results, 3)
	require.Equal(t, 512.0, reply.Results[2].Memory)
	require.NotEmpty(t, reply.ID)

	// A bad upload is reported and the session stays usable.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Nope\n1\n")))
	reply = wsReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	require.Contains(t, reply.Error, "Error during prediction: ")
	require.Zero(t, reply.Rows)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Traffic_Volume\n9\n")))
	reply = wsReply{}
	require.NoError(t, conn.ReadJSON(&reply))
	require.Empty(t, reply.Error)
	require.Equal(t, 1, reply.Rows)
}

func TestWebSocketInfiniteResult(t *testing.T) {
	s, _ := newTestServerWithModel(t, overflowModel)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/allocate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Traffic_Volume\n10\n")))
	var raw map[string]any
	require.NoError(t, conn.ReadJSON(&raw))
	require.Nil(t, raw["error"])
	results := raw["results"].([]any)
	require.Len(t, results, 1)
	require.Nil(t, results[0].(map[string]any)["Allocated_Bandwidth"])

	// The session is still open for the next upload.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("Traffic_Volume\n1\n")))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	require.Empty(t, reply.Error)
	require.Equal(t, 1, reply.Rows)
}
