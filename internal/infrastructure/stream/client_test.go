package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"empire_trader/internal/infrastructure/stream"
)

type wsServer struct {
	*httptest.Server
	conns chan *websocket.Conn
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()

	upgrader := websocket.Upgrader{}
	conns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	return &wsServer{Server: srv, conns: conns}
}

func (s *wsServer) url() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *wsServer) accept(t *testing.T) *websocket.Conn {
	t.Helper()

	select {
	case conn := <-s.conns:
		return conn
	case <-time.After(time.Second):
		t.Fatal("no websocket connection")
		return nil
	}
}

func newConnectedClient(t *testing.T, srv *wsServer) (*stream.Client, *websocket.Conn) {
	t.Helper()

	client := stream.NewClient("csgoempire.com", "101 API Bot", nil, stream.WithURL(srv.url()))
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() { client.Close() })

	return client, srv.accept(t)
}

func TestClientConnectAndReceive(t *testing.T) {
	rq := require.New(t)

	srv := newWSServer(t)
	client, serverConn := newConnectedClient(t, srv)

	rq.True(client.IsConnected())

	err := serverConn.WriteMessage(websocket.TextMessage,
		[]byte(`{"event": "trade_status", "data": {"type": "deposit"}}`))
	rq.NoError(err)

	select {
	case env := <-client.Messages():
		rq.Equal(stream.EventTradeStatus, env.Event)
		rq.JSONEq(`{"type": "deposit"}`, string(env.Data))
	case <-time.After(time.Second):
		rq.Fail("no envelope received")
	}
}

func TestClientEmit(t *testing.T) {
	rq := require.New(t)

	srv := newWSServer(t)
	client, serverConn := newConnectedClient(t, srv)

	rq.NoError(client.Emit(stream.EventFilters, map[string]int{"price_max": 10}))
	rq.NoError(client.Emit(stream.EventTimesync, nil))

	_, first, err := serverConn.ReadMessage()
	rq.NoError(err)
	rq.JSONEq(`{"event": "filters", "data": {"price_max": 10}}`, string(first))

	_, second, err := serverConn.ReadMessage()
	rq.NoError(err)
	rq.JSONEq(`{"event": "timesync"}`, string(second))
}

func TestClientEmitBeforeConnect(t *testing.T) {
	rq := require.New(t)

	client := stream.NewClient("csgoempire.com", "101 API Bot", nil)

	rq.Error(client.Emit(stream.EventTimesync, nil))
}

func TestClientServerDisconnectSurfacesError(t *testing.T) {
	rq := require.New(t)

	srv := newWSServer(t)
	client, serverConn := newConnectedClient(t, srv)

	rq.NoError(serverConn.Close())

	select {
	case err := <-client.Errors():
		rq.Error(err)
	case <-time.After(time.Second):
		rq.Fail("no error surfaced")
	}
}

func TestClientCloseIsIdempotent(t *testing.T) {
	rq := require.New(t)

	srv := newWSServer(t)
	client, _ := newConnectedClient(t, srv)

	rq.NoError(client.Close())
	rq.NoError(client.Close())
	rq.False(client.IsConnected())

	rq.Error(client.Connect(context.Background()), "closed client must not reconnect")
}

func TestClientSkipsUnparseableFrames(t *testing.T) {
	rq := require.New(t)

	srv := newWSServer(t)
	client, serverConn := newConnectedClient(t, srv)

	rq.NoError(serverConn.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	rq.NoError(serverConn.WriteMessage(websocket.TextMessage, []byte(`{"event": "init", "data": {"authenticated": true}}`)))

	select {
	case env := <-client.Messages():
		rq.Equal(stream.EventInit, env.Event)
	case <-time.After(time.Second):
		rq.Fail("valid frame after garbage was not delivered")
	}
}
