package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConnPair(t *testing.T) (server *websocket.Conn, client *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { srv.Close() })

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientConn.Close() })

	serverConn := <-ready
	t.Cleanup(func() { serverConn.Close() })

	return serverConn, clientConn
}

func TestClientWriter_DeliversQueuedMessages(t *testing.T) {
	server, client := newTestConnPair(t)

	cw := newClientWriter(server, clockwork.NewRealClock())
	t.Cleanup(func() { cw.stop() })

	cw.sendChannel <- []byte(`{"event":"one"}`)
	cw.sendChannel <- []byte(`{"event":"two"}`)

	for _, want := range []string{`{"event":"one"}`, `{"event":"two"}`} {
		require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := client.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestClientWriter_GracefulStopFlushesBeforeClose(t *testing.T) {
	server, client := newTestConnPair(t)

	cw := newClientWriter(server, clockwork.NewRealClock())

	// Whether run or flush writes it, the message precedes the close frame.
	cw.sendChannel <- []byte(`{"event":"removedFromSession"}`)
	cw.stopGraceful("removed by moderator")

	require.NoError(t, client.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, `{"event":"removedFromSession"}`, string(data))

	_, _, err = client.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "removed by moderator", closeErr.Text)
}

func TestClientWriter_StopIdempotent(t *testing.T) {
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, clockwork.NewRealClock())

	// Call stop multiple times - should not panic
	cw.stop()
	cw.stop()
	cw.stopGraceful("late")
}

func TestClientWriter_ConcurrentStop(t *testing.T) {
	server, _ := newTestConnPair(t)

	cw := newClientWriter(server, clockwork.NewRealClock())

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				cw.stop()
			} else {
				cw.stopGraceful("bye")
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("concurrent stop calls deadlocked")
	}
}
