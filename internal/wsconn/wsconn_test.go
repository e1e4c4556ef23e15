package wsconn

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// startServer runs a WebSocket server whose connections are driven by handler.
// It returns the ws:// URL to dial.
func startServer(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Logf("accept error: %v", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")
		if handler != nil {
			handler(conn)
		}
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// connect builds a client without keepalive pings and connects it.
func connect(t *testing.T, ctx context.Context, url string, mutate func(*Config)) *Client {
	t.Helper()

	cfg := DefaultConfig(url, "test")
	cfg.PingInterval = 0
	if mutate != nil {
		mutate(&cfg)
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	return client
}

func idle(conn *websocket.Conn) {
	ctx := context.Background()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func TestConnect(t *testing.T) {
	url := startServer(t, idle)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := connect(t, ctx, url, nil)
	if client.State() != StateConnected {
		t.Errorf("State = %v, want %v", client.State(), StateConnected)
	}
	if !client.IsConnected() {
		t.Error("IsConnected = false after successful connect")
	}
}

func TestConnect_Refused(t *testing.T) {
	cfg := DefaultConfig("ws://127.0.0.1:59999", "test")
	cfg.PingInterval = 0

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err == nil {
		t.Fatal("Connect succeeded against a closed port")
	}
	if client.State() != StateDisconnected {
		t.Errorf("State = %v, want %v", client.State(), StateDisconnected)
	}
}

func TestSendJSON(t *testing.T) {
	var mu sync.Mutex
	var received []byte
	gotMsg := make(chan struct{})

	url := startServer(t, func(conn *websocket.Conn) {
		_, data, err := conn.Read(context.Background())
		if err != nil {
			return
		}
		mu.Lock()
		received = data
		mu.Unlock()
		close(gotMsg)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := connect(t, ctx, url, nil)

	subscribe := map[string]any{
		"method": "SUBSCRIBE",
		"params": []string{"ethusdt@bookTicker"},
		"id":     1,
	}
	if err := client.SendJSON(ctx, subscribe); err != nil {
		t.Fatalf("SendJSON error: %v", err)
	}

	select {
	case <-gotMsg:
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the message")
	}

	mu.Lock()
	defer mu.Unlock()

	var parsed map[string]any
	if err := json.Unmarshal(received, &parsed); err != nil {
		t.Fatalf("server received non-JSON payload %q: %v", received, err)
	}
	if parsed["method"] != "SUBSCRIBE" {
		t.Errorf("method = %v, want SUBSCRIBE", parsed["method"])
	}
}

func TestOnMessage(t *testing.T) {
	url := startServer(t, func(conn *websocket.Conn) {
		// Echo everything back.
		ctx := context.Background()
		for {
			msgType, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			if err := conn.Write(ctx, msgType, data); err != nil {
				return
			}
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := DefaultConfig(url, "test")
	cfg.PingInterval = 0
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer client.Close()

	var mu sync.Mutex
	var echoed []byte
	gotEcho := make(chan struct{})
	client.OnMessage(func(_ context.Context, msg []byte) {
		mu.Lock()
		echoed = msg
		mu.Unlock()
		close(gotEcho)
	})

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect error: %v", err)
	}

	payload := []byte(`{"stream":"ethusdt@bookTicker"}`)
	if err := client.Send(ctx, payload); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	select {
	case <-gotEcho:
	case <-time.After(2 * time.Second):
		t.Fatal("echo never arrived")
	}

	mu.Lock()
	defer mu.Unlock()
	if string(echoed) != string(payload) {
		t.Errorf("echoed %q, want %q", echoed, payload)
	}
}

func TestOnStateChange(t *testing.T) {
	url := startServer(t, idle)

	cfg := DefaultConfig(url, "test")
	cfg.PingInterval = 0
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer client.Close()

	var mu sync.Mutex
	var states []State
	client.OnStateChange(func(state State, _ error) {
		mu.Lock()
		states = append(states, state)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(states) < 2 {
		t.Fatalf("got %d state changes (%v), want at least 2", len(states), states)
	}
	if states[0] != StateConnecting || states[1] != StateConnected {
		t.Errorf("states = %v, want [Connecting Connected ...]", states)
	}
}

func TestClose_Idempotent(t *testing.T) {
	url := startServer(t, idle)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := connect(t, ctx, url, nil)

	if err := client.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if client.State() != StateClosed {
		t.Errorf("State = %v, want %v", client.State(), StateClosed)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}

func TestSend_Concurrent(t *testing.T) {
	var count atomic.Int32
	url := startServer(t, func(conn *websocket.Conn) {
		ctx := context.Background()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
			count.Add(1)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := connect(t, ctx, url, nil)

	const senders = 10
	const perSender = 5
	var wg sync.WaitGroup
	for i := 0; i < senders; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perSender; j++ {
				if err := client.SendJSON(ctx, map[string]int{"sender": id, "seq": j}); err != nil {
					t.Errorf("SendJSON error: %v", err)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	time.Sleep(200 * time.Millisecond)

	if got := count.Load(); got != senders*perSender {
		t.Errorf("server received %d messages, want %d", got, senders*perSender)
	}
}

func TestReadLimit_DisconnectsOnOversizedMessage(t *testing.T) {
	url := startServer(t, func(conn *websocket.Conn) {
		big := make([]byte, 1<<20)
		for i := range big {
			big[i] = 'A'
		}
		conn.Write(context.Background(), websocket.MessageText, big)
		time.Sleep(100 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := connect(t, ctx, url, func(cfg *Config) {
		cfg.MaxMessageSize = 100
	})

	time.Sleep(300 * time.Millisecond)
	if client.State() == StateConnected {
		t.Error("client still connected after oversized message")
	}
}
