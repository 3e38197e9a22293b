package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gabyx/RustoFluid/pkg/fluid"
)

// frame is the JSON message sent to websocket clients. Density holds the
// interior row by row, x major: Density[i*NY+j] is cell (i+1, j+1).
type frame struct {
	Type    string      `json:"type"`
	Step    int         `json:"step"`
	Total   int         `json:"total"`
	Time    float64     `json:"time"`
	NX      int         `json:"nx"`
	NY      int         `json:"ny"`
	Min     float64     `json:"min"`
	Max     float64     `json:"max"`
	Density []float64   `json:"density"`
	Stats   fluid.Stats `json:"stats"`
}

func newFrame(s fluid.Snapshot) frame {
	d := s.Density.Dense()
	nx, ny := d.Dims()
	return frame{
		Type:    "snapshot",
		Step:    s.Step,
		Total:   s.Total,
		Time:    s.Time,
		NX:      nx,
		NY:      ny,
		Min:     s.Density.MinValue,
		Max:     s.Density.MaxValue,
		Density: d.RawMatrix().Data,
		Stats:   s.Stats,
	}
}

// hub broadcasts snapshots to every connected websocket client. Each
// connection has its own write lock; the last message is replayed to new
// clients.
type hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]*sync.Mutex
	last    []byte
}

func newHub() *hub {
	return &hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade:", err)
		return
	}
	connMutex := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = connMutex
	last := h.last
	h.mu.Unlock()
	defer h.drop(conn)

	if last != nil {
		connMutex.Lock()
		err := conn.WriteMessage(websocket.TextMessage, last)
		connMutex.Unlock()
		if err != nil {
			return
		}
	}
	// Clients only listen; reading detects when they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) Observe(s fluid.Snapshot) error {
	data, err := json.Marshal(newFrame(s))
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.last = data
	h.mu.Unlock()

	var dead []*websocket.Conn
	h.mu.RLock()
	for conn, mutex := range h.clients {
		mutex.Lock()
		conn.SetWriteDeadline(time.Now().Add(time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			dead = append(dead, conn)
		}
		mutex.Unlock()
	}
	h.mu.RUnlock()

	for _, conn := range dead {
		log.Println("websocket client dropped:", conn.RemoteAddr())
		h.drop(conn)
	}
	return nil
}

// serve runs the websocket endpoint at /ws until ctx is done.
func serve(ctx context.Context, addr string, h *hub) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Printf("streaming snapshots on ws://%s/ws", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
