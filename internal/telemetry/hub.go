package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

const (
	writeWait    = time.Second
	watcherQueue = 16 // Snapshots buffered per watcher before frames are skipped
)

// watcher owns one websocket. Only its pump goroutine writes to conn.
type watcher struct {
	conn *websocket.Conn
	out  chan Snapshot
}

// Hub fans snapshots out to websocket watchers and remembers the latest one
// for plain HTTP polling. Publish never waits on a watcher: a slow watcher
// misses frames instead of stalling the simulation.
type Hub struct {
	mu        sync.Mutex
	watchers  map[uuid.UUID]*watcher
	latest    Snapshot
	hasLatest bool
}

func NewHub() *Hub {
	return &Hub{watchers: make(map[uuid.UUID]*watcher)}
}

// Add registers conn and queues the latest snapshot for it, if any.
func (h *Hub) Add(conn *websocket.Conn) uuid.UUID {
	id := uuid.NewV4()
	w := &watcher{conn: conn, out: make(chan Snapshot, watcherQueue)}

	h.mu.Lock()
	h.watchers[id] = w
	if h.hasLatest {
		w.out <- h.latest
	}
	h.mu.Unlock()

	go h.pump(id, w)
	return id
}

// Remove forgets the watcher and closes its connection.
func (h *Hub) Remove(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(id)
}

// Publish stores s as the latest snapshot and queues it for every watcher.
func (h *Hub) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = s
	h.hasLatest = true
	for _, w := range h.watchers {
		select {
		case w.out <- s:
		default:
		}
	}
}

// Latest returns the last published snapshot.
func (h *Hub) Latest() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.hasLatest
}

// Watchers returns the number of connected watchers.
func (h *Hub) Watchers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watchers)
}

// pump writes queued snapshots until the queue is closed or a write fails.
func (h *Hub) pump(id uuid.UUID, w *watcher) {
	for s := range w.out {
		w.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := w.conn.WriteJSON(s); err != nil {
			log.Printf("telemetry: dropping watcher %s: %v", id, err)
			h.Remove(id)
			return
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(id uuid.UUID) {
	if w, ok := h.watchers[id]; ok {
		close(w.out)
		w.conn.Close()
		delete(h.watchers, id)
	}
}
