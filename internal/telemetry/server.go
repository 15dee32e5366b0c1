package telemetry

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewRouter serves the hub:
//
//	GET /snapshot  latest snapshot as JSON, 204 before the first tick
//	GET /ws        websocket stream of every published snapshot
func NewRouter(hub *Hub) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/snapshot", snapshotHandler(hub)).Methods("GET")
	router.HandleFunc("/ws", websocketHandler(hub)).Methods("GET")
	return router
}

func snapshotHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := hub.Latest()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(snap); err != nil {
			log.Printf("telemetry: could not write snapshot: %v", err)
		}
	}
}

func websocketHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Print("telemetry: upgrade: ", err)
			return
		}

		id := hub.Add(conn)
		defer hub.Remove(id)

		// Watchers never send anything; reading is how a closed socket is noticed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// Serve runs the telemetry server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, hub *Hub) error {
	srv := &http.Server{Addr: addr, Handler: NewRouter(hub)}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "telemetry server on %s", addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
