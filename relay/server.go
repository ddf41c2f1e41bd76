package relay

import (
	"coachhub/utils"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

type Server struct {
	hub      *Hub
	router   *mux.Router
	upgrader websocket.Upgrader
}

// NewServer builds the relay router around hub. The hub must be running.
func NewServer(hub *Hub) *Server {
	s := &Server{
		hub:    hub,
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.router.HandleFunc("/ws/rooms/{room}", s.handleWebSocket).Methods("GET")
	s.router.HandleFunc("/rooms", s.handleRooms).Methods("GET")
	s.router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	room := mux.Vars(r)["room"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		utils.Log.Warnw("[RELAY] upgrade failed", "room", room, "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		room: room,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	if !s.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	sizes, err := s.hub.RoomSizes(ctx)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "relay is shutting down"})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"rooms": sizes})
}

// ListenAndServe runs the relay on addr until ctx is canceled.
func ListenAndServe(ctx context.Context, addr string) error {
	hub := NewHub()
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewServer(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("[RELAY] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
