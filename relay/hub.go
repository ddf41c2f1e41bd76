// Package relay is the in-memory spectator relay for the phonics game. Clients join a
// room and every state_update frame is forwarded to the other members of that room.
package relay

import (
	"coachhub/utils"
	"context"
	"encoding/json"
	"errors"
)

var errHubStopped = errors.New("relay hub stopped")

// StateUpdate is the only frame type that is relayed.
const StateUpdate = "state_update"

type frame struct {
	Type string `json:"type"`
}

type message struct {
	room   string
	sender *Client
	data   []byte
}

// Hub owns room membership. All maps are touched only by the run goroutine.
type Hub struct {
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	sizes      chan chan map[string]int
	done       chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		sizes:      make(chan chan map[string]int),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until ctx is canceled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, members := range h.rooms {
				for client := range members {
					close(client.send)
				}
			}
			h.rooms = make(map[string]map[*Client]bool)
			return

		case client := <-h.register:
			members := h.rooms[client.room]
			if members == nil {
				members = make(map[*Client]bool)
				h.rooms[client.room] = members
			}
			members[client] = true
			utils.Log.Debugw("[RELAY] client joined", "room", client.room, "members", len(members))

		case client := <-h.unregister:
			h.remove(client)

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.room] {
				if client == msg.sender {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					utils.Log.Warnw("[RELAY] dropping slow client", "room", client.room)
					h.remove(client)
				}
			}

		case reply := <-h.sizes:
			out := make(map[string]int, len(h.rooms))
			for room, members := range h.rooms {
				out[room] = len(members)
			}
			reply <- out
		}
	}
}

// join adds client to its room; it fails once the hub has stopped.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	members, ok := h.rooms[client.room]
	if !ok || !members[client] {
		return
	}
	delete(members, client)
	close(client.send)
	if len(members) == 0 {
		delete(h.rooms, client.room)
	}
	utils.Log.Debugw("[RELAY] client left", "room", client.room, "members", len(members))
}

// Publish queues data for the other members of room when it is a state_update frame.
// It reports whether the frame was accepted.
func (h *Hub) Publish(room string, sender *Client, data []byte) bool {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil || f.Type != StateUpdate {
		return false
	}
	select {
	case h.broadcast <- message{room: room, sender: sender, data: data}:
		return true
	case <-h.done:
		return false
	}
}

// RoomSizes returns the member count of every non-empty room.
func (h *Hub) RoomSizes(ctx context.Context) (map[string]int, error) {
	reply := make(chan map[string]int, 1)
	select {
	case h.sizes <- reply:
	case <-h.done:
		return nil, errHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case out := <-reply:
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
