package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mickcarey/canva/internal/editor"
	"github.com/mickcarey/canva/internal/session"
)

const stopTimeout = 10 * time.Second

type Room struct {
	designID string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
}

func NewRoom(designID string) *Room {
	return &Room{
		designID: designID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
	}
}

// Hub groups clients into one room per design and fans out state, presence
// and notices.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // designID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	sessions   *session.Manager
}

// NewHub creates a hub and routes the manager's editor notices to rooms.
func NewHub(sessions *session.Manager) *Hub {
	h := &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		sessions:   sessions,
	}
	sessions.SetNoticeHandler(h.broadcastNotice)
	return h
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			return
		}
	}
}

// Stop ends Run and saves every dirty session.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := h.sessions.FlushAll(ctx); err != nil {
		slog.Error("save sessions on stop", "error", err)
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		room = NewRoom(client.DesignID)
		h.rooms[client.DesignID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	presence := room.presence.Join(client.UserID, client.DisplayName)

	snap, seq := client.session.Snapshot()
	welcome := newMessage(TypeWelcome, WelcomePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
		Color:    presence.Color,
		Commands: session.Commands(),
		State:    client.session.State(),
		Document: snap,
	})
	welcome.Seq = seq
	client.Send(welcome)

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
		Color:       presence.Color,
	})
	joinMsg.UserID = client.UserID
	h.broadcastToRoom(client.DesignID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.DesignID)
	}
	h.mu.Unlock()

	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{UserID: client.UserID})
	leaveMsg.UserID = client.UserID
	h.broadcastToRoom(client.DesignID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeCmdSubmit:
		h.handleCommand(ctx, sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		sender.Send(newMessage(TypeError, ErrorPayload{Message: "unknown message type " + msg.Type}))
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.DesignID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	outMsg := newMessage(TypePresenceUpdate, presence)
	outMsg.UserID = sender.UserID
	h.broadcastToRoom(sender.DesignID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastNotice(designID string, n editor.Notice) {
	h.broadcastToRoom(designID, newMessage(TypeNotice, NoticePayload{Level: n.Level, Message: n.Message}), "")
}

// broadcastToRoom sends under the read lock so that removeClient cannot
// close a send channel mid-broadcast. Send never blocks.
func (h *Hub) broadcastToRoom(designID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	room, ok := h.rooms[designID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

// RoomSize reports how many clients are connected to a design.
func (h *Hub) RoomSize(designID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if room, ok := h.rooms[designID]; ok {
		return len(room.clients)
	}
	return 0
}
