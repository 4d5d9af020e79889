package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/mickcarey/canva/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1 << 20
)

// Client is one websocket connection editing a design through its shared
// session.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	session     *session.Session
	UserID      string
	DisplayName string
	DesignID    string
	ClientID    string

	// stale is set when a message was dropped; the write pump then sends
	// the full design state once the buffer drains.
	stale atomic.Bool
}

func NewClient(hub *Hub, conn *websocket.Conn, sess *session.Session, userID, displayName, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		session:     sess,
		UserID:      userID,
		DisplayName: displayName,
		DesignID:    sess.ID(),
		ClientID:    clientID,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("read error", "error", err, "user", c.UserID, "design", c.DesignID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			c.Send(newMessage(TypeError, ErrorPayload{Message: "invalid message"}))
			continue
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.DesignID = c.DesignID

		c.hub.handleMessage(ctx, c, &msg)
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, message); err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}
			if len(c.send) == 0 && c.stale.CompareAndSwap(true, false) {
				if err := c.resync(ctx); err != nil {
					slog.Debug("resync error", "error", err, "user", c.UserID)
					return
				}
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// resync sends the current state and document of the design.
func (c *Client) resync(ctx context.Context) error {
	snap, seq := c.session.Snapshot()
	msg := newMessage(TypeState, StatePayload{State: c.session.State(), Document: &snap})
	msg.Seq = seq
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.write(ctx, data)
}

// Send queues msg without blocking. A full buffer drops the message and
// schedules a resync.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.stale.Store(true)
		slog.Warn("client send buffer full, resync scheduled", "user", c.UserID, "type", msg.Type)
	}
}
