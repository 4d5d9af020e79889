package collab

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mickcarey/canva/internal/design"
	"github.com/mickcarey/canva/internal/session"
	"github.com/mickcarey/canva/internal/typeid"
)

// Handler upgrades /ws/design/{designId} connections and attaches them to the
// design's shared session.
type Handler struct {
	hub      *Hub
	sessions *session.Manager
	origins  []string
}

func NewHandler(hub *Hub, sessions *session.Manager, origins []string) *Handler {
	return &Handler{hub: hub, sessions: sessions, origins: origins}
}

func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	designID := mux.Vars(r)["designId"]

	// Anonymous editing: the display name is whatever the client asks for.
	userID := "anon-" + uuid.New().String()[:8]
	displayName := strings.TrimSpace(r.URL.Query().Get("name"))
	if displayName == "" {
		displayName = "Anonymous"
	}

	sess, err := h.sessions.Open(r.Context(), designID)
	if err != nil {
		if errors.Is(err, design.ErrNotFound) {
			http.Error(w, "design not found", http.StatusNotFound)
			return
		}
		slog.Error("open session", "error", err, "design", designID)
		http.Error(w, "failed to open design", http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := h.sessions.Release(context.WithoutCancel(r.Context()), designID); err != nil {
			slog.Error("release session", "error", err, "design", designID)
		}
	}()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, sess, userID, displayName, typeid.NewClientID())
	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
