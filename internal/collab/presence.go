package collab

import (
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PresenceManager tracks the cursor and selection of every user in a room.
type PresenceManager struct {
	mu        sync.RWMutex
	presences map[string]*PresencePayload // userID -> presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		presences: make(map[string]*PresencePayload),
	}
}

// ColorFor derives a stable cursor colour for a user.
func ColorFor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return colorful.Hsv(float64(h.Sum32()%360), 0.65, 0.9).Hex()
}

// Join registers a user with an empty presence.
func (pm *PresenceManager) Join(userID, displayName string) *PresencePayload {
	p := &PresencePayload{DisplayName: displayName, Color: ColorFor(userID)}
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[userID] = p
	return p
}

// Update replaces a user's presence, keeping its colour.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	p.Color = ColorFor(userID)
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.presences[userID] = p
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.presences, userID)
}

func (pm *PresenceManager) GetAll() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]*PresencePayload, len(pm.presences))
	for k, v := range pm.presences {
		result[k] = v
	}
	return result
}

func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.GetAll()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
