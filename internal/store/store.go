// Package store persists designs: metadata plus the latest snapshot.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

var ErrNotFound = errors.New("design not found")

// Design is a persisted design. Snapshot holds the serialized canvas and is
// omitted by List.
type Design struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height"`
	Snapshot  json.RawMessage `json:"snapshot,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Store is implemented by Postgres and Memory.
type Store interface {
	Create(ctx context.Context, d *Design) error
	Get(ctx context.Context, id string) (*Design, error)
	// List returns every design, most recently updated first, without snapshots.
	List(ctx context.Context) ([]Design, error)
	// Save overwrites name, size and snapshot and bumps UpdatedAt.
	Save(ctx context.Context, d *Design) error
	Delete(ctx context.Context, id string) error
}
