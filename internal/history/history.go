// Package history records serialized canvas snapshots and replays them for
// undo and redo.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

// Engine keeps an ordered log of snapshots and a cursor on the entry that
// matches the live canvas. Saving after an undo drops the entries beyond
// the cursor.
type Engine struct {
	canvas    *scene.Canvas
	allow     []string
	capacity  int
	onRestore func()

	entries   [][]byte
	cursor    int
	suspended bool
	subs      []scene.Subscription
	revision  uint64
}

type Option func(*Engine)

// WithCapacity bounds the number of entries kept; the oldest are dropped
// first. Without it the log is unbounded.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		if n > 1 {
			e.capacity = n
		}
	}
}

// WithRestoreHook runs fn after every successful undo or redo.
func WithRestoreHook(fn func()) Option {
	return func(e *Engine) { e.onRestore = fn }
}

// New creates an engine recording canvas and subscribes it to structural
// change events. Call Init once the initial scene is in place.
func New(canvas *scene.Canvas, opts ...Option) *Engine {
	e := &Engine{
		canvas: canvas,
		allow:  document.AllowList,
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, t := range []scene.EventType{scene.EventObjectAdded, scene.EventObjectModified, scene.EventObjectRemoved} {
		e.subs = append(e.subs, canvas.On(t, e.handleChange))
	}
	return e
}

// Init discards all entries and records the current scene as entry 0.
func (e *Engine) Init() error {
	data, err := e.serialize()
	if err != nil {
		return err
	}
	e.entries = [][]byte{data}
	e.cursor = 0
	e.revision++
	return nil
}

// Replace loads snap without recording it and makes it the only entry.
func (e *Engine) Replace(ctx context.Context, snap document.Snapshot) error {
	e.suspended = true
	err := e.canvas.LoadSnapshot(ctx, snap)
	e.suspended = false
	if err != nil {
		return fmt.Errorf("replace canvas: %w", err)
	}
	e.canvas.RequestRender()
	return e.Init()
}

// Detach stops recording canvas events.
func (e *Engine) Detach() {
	for _, sub := range e.subs {
		e.canvas.Off(sub)
	}
	e.subs = nil
}

func (e *Engine) handleChange(ev scene.Event) {
	if err := e.Save(); err != nil {
		slog.Error("failed to save history", "event", ev.Type, "error", err)
	}
}

// Save appends the current scene. It does nothing while a restore is in flight.
func (e *Engine) Save() error {
	if e.suspended {
		return nil
	}
	data, err := e.serialize()
	if err != nil {
		return err
	}
	if len(e.entries) > 0 {
		e.entries = e.entries[: e.cursor+1 : e.cursor+1]
	}
	e.entries = append(e.entries, data)
	if e.capacity > 0 {
		if over := len(e.entries) - e.capacity; over > 0 {
			e.entries = e.entries[over:]
		}
	}
	e.cursor = len(e.entries) - 1
	e.revision++
	return nil
}

func (e *Engine) serialize() ([]byte, error) {
	data, err := document.Marshal(e.canvas.ToSnapshot(e.allow))
	if err != nil {
		return nil, fmt.Errorf("serialize canvas: %w", err)
	}
	return data, nil
}

// Undo restores the previous entry. At entry 0 it does nothing.
func (e *Engine) Undo(ctx context.Context) error {
	if !e.CanUndo() {
		return nil
	}
	return e.restore(ctx, e.cursor-1)
}

// Redo restores the next entry. At the last entry it does nothing.
func (e *Engine) Redo(ctx context.Context) error {
	if !e.CanRedo() {
		return nil
	}
	return e.restore(ctx, e.cursor+1)
}

// restore loads entry idx with recording suspended. On failure the canvas
// and cursor are left as they were.
func (e *Engine) restore(ctx context.Context, idx int) error {
	snap, err := document.Unmarshal(e.entries[idx])
	if err != nil {
		return fmt.Errorf("restore entry %d: %w", idx, err)
	}

	e.suspended = true
	defer func() { e.suspended = false }()

	if err := e.canvas.LoadSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("restore entry %d: %w", idx, err)
	}
	e.canvas.RequestRender()
	e.cursor = idx
	e.revision++
	slog.Debug("history restored", "cursor", idx, "entries", len(e.entries))

	if e.onRestore != nil {
		e.onRestore()
	}
	return nil
}

// Revision increases every time the recorded scene changes: a save, a
// restore or a reset.
func (e *Engine) Revision() uint64 { return e.revision }

func (e *Engine) CanUndo() bool { return e.cursor > 0 }

func (e *Engine) CanRedo() bool { return e.cursor < len(e.entries)-1 }

// Suspended reports whether recording is paused for a restore.
func (e *Engine) Suspended() bool { return e.suspended }

func (e *Engine) Len() int { return len(e.entries) }

func (e *Engine) Cursor() int { return e.cursor }

// Current returns the entry at the cursor.
func (e *Engine) Current() []byte {
	if len(e.entries) == 0 {
		return nil
	}
	return e.entries[e.cursor]
}

// Entry returns entry i.
func (e *Engine) Entry(i int) []byte {
	return e.entries[i]
}
