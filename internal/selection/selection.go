// Package selection mirrors the canvas selection into editor state.
package selection

import (
	"github.com/mickcarey/canva/internal/scene"
)

// Tracker republishes the canvas selection as an ordered list.
type Tracker struct {
	canvas   *scene.Canvas
	subs     []scene.Subscription
	selected []*scene.Object

	onClear  func()
	onChange func([]*scene.Object)
}

type Option func(*Tracker)

// WithClearCallback runs fn whenever the selection is cleared.
func WithClearCallback(fn func()) Option {
	return func(t *Tracker) { t.onClear = fn }
}

// WithChangeListener runs fn with the new selection after every selection event.
func WithChangeListener(fn func([]*scene.Object)) Option {
	return func(t *Tracker) { t.onChange = fn }
}

func New(opts ...Option) *Tracker {
	t := &Tracker{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Attach subscribes to canvas selection events, detaching from any previous
// canvas first so handlers never accumulate.
func (t *Tracker) Attach(canvas *scene.Canvas) {
	t.Detach()
	t.canvas = canvas
	t.selected = canvas.ActiveObjects()
	t.subs = []scene.Subscription{
		canvas.On(scene.EventSelectionCreated, t.handleSelected),
		canvas.On(scene.EventSelectionUpdated, t.handleSelected),
		canvas.On(scene.EventSelectionCleared, t.handleCleared),
	}
}

// Detach removes every subscription.
func (t *Tracker) Detach() {
	if t.canvas == nil {
		return
	}
	for _, sub := range t.subs {
		t.canvas.Off(sub)
	}
	t.subs = nil
	t.canvas = nil
}

// Selected returns the current selection. Empty means nothing is selected.
func (t *Tracker) Selected() []*scene.Object {
	return t.selected
}

// First returns the first selected object, or nil.
func (t *Tracker) First() *scene.Object {
	if len(t.selected) == 0 {
		return nil
	}
	return t.selected[0]
}

func (t *Tracker) Empty() bool { return len(t.selected) == 0 }

func (t *Tracker) handleSelected(ev scene.Event) {
	t.selected = ev.Selected
	if t.onChange != nil {
		t.onChange(t.selected)
	}
}

func (t *Tracker) handleCleared(scene.Event) {
	t.selected = nil
	if t.onClear != nil {
		t.onClear()
	}
	if t.onChange != nil {
		t.onChange(t.selected)
	}
}
