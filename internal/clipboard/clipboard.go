// Package clipboard holds at most one cloned object or selection group and
// pastes it back with a cascading offset.
package clipboard

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mickcarey/canva/internal/scene"
)

// PasteOffset is added to both axes on every paste.
const PasteOffset = 10

var ErrEmpty = errors.New("clipboard is empty")

type Clipboard struct {
	canvas *scene.Canvas
	slot   *scene.Object
}

func New(canvas *scene.Canvas) *Clipboard {
	return &Clipboard{canvas: canvas}
}

// HasContent reports whether a paste would succeed.
func (c *Clipboard) HasContent() bool { return c.slot != nil }

// Copy clones the active selection into the slot. With nothing selected the
// slot is left as it was.
func (c *Clipboard) Copy() error {
	active := c.canvas.ActiveObject()
	if active == nil {
		slog.Debug("copy with empty selection")
		return nil
	}
	clone, err := active.Clone()
	if err != nil {
		return fmt.Errorf("copy selection: %w", err)
	}
	c.slot = clone
	return nil
}

// Paste adds a fresh clone of the slot offset by PasteOffset, selects it and
// advances the slot so the next paste cascades further. A group is dissolved
// into its members.
func (c *Clipboard) Paste() ([]*scene.Object, error) {
	if c.slot == nil {
		return nil, ErrEmpty
	}
	clone, err := c.slot.Clone()
	if err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}

	c.canvas.DiscardActiveObject()
	clone.Move(PasteOffset, PasteOffset)
	clone.Evented = true

	pasted := []*scene.Object{clone}
	if clone.IsGroup() {
		pasted = clone.Objects
	}
	c.canvas.Add(pasted...)

	c.slot.Move(PasteOffset, PasteOffset)

	c.canvas.SetActiveObjects(pasted...)
	c.canvas.RequestRender()
	return pasted, nil
}

// Cut copies the selection and removes it from the canvas.
func (c *Clipboard) Cut() error {
	objs := c.canvas.ActiveObjects()
	if len(objs) == 0 {
		return nil
	}
	if err := c.Copy(); err != nil {
		return err
	}
	c.canvas.DiscardActiveObject()
	c.canvas.Remove(objs...)
	c.canvas.RequestRender()
	return nil
}
