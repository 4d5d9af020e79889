package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

func addRects(c *scene.Canvas, n int) []*scene.Object {
	objs := make([]*scene.Object, n)
	for i := range objs {
		objs[i] = scene.NewObject(document.ObjectTypeRect)
		c.Add(objs[i])
	}
	return objs
}

func TestMirrorsSelection(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	objs := addRects(c, 2)
	cleared := 0
	tr := New(WithClearCallback(func() { cleared++ }))
	tr.Attach(c)

	assert.True(t, tr.Empty())
	c.SetActiveObjects(objs[1], objs[0])
	assert.Equal(t, []*scene.Object{objs[1], objs[0]}, tr.Selected())
	assert.Same(t, objs[1], tr.First())

	c.SetActiveObjects(objs[0])
	assert.Equal(t, []*scene.Object{objs[0]}, tr.Selected())

	c.DiscardActiveObject()
	assert.Empty(t, tr.Selected())
	assert.Nil(t, tr.First())
	assert.Equal(t, 1, cleared)
}

func TestSelectionIsReplacedWholesale(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	objs := addRects(c, 2)
	tr := New()
	tr.Attach(c)

	c.SetActiveObjects(objs[0])
	before := tr.Selected()
	c.SetActiveObjects(objs[0], objs[1])

	assert.Len(t, before, 1)
	assert.Len(t, tr.Selected(), 2)
}

func TestReattachDoesNotDuplicateHandlers(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	changes := 0
	tr := New(WithChangeListener(func([]*scene.Object) { changes++ }))

	tr.Attach(c)
	tr.Attach(c)
	assert.Equal(t, 1, c.ListenerCount(scene.EventSelectionCreated))

	objs := addRects(c, 1)
	c.SetActiveObjects(objs[0])
	assert.Equal(t, 1, changes)

	other := scene.NewCanvas(100, 100)
	tr.Attach(other)
	assert.Equal(t, 0, c.ListenerCount(scene.EventSelectionCreated))
	assert.Equal(t, 1, other.ListenerCount(scene.EventSelectionCleared))

	tr.Detach()
	assert.Equal(t, 0, other.ListenerCount(scene.EventSelectionCleared))
}

func TestRemovingSelectedObjectUpdatesTracker(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	objs := addRects(c, 3)
	tr := New()
	tr.Attach(c)

	c.SetActiveObjects(objs[0], objs[1])
	c.Remove(objs[0])
	assert.Equal(t, []*scene.Object{objs[1]}, tr.Selected())
}
