package scene

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/filter"
)

func newRect(left, top, w, h float64) *Object {
	obj := NewObject(document.ObjectTypeRect)
	obj.Left, obj.Top, obj.Width, obj.Height = left, top, w, h
	obj.Fill = "rgba(0,0,0,1)"
	return obj
}

func recordEvents(c *Canvas, types ...EventType) *[]EventType {
	var got []EventType
	for _, t := range types {
		c.On(t, func(ev Event) { got = append(got, ev.Type) })
	}
	return &got
}

func TestSelectionEvents(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b := newRect(0, 0, 10, 10), newRect(20, 20, 10, 10)
	c.Add(a, b)
	got := recordEvents(c, EventSelectionCreated, EventSelectionUpdated, EventSelectionCleared)

	c.SetActiveObjects(a)
	c.SetActiveObjects(a)
	c.SetActiveObjects(a, b)
	c.DiscardActiveObject()
	c.DiscardActiveObject()

	assert.Equal(t, []EventType{EventSelectionCreated, EventSelectionUpdated, EventSelectionCleared}, *got)
	assert.Empty(t, c.ActiveObjects())
}

func TestSetActiveObjectsSkipsUnselectable(t *testing.T) {
	c := NewCanvas(800, 600)
	locked := newRect(0, 0, 10, 10)
	locked.Selectable = false
	free := newRect(0, 0, 10, 10)
	c.Add(locked, free)

	c.SetActiveObjects(locked, free, newRect(0, 0, 1, 1))
	assert.Equal(t, []*Object{free}, c.ActiveObjects())
}

func TestActiveObjectGroupsMultipleSelection(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b := newRect(0, 0, 10, 10), newRect(20, 30, 10, 10)
	c.Add(a, b)

	assert.Nil(t, c.ActiveObject())
	c.SetActiveObjects(a)
	assert.Same(t, a, c.ActiveObject())

	c.SetActiveObjects(a, b)
	group := c.ActiveObject()
	require.NotNil(t, group)
	assert.True(t, group.IsGroup())
	assert.Equal(t, []*Object{a, b}, group.Objects)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 30, Height: 40}, group.BoundingRect())
}

func TestOffRemovesOnlyThatListener(t *testing.T) {
	c := NewCanvas(800, 600)
	var first, second int
	sub := c.On(EventObjectAdded, func(Event) { first++ })
	c.On(EventObjectAdded, func(Event) { second++ })

	c.Add(newRect(0, 0, 1, 1))
	c.Off(sub)
	c.Off(sub)
	c.Add(newRect(0, 0, 1, 1))

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.Equal(t, 1, c.ListenerCount(EventObjectAdded))
}

func TestRemoveDropsSelection(t *testing.T) {
	c := NewCanvas(800, 600)
	a := newRect(0, 0, 10, 10)
	c.Add(a)
	c.SetActiveObjects(a)
	got := recordEvents(c, EventSelectionCleared, EventObjectRemoved)

	c.Remove(a)

	assert.Equal(t, []EventType{EventSelectionCleared, EventObjectRemoved}, *got)
	assert.Equal(t, 0, c.Len())
	_, ok := c.Object(a.ID)
	assert.False(t, ok)
}

func TestRemoveShrinksSelection(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b := newRect(0, 0, 10, 10), newRect(20, 0, 10, 10)
	c.Add(a, b)
	c.SetActiveObjects(a, b)
	got := recordEvents(c, EventSelectionUpdated, EventSelectionCleared, EventObjectRemoved)

	c.Remove(a)
	assert.Equal(t, []EventType{EventSelectionUpdated, EventObjectRemoved}, *got)
	assert.Equal(t, []*Object{b}, c.ActiveObjects())

	c.Remove(b)
	assert.Equal(t, []EventType{EventSelectionUpdated, EventObjectRemoved, EventSelectionCleared, EventObjectRemoved}, *got)
}

func TestRemoveUnselectedKeepsSelection(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b := newRect(0, 0, 10, 10), newRect(20, 0, 10, 10)
	c.Add(a, b)
	c.SetActiveObjects(a)
	got := recordEvents(c, EventSelectionUpdated, EventSelectionCleared)

	c.Remove(b)
	assert.Empty(t, *got)
	assert.Equal(t, []*Object{a}, c.ActiveObjects())
}

func TestZOrder(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b, d := newRect(0, 0, 1, 1), newRect(0, 0, 1, 1), newRect(0, 0, 1, 1)
	c.Add(a, b, d)

	c.BringForward(a)
	assert.Equal(t, []*Object{b, a, d}, c.Objects())
	c.SendBackwards(a)
	assert.Equal(t, []*Object{a, b, d}, c.Objects())
	c.BringToFront(a)
	assert.Equal(t, []*Object{b, d, a}, c.Objects())
	c.SendToBack(a)
	assert.Equal(t, []*Object{a, b, d}, c.Objects())

	c.BringForward(d)
	c.SendBackwards(a)
	assert.Equal(t, []*Object{a, b, d}, c.Objects())
}

func TestZoomToPointKeepsPivot(t *testing.T) {
	c := NewCanvas(800, 600)
	c.SetViewportTransform(Matrix{0.5, 0, 0, 0.5, 40, 20})
	pivot := Point{X: 400, Y: 300}
	before := c.ToScene(pivot)

	c.ZoomToPoint(pivot, 0.8)

	assert.InDelta(t, 0.8, c.Zoom(), 1e-12)
	after := c.ToScene(pivot)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
}

func TestHitTestUsesViewport(t *testing.T) {
	c := NewCanvas(800, 600)
	back := newRect(0, 0, 100, 100)
	back.Selectable = false
	front := newRect(10, 10, 20, 20)
	c.Add(back, front)
	c.SetViewportTransform(Matrix{2, 0, 0, 2, 100, 0})

	assert.Same(t, front, c.HitTest(140, 40))
	assert.Nil(t, c.HitTest(300, 150))
}

func TestDrawCommandsPainterOrder(t *testing.T) {
	c := NewCanvas(800, 600)
	a, b := newRect(0, 0, 10, 10), newRect(5, 5, 10, 10)
	hidden := newRect(0, 0, 10, 10)
	hidden.Visible = false
	c.Add(a, hidden, b)
	clip, err := a.Clone()
	require.NoError(t, err)
	c.SetClipPath(clip)

	cmds := c.DrawCommands()
	require.Len(t, cmds, 5)
	assert.Equal(t, "save", cmds[0].Op)
	assert.Equal(t, "clip", cmds[1].Op)
	assert.Equal(t, a.ID, cmds[2].ObjectID)
	assert.Equal(t, b.ID, cmds[3].ObjectID)
	assert.Equal(t, "restore", cmds[4].Op)
	assert.Equal(t, []float64{1, 0, 0, 1, 10, 10}, cmds[3].Transform)
}

func TestAddPathFromBrush(t *testing.T) {
	c := NewCanvas(800, 600)
	c.Brush().Width = 4
	c.Brush().Color = "#00ff00"

	obj := c.AddPath([]Point{{X: 10, Y: 20}, {X: 30, Y: 5}, {X: 15, Y: 40}})
	require.NotNil(t, obj)

	assert.Equal(t, document.ObjectTypePath, obj.Type)
	assert.Equal(t, 10.0, obj.Left)
	assert.Equal(t, 5.0, obj.Top)
	assert.Equal(t, 20.0, obj.Width)
	assert.Equal(t, 35.0, obj.Height)
	assert.Equal(t, "#00ff00", obj.Stroke)
	assert.Equal(t, 4.0, obj.StrokeWidth)
	assert.Equal(t, document.PathCommand{"M", 0.0, 15.0}, obj.Path[0])
	assert.Nil(t, c.AddPath(nil))
}

func TestSnapshotAllowList(t *testing.T) {
	c := NewCanvas(800, 600)
	ws := FromNode(document.NewWorkspaceNode("obj_ws", 900, 1200))
	c.Add(ws)

	bare := c.ToSnapshot(nil)
	assert.Nil(t, bare.Objects[0].Name)
	assert.Nil(t, bare.Objects[0].Selectable)

	full := c.ToSnapshot(document.AllowList)
	require.NotNil(t, full.Objects[0].Name)
	assert.Equal(t, document.WorkspaceName, *full.Objects[0].Name)
	require.NotNil(t, full.Objects[0].Selectable)
	assert.False(t, *full.Objects[0].Selectable)
}

func TestLoadSnapshotRoundTrip(t *testing.T) {
	c := NewCanvas(800, 600)
	ws := FromNode(document.NewWorkspaceNode("obj_ws", 900, 1200))
	rect := newRect(100, 100, 400, 400)
	rect.LinkData = []byte(`{"href":"x"}`)
	c.Add(ws, rect)
	c.SetBackground("#eeeeee")
	snap := c.ToSnapshot(document.AllowList)

	other := NewCanvas(800, 600)
	require.NoError(t, other.LoadSnapshot(context.Background(), snap))

	assert.Equal(t, snap, other.ToSnapshot(document.AllowList))
	restored, ok := other.Object(ws.ID)
	require.True(t, ok)
	assert.False(t, restored.Selectable)
	assert.Equal(t, "#eeeeee", other.Background())
}

type failingImages struct{}

func (failingImages) Load(context.Context, string) (image.Image, error) {
	return nil, errors.New("unreachable")
}

func TestLoadSnapshotFailureKeepsCanvas(t *testing.T) {
	c := NewCanvas(800, 600)
	keep := newRect(0, 0, 10, 10)
	c.Add(keep)
	c.SetImageSource(failingImages{})

	img := NewObject(document.ObjectTypeImage)
	img.Src = "https://example.com/missing.png"
	snap := document.Snapshot{Version: document.Version, Objects: []document.ObjectNode{img.toNode(nil)}}

	err := c.LoadSnapshot(context.Background(), snap)
	require.Error(t, err)
	assert.Equal(t, []*Object{keep}, c.Objects())

	err = c.LoadSnapshot(context.Background(), document.Snapshot{Version: "0"})
	assert.ErrorIs(t, err, document.ErrInvalidSnapshot)
	assert.Equal(t, 1, c.Len())
}

func TestLoadSnapshotUsesImageCache(t *testing.T) {
	c := NewCanvas(800, 600)
	img := NewObject(document.ObjectTypeImage)
	img.Src = "https://example.com/a.png"
	img.Element = image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Filters = filter.Sepia.Effects()
	c.Add(img)
	snap := c.ToSnapshot(document.AllowList)

	require.NoError(t, c.LoadSnapshot(context.Background(), snap))
	restored, ok := c.Object(img.ID)
	require.True(t, ok)
	assert.NotSame(t, img, restored)
	assert.Same(t, img.Element, restored.Element)
	assert.Equal(t, img.Filters, restored.Filters)
}
