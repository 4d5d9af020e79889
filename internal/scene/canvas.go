package scene

import (
	"errors"
	"image"
	"log/slog"
	"math"

	"github.com/mickcarey/canva/internal/document"
)

var ErrNotFound = errors.New("object not found")

// Brush configures free drawing.
type Brush struct {
	Width float64
	Color string
}

// Canvas is a retained scene graph: an ordered object stack (index 0 is the
// back), the active selection, a viewport transform and event listeners.
// It is not safe for concurrent use.
type Canvas struct {
	objects []*Object
	byID    map[string]*Object
	active  []*Object

	listeners map[EventType][]subscriber
	nextSub   int

	width      float64
	height     float64
	vpt        Matrix
	clipPath   *Object
	background string

	drawingMode bool
	selection   bool
	brush       Brush

	images      ImageSource
	imageCache  map[string]image.Image
	renderCount int
}

// NewCanvas creates an empty canvas with a surface of the given size.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{
		byID:       make(map[string]*Object),
		listeners:  make(map[EventType][]subscriber),
		width:      width,
		height:     height,
		vpt:        Identity(),
		selection:  true,
		brush:      Brush{Width: 1, Color: "rgb(0, 0, 0)"},
		imageCache: make(map[string]image.Image),
	}
}

// --- Objects ---

// Add appends objects to the top of the stack and fires one added event per object.
func (c *Canvas) Add(objs ...*Object) {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		if _, exists := c.byID[obj.ID]; exists {
			slog.Debug("object already on canvas", "id", obj.ID)
			continue
		}
		c.objects = append(c.objects, obj)
		c.byID[obj.ID] = obj
		if obj.Element != nil && obj.Src != "" {
			c.imageCache[obj.Src] = obj.Element
		}
		c.fire(EventObjectAdded, []*Object{obj})
	}
}

// Remove takes objects off the canvas, dropping them from the selection too.
func (c *Canvas) Remove(objs ...*Object) {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		idx := c.IndexOf(obj)
		if idx < 0 {
			continue
		}
		c.objects = append(c.objects[:idx], c.objects[idx+1:]...)
		delete(c.byID, obj.ID)

		before := len(c.active)
		c.active = without(c.active, obj)
		switch after := len(c.active); {
		case after == before:
		case after == 0:
			c.fire(EventSelectionCleared, nil)
		default:
			c.fire(EventSelectionUpdated, nil)
		}
		c.fire(EventObjectRemoved, []*Object{obj})
	}
}

// Clear discards the selection and removes every object. The viewport and
// clip path are kept.
func (c *Canvas) Clear() {
	c.DiscardActiveObject()
	for len(c.objects) > 0 {
		c.Remove(c.objects[len(c.objects)-1])
	}
	c.background = ""
}

// Objects returns the stack back to front. The slice is a copy.
func (c *Canvas) Objects() []*Object {
	return append([]*Object(nil), c.objects...)
}

func (c *Canvas) Len() int { return len(c.objects) }

// Object looks an object up by id.
func (c *Canvas) Object(id string) (*Object, bool) {
	obj, ok := c.byID[id]
	return obj, ok
}

// IndexOf returns the stack index of obj, or -1.
func (c *Canvas) IndexOf(obj *Object) int {
	for i, o := range c.objects {
		if o == obj {
			return i
		}
	}
	return -1
}

// NotifyModified fires a single modified event for objs.
func (c *Canvas) NotifyModified(objs ...*Object) {
	c.fire(EventObjectModified, objs)
}

// --- Selection ---

// ActiveObjects returns the current selection in selection order.
func (c *Canvas) ActiveObjects() []*Object {
	return append([]*Object(nil), c.active...)
}

// ActiveObject returns the single selected object, a transient active
// selection group when several are selected, or nil.
func (c *Canvas) ActiveObject() *Object {
	switch len(c.active) {
	case 0:
		return nil
	case 1:
		return c.active[0]
	}
	return NewGroup(c.ActiveObjects())
}

// SetActiveObjects replaces the selection. Objects not on the canvas or not
// selectable are skipped.
func (c *Canvas) SetActiveObjects(objs ...*Object) {
	next := make([]*Object, 0, len(objs))
	for _, obj := range objs {
		if obj == nil || !obj.Selectable || c.IndexOf(obj) < 0 || contains(next, obj) {
			continue
		}
		next = append(next, obj)
	}
	if len(next) == 0 {
		c.DiscardActiveObject()
		return
	}
	if sameObjects(c.active, next) {
		return
	}
	hadSelection := len(c.active) > 0
	c.active = next
	if hadSelection {
		c.fire(EventSelectionUpdated, nil)
		return
	}
	c.fire(EventSelectionCreated, nil)
}

// DiscardActiveObject clears the selection, firing cleared if it was non-empty.
func (c *Canvas) DiscardActiveObject() {
	if len(c.active) == 0 {
		return
	}
	c.active = nil
	c.fire(EventSelectionCleared, nil)
}

// --- Z-order ---

// BringForward moves obj one step towards the front.
func (c *Canvas) BringForward(obj *Object) {
	if idx := c.IndexOf(obj); idx >= 0 && idx < len(c.objects)-1 {
		c.objects[idx], c.objects[idx+1] = c.objects[idx+1], c.objects[idx]
	}
}

// SendBackwards moves obj one step towards the back.
func (c *Canvas) SendBackwards(obj *Object) {
	if idx := c.IndexOf(obj); idx > 0 {
		c.objects[idx], c.objects[idx-1] = c.objects[idx-1], c.objects[idx]
	}
}

// SendToBack moves obj to index 0.
func (c *Canvas) SendToBack(obj *Object) {
	c.moveTo(obj, 0)
}

// BringToFront moves obj to the top of the stack.
func (c *Canvas) BringToFront(obj *Object) {
	c.moveTo(obj, len(c.objects)-1)
}

func (c *Canvas) moveTo(obj *Object, to int) {
	idx := c.IndexOf(obj)
	if idx < 0 || idx == to {
		return
	}
	c.objects = append(c.objects[:idx], c.objects[idx+1:]...)
	c.objects = append(c.objects[:to], append([]*Object{obj}, c.objects[to:]...)...)
}

// --- Viewport ---

func (c *Canvas) Size() (float64, float64) { return c.width, c.height }

// SetSize resizes the rendering surface.
func (c *Canvas) SetSize(width, height float64) {
	c.width, c.height = width, height
}

// Center returns the centre of the rendering surface in screen coordinates.
func (c *Canvas) Center() Point {
	return Point{X: c.width / 2, Y: c.height / 2}
}

func (c *Canvas) ViewportTransform() Matrix { return c.vpt }

func (c *Canvas) SetViewportTransform(m Matrix) { c.vpt = m }

// Zoom returns the current zoom level.
func (c *Canvas) Zoom() float64 { return c.vpt[0] }

// ZoomToPoint sets the zoom level while keeping the scene point under the
// screen point p fixed.
func (c *Canvas) ZoomToPoint(p Point, zoom float64) {
	before := p
	scenePoint := c.vpt.Invert().Apply(p)
	vpt := c.vpt
	vpt[0], vpt[3] = zoom, zoom
	after := vpt.Apply(scenePoint)
	vpt[4] += before.X - after.X
	vpt[5] += before.Y - after.Y
	c.vpt = vpt
}

// ToScene converts a screen point into scene coordinates.
func (c *Canvas) ToScene(p Point) Point {
	return c.vpt.Invert().Apply(p)
}

// ToScreen converts a scene point into screen coordinates.
func (c *Canvas) ToScreen(p Point) Point {
	return c.vpt.Apply(p)
}

func (c *Canvas) ClipPath() *Object { return c.clipPath }

func (c *Canvas) SetClipPath(obj *Object) { c.clipPath = obj }

func (c *Canvas) Background() string { return c.background }

func (c *Canvas) SetBackground(color string) { c.background = color }

// --- Drawing mode ---

func (c *Canvas) DrawingMode() bool { return c.drawingMode }

func (c *Canvas) SetDrawingMode(on bool) { c.drawingMode = on }

func (c *Canvas) SelectionEnabled() bool { return c.selection }

func (c *Canvas) SetSelectionEnabled(on bool) { c.selection = on }

// Brush returns the free drawing brush for configuration.
func (c *Canvas) Brush() *Brush { return &c.brush }

// AddPath turns a brush stroke given in scene coordinates into a path object
// and adds it.
func (c *Canvas) AddPath(points []Point) *Object {
	if len(points) == 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	path := make([]document.PathCommand, 0, len(points))
	for i, p := range points {
		op := "L"
		if i == 0 {
			op = "M"
		}
		path = append(path, document.PathCommand{op, p.X - minX, p.Y - minY})
	}

	obj := NewObject(document.ObjectTypePath)
	obj.Left, obj.Top = minX, minY
	obj.Width, obj.Height = maxX-minX, maxY-minY
	obj.Path = path
	obj.Stroke = c.brush.Color
	obj.StrokeWidth = c.brush.Width
	c.Add(obj)
	return obj
}

// --- Rendering ---

// RequestRender schedules a repaint.
func (c *Canvas) RequestRender() { c.renderCount++ }

// Renders returns how many repaints were requested.
func (c *Canvas) Renders() int { return c.renderCount }

func without(list []*Object, obj *Object) []*Object {
	out := make([]*Object, 0, len(list))
	for _, o := range list {
		if o != obj {
			out = append(out, o)
		}
	}
	return out
}

func contains(list []*Object, obj *Object) bool {
	for _, o := range list {
		if o == obj {
			return true
		}
	}
	return false
}

func sameObjects(a, b []*Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
