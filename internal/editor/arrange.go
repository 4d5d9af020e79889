package editor

import (
	"fmt"
	"sort"

	"github.com/mickcarey/canva/internal/scene"
)

// stackOrder returns the selection sorted by stack index, back to front.
func (e *Editor) stackOrder() []*scene.Object {
	objs := append([]*scene.Object(nil), e.selection.Selected()...)
	sort.SliceStable(objs, func(i, j int) bool {
		return e.canvas.IndexOf(objs[i]) < e.canvas.IndexOf(objs[j])
	})
	return objs
}

// BringForward moves each selected object one step up, then pins the
// workspace back to the bottom.
func (e *Editor) BringForward() {
	objs := e.stackOrder()
	for i := len(objs) - 1; i >= 0; i-- {
		e.canvas.BringForward(objs[i])
	}
	e.afterReorder(objs)
}

// SendBackwards moves each selected object one step down, then pins the
// workspace back to the bottom.
func (e *Editor) SendBackwards() {
	objs := e.stackOrder()
	for _, obj := range objs {
		e.canvas.SendBackwards(obj)
	}
	e.afterReorder(objs)
}

func (e *Editor) afterReorder(objs []*scene.Object) {
	if ws := e.Workspace(); ws != nil {
		e.canvas.SendToBack(ws)
	}
	if len(objs) > 0 {
		e.canvas.NotifyModified(objs...)
	}
	e.canvas.RequestRender()
}

// Delete removes every selected object.
func (e *Editor) Delete() {
	objs := e.selection.Selected()
	if len(objs) == 0 {
		return
	}
	e.canvas.DiscardActiveObject()
	e.canvas.Remove(objs...)
	e.canvas.RequestRender()
}

// Move nudges the selection by (dx, dy) scene units.
func (e *Editor) Move(dx, dy float64) {
	objs := e.selection.Selected()
	if len(objs) == 0 {
		return
	}
	for _, obj := range objs {
		obj.Move(dx, dy)
	}
	e.canvas.NotifyModified(objs...)
	e.canvas.RequestRender()
}

// Select replaces the selection with the objects named by ids.
func (e *Editor) Select(ids []string) error {
	objs := make([]*scene.Object, 0, len(ids))
	for _, id := range ids {
		obj, ok := e.canvas.Object(id)
		if !ok {
			return fmt.Errorf("select %s: %w", id, scene.ErrNotFound)
		}
		objs = append(objs, obj)
	}
	e.canvas.SetActiveObjects(objs...)
	e.canvas.RequestRender()
	return nil
}

// SelectAt selects the topmost selectable object under a container point,
// or clears the selection when there is none.
func (e *Editor) SelectAt(x, y float64) *scene.Object {
	if e.canvas.DrawingMode() || !e.canvas.SelectionEnabled() {
		return nil
	}
	hit := e.canvas.HitTest(x, y)
	if hit == nil {
		e.canvas.DiscardActiveObject()
	} else {
		e.canvas.SetActiveObjects(hit)
	}
	e.canvas.RequestRender()
	return hit
}

// SelectAll selects every selectable object.
func (e *Editor) SelectAll() {
	e.canvas.SetActiveObjects(e.canvas.Objects()...)
	e.canvas.RequestRender()
}

func (e *Editor) Deselect() {
	e.canvas.DiscardActiveObject()
	e.canvas.RequestRender()
}

// --- Drawing mode ---

// EnableDrawingMode clears the selection and arms the brush with the current
// stroke defaults.
func (e *Editor) EnableDrawingMode() {
	e.canvas.DiscardActiveObject()
	e.canvas.RequestRender()

	brush := e.canvas.Brush()
	brush.Width = e.defaults.StrokeWidth
	brush.Color = e.defaults.StrokeColor
	e.canvas.SetDrawingMode(true)
	e.canvas.SetSelectionEnabled(false)
}

func (e *Editor) DisableDrawingMode() {
	e.canvas.SetDrawingMode(false)
	e.canvas.SetSelectionEnabled(true)
}

// Draw adds a freehand stroke given in container coordinates. Outside
// drawing mode it does nothing.
func (e *Editor) Draw(points []scene.Point) *scene.Object {
	if !e.canvas.DrawingMode() || len(points) == 0 {
		return nil
	}
	scenePoints := make([]scene.Point, len(points))
	for i, p := range points {
		scenePoints[i] = e.viewport.ScreenToScene(p)
	}
	obj := e.canvas.AddPath(scenePoints)
	e.canvas.RequestRender()
	return obj
}
