// Package viewport keeps the fixed-size workspace fitted and centred inside a
// resizable container.
package viewport

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/mickcarey/canva/internal/scene"
)

const (
	// FitRatio leaves a margin around the workspace after fitting.
	FitRatio = 0.85
	ZoomStep = 0.05
	MinZoom  = 0.2
	MaxZoom  = 1.0
)

// Size is a container size in screen pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Controller owns the canvas viewport transform.
type Controller struct {
	canvas    *scene.Canvas
	workspace func() *scene.Object
	container Size
}

// New creates a controller. workspace resolves the current workspace object;
// it may return nil while no workspace exists.
func New(canvas *scene.Canvas, workspace func() *scene.Object) *Controller {
	w, h := canvas.Size()
	return &Controller{
		canvas:    canvas,
		workspace: workspace,
		container: Size{Width: w, Height: h},
	}
}

// Container returns the last container size passed to Fit.
func (c *Controller) Container() Size { return c.container }

// Fit sizes the surface to the container, scales the workspace to FitRatio of
// the largest fit, centres it and clips rendering to it.
func (c *Controller) Fit(container Size) error {
	c.container = container
	c.canvas.SetSize(container.Width, container.Height)

	ws := c.workspace()
	if ws == nil {
		return nil
	}
	wsW, wsH := ws.ScaledSize()
	if wsW <= 0 || wsH <= 0 || container.Width <= 0 || container.Height <= 0 {
		slog.Debug("skip fit", "container", container, "workspaceWidth", wsW, "workspaceHeight", wsH)
		return nil
	}

	scale := math.Min(container.Width/wsW, container.Height/wsH)
	zoom := FitRatio * scale

	c.canvas.SetViewportTransform(scene.Identity())
	c.canvas.ZoomToPoint(c.canvas.Center(), zoom)

	center := ws.CenterPoint()
	vpt := c.canvas.ViewportTransform()
	vpt[4] = container.Width/2 - center.X*vpt[0]
	vpt[5] = container.Height/2 - center.Y*vpt[3]
	c.canvas.SetViewportTransform(vpt)

	clip, err := ws.Clone()
	if err != nil {
		return fmt.Errorf("clone workspace: %w", err)
	}
	c.canvas.SetClipPath(clip)
	c.canvas.RequestRender()
	return nil
}

// Refit repeats Fit with the last container size, e.g. after a workspace resize.
func (c *Controller) Refit() error {
	return c.Fit(c.container)
}

// AutoZoom is the "reset view" action.
func (c *Controller) AutoZoom() error {
	return c.Refit()
}

// ZoomIn raises the zoom by one step, pivoting on the canvas centre.
func (c *Controller) ZoomIn() {
	c.zoomBy(ZoomStep)
}

// ZoomOut lowers the zoom by one step, pivoting on the canvas centre.
func (c *Controller) ZoomOut() {
	c.zoomBy(-ZoomStep)
}

func (c *Controller) zoomBy(delta float64) {
	zoom := clamp(c.canvas.Zoom()+delta, MinZoom, MaxZoom)
	c.canvas.ZoomToPoint(c.canvas.Center(), zoom)
	c.canvas.RequestRender()
}

// Zoom returns the current zoom level.
func (c *Controller) Zoom() float64 { return c.canvas.Zoom() }

// ScreenToScene converts container coordinates into scene coordinates.
func (c *Controller) ScreenToScene(p scene.Point) scene.Point {
	return c.canvas.ToScene(p)
}

// SceneToScreen converts scene coordinates into container coordinates.
func (c *Controller) SceneToScreen(p scene.Point) scene.Point {
	return c.canvas.ToScreen(p)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
