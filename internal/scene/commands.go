package scene

import (
	"encoding/json"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/filter"
)

// DrawCommand is a single drawing operation for the frontend to execute on a
// Canvas2D context.
type DrawCommand struct {
	Op              string                 `json:"op"` // "path", "image", "text", "save", "restore", "clip"
	ObjectID        string                 `json:"objectId,omitempty"`
	Transform       []float64              `json:"transform,omitempty"`
	Path            []document.PathCommand `json:"path,omitempty"`
	Fill            string                 `json:"fill,omitempty"`
	Stroke          string                 `json:"stroke,omitempty"`
	StrokeWidth     float64                `json:"strokeWidth,omitempty"`
	StrokeDashArray []float64              `json:"strokeDashArray,omitempty"`
	Opacity         float64                `json:"opacity,omitempty"`
	Shadow          *document.Shadow       `json:"shadow,omitempty"`

	Src         string          `json:"src,omitempty"`
	ImageWidth  float64         `json:"imageWidth,omitempty"`
	ImageHeight float64         `json:"imageHeight,omitempty"`
	Filters     []filter.Effect `json:"filters,omitempty"`

	Text        string  `json:"text,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontWeight  int     `json:"fontWeight,omitempty"`
	FontStyle   string  `json:"fontStyle,omitempty"`
	TextAlign   string  `json:"textAlign,omitempty"`
	Underline   bool    `json:"underline,omitempty"`
	Linethrough bool    `json:"linethrough,omitempty"`
}

// DrawCommands compiles the canvas into a command buffer in painter's order
// (back to front), with the viewport transform applied and the clip path
// wrapped around everything.
func (c *Canvas) DrawCommands() []DrawCommand {
	var commands []DrawCommand

	hasClip := c.clipPath != nil
	if hasClip {
		commands = append(commands,
			DrawCommand{Op: "save"},
			DrawCommand{
				Op:        "clip",
				Transform: c.vpt.Multiply(c.clipPath.Matrix()).Slice(),
				Path:      c.clipPath.LocalPath(),
			},
		)
	}

	for _, obj := range c.objects {
		if cmd, ok := c.compileObject(obj); ok {
			commands = append(commands, cmd)
		}
	}

	if hasClip {
		commands = append(commands, DrawCommand{Op: "restore"})
	}
	return commands
}

func (c *Canvas) compileObject(obj *Object) (DrawCommand, bool) {
	if !obj.Visible {
		return DrawCommand{}, false
	}
	cmd := DrawCommand{
		ObjectID:  obj.ID,
		Transform: c.vpt.Multiply(obj.Matrix()).Slice(),
		Opacity:   obj.Opacity,
		Shadow:    obj.Shadow,
	}

	switch {
	case obj.IsImage():
		if obj.Src == "" {
			return DrawCommand{}, false
		}
		cmd.Op = "image"
		cmd.Src = obj.Src
		cmd.ImageWidth = obj.Width
		cmd.ImageHeight = obj.Height
		cmd.Filters = obj.Filters
	case obj.IsText():
		cmd.Op = "text"
		cmd.Text = obj.Text
		cmd.Fill = obj.Fill
		cmd.FontFamily = obj.FontFamily
		cmd.FontSize = obj.FontSize
		cmd.FontWeight = obj.FontWeight
		cmd.FontStyle = obj.FontStyle
		cmd.TextAlign = obj.TextAlign
		cmd.Underline = obj.Underline
		cmd.Linethrough = obj.Linethrough
	default:
		path := obj.LocalPath()
		if len(path) == 0 {
			return DrawCommand{}, false
		}
		cmd.Op = "path"
		cmd.Path = path
		cmd.Fill = obj.Fill
		cmd.Stroke = obj.Stroke
		cmd.StrokeWidth = obj.StrokeWidth
		cmd.StrokeDashArray = obj.StrokeDashArray
	}
	return cmd, true
}

// DrawCommandsJSON serializes the command buffer.
func (c *Canvas) DrawCommandsJSON() (string, error) {
	data, err := json.Marshal(c.DrawCommands())
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// HitTest returns the topmost selectable object under the screen point
// (x, y), or nil.
func (c *Canvas) HitTest(x, y float64) *Object {
	p := c.ToScene(Point{X: x, Y: y})
	for i := len(c.objects) - 1; i >= 0; i-- {
		obj := c.objects[i]
		if !obj.Visible || !obj.Selectable || !obj.Evented {
			continue
		}
		if obj.BoundingRect().Contains(p) {
			return obj
		}
	}
	return nil
}

// Bounds returns the combined scene-space bounding box of objs.
func Bounds(objs []*Object) Rect {
	return groupBounds(objs)
}
