// Package export renders a canvas area to PNG, JPEG, SVG, PDF or the
// filtered JSON document layout.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown export format")

const jpegQuality = 90

// ParseFormat accepts a format name as used in URLs; "jpg" is an alias.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatJPEG, FormatSVG, FormatPDF, FormatJSON:
		return f, nil
	case "jpg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/json"
}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// Write renders area of the canvas in format f.
func Write(w io.Writer, f Format, c *scene.Canvas, area scene.Rect) error {
	switch f {
	case FormatPNG:
		return PNG(w, c, area)
	case FormatJPEG:
		return JPEG(w, c, area, jpegQuality)
	case FormatSVG:
		return SVG(w, c, area)
	case FormatPDF:
		return PDF(w, c, area)
	case FormatJSON:
		return JSON(w, c)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// JSON writes the allow-list filtered document, the same layout history
// entries and saved designs use.
func JSON(w io.Writer, c *scene.Canvas) error {
	data, err := document.Marshal(c.ToSnapshot(document.AllowList))
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// FromSnapshot builds a detached canvas from a saved document and returns
// it with the workspace area, for exporting designs without a live editor.
func FromSnapshot(ctx context.Context, snap document.Snapshot, images scene.ImageSource) (*scene.Canvas, scene.Rect, error) {
	ws, ok := snap.Workspace()
	if !ok {
		return nil, scene.Rect{}, fmt.Errorf("%w: no workspace", document.ErrInvalidSnapshot)
	}
	c := scene.NewCanvas(ws.Width, ws.Height)
	c.SetImageSource(images)
	if err := c.LoadSnapshot(ctx, snap); err != nil {
		return nil, scene.Rect{}, fmt.Errorf("load snapshot: %w", err)
	}
	obj, _ := c.Object(ws.ID)
	return c, obj.BoundingRect(), nil
}

// areaMatrix maps scene coordinates into output coordinates with the area's
// top-left corner at the origin.
func areaMatrix(area scene.Rect) scene.Matrix {
	return scene.Translate(-area.X, -area.Y)
}

// outputSize rounds the area up to whole pixels.
func outputSize(area scene.Rect) (int, int) {
	return max(1, int(math.Ceil(area.Width))), max(1, int(math.Ceil(area.Height)))
}

// strokeScale approximates how much m scales line widths.
func strokeScale(m scene.Matrix) float64 {
	return math.Sqrt(math.Abs(m[0]*m[3] - m[1]*m[2]))
}

// drawable reports whether obj produces output.
func drawable(obj *scene.Object) bool {
	return obj.Visible && obj.Opacity > 0 && !obj.IsGroup()
}

// textLines splits a text box into lines and returns the line advance.
func textLines(obj *scene.Object) ([]string, float64) {
	return strings.Split(obj.Text, "\n"), obj.FontSize * 1.16
}

// lineOffsetX returns the horizontal start of a line inside a box of width w.
func lineOffsetX(align string, w, lineWidth float64) float64 {
	switch align {
	case "center":
		return (w - lineWidth) / 2
	case "right":
		return w - lineWidth
	}
	return 0
}
