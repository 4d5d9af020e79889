package export

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/scene"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
)

// regularFont returns the Go regular face source used for every font family.
func regularFont() *text.FontSource {
	fontOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			slog.Error("failed to load font", "error", err)
			return
		}
		fontSource = src
	})
	return fontSource
}

// PNG rasterises area of the canvas.
func PNG(w io.Writer, c *scene.Canvas, area scene.Rect) error {
	dc, err := rasterize(c, area)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// JPEG rasterises area of the canvas onto a white page.
func JPEG(w io.Writer, c *scene.Canvas, area scene.Rect, quality int) error {
	dc, err := rasterize(c, area)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodeJPEG(w, quality); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

func rasterize(c *scene.Canvas, area scene.Rect) (*gg.Context, error) {
	width, height := outputSize(area)
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.Hex("#ffffff"))
	if bg, ok := ParseColor(c.Background()); ok {
		dc.ClearWithColor(gg.FromColor(bg))
	}

	base := areaMatrix(area)
	for _, obj := range c.Objects() {
		if !drawable(obj) {
			continue
		}
		if err := drawObject(dc, obj, base.Multiply(obj.Matrix())); err != nil {
			dc.Close()
			return nil, fmt.Errorf("draw %s: %w", obj.ID, err)
		}
	}
	return dc, nil
}

// ggPen feeds transformed segments into a gg path.
type ggPen struct{ dc *gg.Context }

func (p ggPen) MoveTo(x, y float64)         { p.dc.MoveTo(x, y) }
func (p ggPen) LineTo(x, y float64)         { p.dc.LineTo(x, y) }
func (p ggPen) QuadTo(cx, cy, x, y float64) { p.dc.QuadraticTo(cx, cy, x, y) }
func (p ggPen) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}
func (p ggPen) Close() { p.dc.ClosePath() }

func drawObject(dc *gg.Context, obj *scene.Object, m scene.Matrix) error {
	switch {
	case obj.IsImage():
		drawImage(dc, obj, m)
		return nil
	case obj.IsText():
		drawText(dc, obj, m)
		return nil
	}

	path := obj.LocalPath()
	if len(path) == 0 {
		return nil
	}
	if fill, ok := ParseColor(obj.Fill); ok {
		tracePath(path, m, ggPen{dc})
		dc.SetColor(withOpacity(fill, obj.Opacity))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if stroke, ok := ParseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
		tracePath(path, m, ggPen{dc})
		dc.SetColor(withOpacity(stroke, obj.Opacity))
		dc.SetLineWidth(obj.StrokeWidth * strokeScale(m))
		if len(obj.StrokeDashArray) > 0 {
			dc.SetDash(obj.StrokeDashArray...)
		} else {
			dc.ClearDash()
		}
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func drawImage(dc *gg.Context, obj *scene.Object, m scene.Matrix) {
	if obj.Element == nil {
		slog.Debug("skip image without pixels", "id", obj.ID, "src", obj.Src)
		return
	}
	img := filter.Apply(obj.Element, obj.Filters)

	dc.Push()
	defer dc.Pop()
	dc.SetTransform(gg.Matrix{A: m[0], B: m[2], C: m[4], D: m[1], E: m[3], F: m[5]})
	dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         -obj.Width / 2,
		Y:         -obj.Height / 2,
		DstWidth:  obj.Width,
		DstHeight: obj.Height,
		Opacity:   obj.Opacity,
	})
}

// drawText draws each line unrotated at its transformed position.
func drawText(dc *gg.Context, obj *scene.Object, m scene.Matrix) {
	fill, ok := ParseColor(obj.Fill)
	src := regularFont()
	if !ok || src == nil || obj.Text == "" {
		return
	}
	scale := strokeScale(m)
	if scale == 0 {
		return
	}
	dc.SetFont(src.Face(obj.FontSize * scale))
	dc.SetColor(withOpacity(fill, obj.Opacity))

	lines, advance := textLines(obj)
	for i, line := range lines {
		lineWidth, _ := dc.MeasureString(line)
		x := -obj.Width/2 + lineOffsetX(obj.TextAlign, obj.Width, lineWidth/scale)
		y := -obj.Height/2 + obj.FontSize + float64(i)*advance
		p := m.Apply(scene.Point{X: x, Y: y})
		dc.DrawString(line, p.X, p.Y)
	}
}
