package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/scene"
)

// SVG writes area of the canvas as vector markup. Images are embedded as PNG
// data URLs with their filters applied.
func SVG(w io.Writer, c *scene.Canvas, area scene.Rect) error {
	width, height := outputSize(area)
	doc := svg.New(w)
	doc.Start(width, height)

	if bg, ok := ParseColor(c.Background()); ok {
		doc.Rect(0, 0, width, height, "fill:"+cssColor(bg))
	}

	base := areaMatrix(area)
	for _, obj := range c.Objects() {
		if !drawable(obj) {
			continue
		}
		m := base.Multiply(obj.Matrix())
		switch {
		case obj.IsImage():
			if err := svgImage(doc, obj, m); err != nil {
				return err
			}
		case obj.IsText():
			svgText(doc, obj, m)
		default:
			svgPath(doc, obj, m)
		}
	}

	doc.End()
	return nil
}

func svgTransform(m scene.Matrix) string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = string(appendFloat(nil, v))
	}
	return "matrix(" + strings.Join(parts, " ") + ")"
}

func svgPath(doc *svg.SVG, obj *scene.Object, m scene.Matrix) {
	path := obj.LocalPath()
	if len(path) == 0 {
		return
	}
	var pw pathWriter
	tracePath(path, m, &pw)

	style := []string{"fill:none"}
	if fill, ok := ParseColor(obj.Fill); ok {
		style[0] = "fill:" + cssColor(withOpacity(fill, obj.Opacity))
	}
	if stroke, ok := ParseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
		style = append(style,
			"stroke:"+cssColor(withOpacity(stroke, obj.Opacity)),
			"stroke-width:"+string(appendFloat(nil, obj.StrokeWidth*strokeScale(m))),
		)
		if len(obj.StrokeDashArray) > 0 {
			dashes := make([]string, len(obj.StrokeDashArray))
			for i, v := range obj.StrokeDashArray {
				dashes[i] = string(appendFloat(nil, v))
			}
			style = append(style, "stroke-dasharray:"+strings.Join(dashes, ","))
		}
	}
	doc.Path(pw.String(), strings.Join(style, ";"))
}

func svgImage(doc *svg.SVG, obj *scene.Object, m scene.Matrix) error {
	href := obj.Src
	if obj.Element != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, filter.Apply(obj.Element, obj.Filters)); err != nil {
			return fmt.Errorf("encode image %s: %w", obj.ID, err)
		}
		href = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	if href == "" {
		return nil
	}
	w, h := int(math.Round(obj.Width)), int(math.Round(obj.Height))
	doc.Gtransform(svgTransform(m))
	doc.Image(-w/2, -h/2, w, h, href, `opacity="`+string(appendFloat(nil, obj.Opacity))+`"`)
	doc.Gend()
	return nil
}

func svgText(doc *svg.SVG, obj *scene.Object, m scene.Matrix) {
	fill, ok := ParseColor(obj.Fill)
	if !ok || obj.Text == "" {
		return
	}
	anchor, x := "start", -obj.Width/2
	switch obj.TextAlign {
	case "center":
		anchor, x = "middle", 0
	case "right":
		anchor, x = "end", obj.Width/2
	}
	style := []string{
		"fill:" + cssColor(withOpacity(fill, obj.Opacity)),
		"font-family:" + obj.FontFamily,
		"font-size:" + string(appendFloat(nil, obj.FontSize)) + "px",
		"font-weight:" + strconv.Itoa(obj.FontWeight),
		"text-anchor:" + anchor,
	}
	if obj.FontStyle != "" {
		style = append(style, "font-style:"+obj.FontStyle)
	}
	var decorations []string
	if obj.Underline {
		decorations = append(decorations, "underline")
	}
	if obj.Linethrough {
		decorations = append(decorations, "line-through")
	}
	if len(decorations) > 0 {
		style = append(style, "text-decoration:"+strings.Join(decorations, " "))
	}

	lines, advance := textLines(obj)
	doc.Gtransform(svgTransform(m))
	for i, line := range lines {
		y := -obj.Height/2 + obj.FontSize + float64(i)*advance
		doc.Text(int(math.Round(x)), int(math.Round(y)), line, strings.Join(style, ";"))
	}
	doc.Gend()
}

func appendFloat(b []byte, v float64) []byte {
	return strconv.AppendFloat(b, math.Round(v*1000)/1000, 'f', -1, 64)
}
