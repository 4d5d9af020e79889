package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/scene"
)

// PDF writes area of the canvas as a single page sized to the area, in points.
func PDF(w io.Writer, c *scene.Canvas, area scene.Rect) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: area.Width, Ht: area.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	if bg, ok := ParseColor(c.Background()); ok {
		pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		pdf.Rect(0, 0, area.Width, area.Height, "F")
	}

	base := areaMatrix(area)
	for _, obj := range c.Objects() {
		if !drawable(obj) {
			continue
		}
		m := base.Multiply(obj.Matrix())
		switch {
		case obj.IsImage():
			if err := pdfImage(pdf, obj, m); err != nil {
				return err
			}
		case obj.IsText():
			pdfText(pdf, obj, m)
		default:
			pdfPath(pdf, obj, m)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// pdfPen feeds transformed segments into the current gofpdf path.
type pdfPen struct{ pdf *gofpdf.Fpdf }

func (p pdfPen) MoveTo(x, y float64)         { p.pdf.MoveTo(x, y) }
func (p pdfPen) LineTo(x, y float64)         { p.pdf.LineTo(x, y) }
func (p pdfPen) QuadTo(cx, cy, x, y float64) { p.pdf.CurveTo(cx, cy, x, y) }
func (p pdfPen) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.pdf.CurveBezierCubicTo(c1x, c1y, c2x, c2y, x, y)
}
func (p pdfPen) Close() { p.pdf.ClosePath() }

func pdfPath(pdf *gofpdf.Fpdf, obj *scene.Object, m scene.Matrix) {
	path := obj.LocalPath()
	if len(path) == 0 {
		return
	}
	style := ""
	if fill, ok := ParseColor(obj.Fill); ok {
		pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		style += "F"
	}
	if stroke, ok := ParseColor(obj.Stroke); ok && obj.StrokeWidth > 0 {
		pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
		pdf.SetLineWidth(obj.StrokeWidth * strokeScale(m))
		pdf.SetDashPattern(obj.StrokeDashArray, 0)
		style = "D" + style
	}
	if style == "" {
		return
	}
	pdf.SetAlpha(obj.Opacity, "Normal")
	tracePath(path, m, pdfPen{pdf})
	pdf.DrawPath(style)
	pdf.SetAlpha(1, "Normal")
	pdf.SetDashPattern([]float64{}, 0)
}

func pdfImage(pdf *gofpdf.Fpdf, obj *scene.Object, m scene.Matrix) error {
	if obj.Element == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, filter.Apply(obj.Element, obj.Filters)); err != nil {
		return fmt.Errorf("encode image %s: %w", obj.ID, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(obj.ID, opts, &buf)

	center := m.Apply(scene.Point{})
	w, h := obj.Width*obj.ScaleX, obj.Height*obj.ScaleY

	pdf.SetAlpha(obj.Opacity, "Normal")
	pdf.TransformBegin()
	pdf.TransformRotate(-obj.Angle, center.X, center.Y)
	pdf.ImageOptions(obj.ID, center.X-w/2, center.Y-h/2, w, h, false, opts, 0, "")
	pdf.TransformEnd()
	pdf.SetAlpha(1, "Normal")
	return pdf.Error()
}

func pdfText(pdf *gofpdf.Fpdf, obj *scene.Object, m scene.Matrix) {
	fill, ok := ParseColor(obj.Fill)
	if !ok || obj.Text == "" {
		return
	}
	var style strings.Builder
	if obj.FontWeight >= 600 {
		style.WriteString("B")
	}
	if obj.FontStyle == "italic" {
		style.WriteString("I")
	}
	if obj.Underline {
		style.WriteString("U")
	}
	pdf.SetFont("Helvetica", style.String(), obj.FontSize*obj.ScaleY)
	pdf.SetTextColor(int(fill.R), int(fill.G), int(fill.B))
	pdf.SetAlpha(obj.Opacity, "Normal")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	center := m.Apply(scene.Point{})
	lines, advance := textLines(obj)
	pdf.TransformBegin()
	pdf.TransformRotate(-obj.Angle, center.X, center.Y)
	for i, line := range lines {
		line = tr(line)
		lineWidth := pdf.GetStringWidth(line)
		w := obj.Width * obj.ScaleX
		x := center.X - w/2 + lineOffsetX(obj.TextAlign, w, lineWidth)
		y := center.Y - obj.Height*obj.ScaleY/2 + (obj.FontSize+float64(i)*advance)*obj.ScaleY
		pdf.Text(x, y, line)
	}
	pdf.TransformEnd()
	pdf.SetAlpha(1, "Normal")
}
