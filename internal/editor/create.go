package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

// Shape presets.
const (
	ShapeSize       = 400
	ShapeOffset     = 100
	CircleRadius    = 150
	SoftRectRadius  = 10
	textLineHeight  = 1.16
	textCharWidth   = 0.6
	minTextboxWidth = 20
)

// TextPreset is the size and weight a text box starts with.
type TextPreset struct {
	Text       string
	FontSize   float64
	FontWeight int
}

var (
	PresetHeading    = TextPreset{Text: "Heading", FontSize: 80, FontWeight: 700}
	PresetSubheading = TextPreset{Text: "Subheading", FontSize: 44, FontWeight: 600}
	PresetParagraph  = TextPreset{Text: "Paragraph", FontSize: 32, FontWeight: 400}
	PresetPlain      = TextPreset{Text: "Hello World", FontSize: DefaultFontSize, FontWeight: DefaultFontWeight}
)

var textPresets = map[string]TextPreset{
	"heading":    PresetHeading,
	"subheading": PresetSubheading,
	"paragraph":  PresetParagraph,
	"plain":      PresetPlain,
}

// LookupPreset returns the named text preset.
func LookupPreset(name string) (TextPreset, bool) {
	p, ok := textPresets[name]
	return p, ok
}

func (e *Editor) newShape(t document.ObjectType, w, h float64) *scene.Object {
	obj := scene.NewObject(t)
	obj.Left, obj.Top = ShapeOffset, ShapeOffset
	obj.Width, obj.Height = w, h
	obj.Fill = e.defaults.FillColor
	obj.Stroke = e.defaults.StrokeColor
	obj.StrokeWidth = e.defaults.StrokeWidth
	obj.StrokeDashArray = append([]float64{}, e.defaults.StrokeDashArray...)
	return obj
}

// addToCanvas centres obj on the workspace, adds it and selects it.
func (e *Editor) addToCanvas(obj *scene.Object) *scene.Object {
	if ws := e.Workspace(); ws != nil {
		obj.SetCenterPoint(ws.CenterPoint())
	}
	e.canvas.Add(obj)
	e.canvas.SetActiveObjects(obj)
	e.canvas.RequestRender()
	return obj
}

func (e *Editor) AddRectangle() *scene.Object {
	return e.addToCanvas(e.newShape(document.ObjectTypeRect, ShapeSize, ShapeSize))
}

func (e *Editor) AddSoftRectangle() *scene.Object {
	obj := e.newShape(document.ObjectTypeRect, ShapeSize, ShapeSize)
	obj.Rx, obj.Ry = SoftRectRadius, SoftRectRadius
	return e.addToCanvas(obj)
}

func (e *Editor) AddCircle() *scene.Object {
	obj := e.newShape(document.ObjectTypeCircle, 2*CircleRadius, 2*CircleRadius)
	obj.Radius = CircleRadius
	return e.addToCanvas(obj)
}

func (e *Editor) AddTriangle() *scene.Object {
	return e.addToCanvas(e.newShape(document.ObjectTypeTriangle, ShapeSize, ShapeSize))
}

// AddInverseTriangle adds a downward-pointing triangle polygon.
func (e *Editor) AddInverseTriangle() *scene.Object {
	obj := e.newShape(document.ObjectTypePolygon, ShapeSize, ShapeSize)
	obj.Points = []document.Point{
		{X: 0, Y: 0},
		{X: ShapeSize, Y: 0},
		{X: ShapeSize / 2, Y: ShapeSize},
	}
	return e.addToCanvas(obj)
}

// AddDiamond adds a four-point polygon.
func (e *Editor) AddDiamond() *scene.Object {
	obj := e.newShape(document.ObjectTypePolygon, ShapeSize, ShapeSize)
	obj.Points = []document.Point{
		{X: ShapeSize / 2, Y: 0},
		{X: ShapeSize, Y: ShapeSize / 2},
		{X: ShapeSize / 2, Y: ShapeSize},
		{X: 0, Y: ShapeSize / 2},
	}
	return e.addToCanvas(obj)
}

// AddShape adds a shape by name.
func (e *Editor) AddShape(name string) (*scene.Object, error) {
	switch name {
	case "rectangle", "rect":
		return e.AddRectangle(), nil
	case "soft-rectangle":
		return e.AddSoftRectangle(), nil
	case "circle":
		return e.AddCircle(), nil
	case "triangle":
		return e.AddTriangle(), nil
	case "inverse-triangle":
		return e.AddInverseTriangle(), nil
	case "diamond":
		return e.AddDiamond(), nil
	}
	return nil, fmt.Errorf("unknown shape %q", name)
}

// AddText adds a text box. An empty text falls back to the preset's text.
func (e *Editor) AddText(text string, preset TextPreset) *scene.Object {
	if text == "" {
		text = preset.Text
	}
	size := preset.FontSize
	if size <= 0 {
		size = e.defaults.FontSize
	}
	weight := preset.FontWeight
	if weight == 0 {
		weight = e.defaults.FontWeight
	}

	obj := scene.NewObject(document.ObjectTypeTextbox)
	obj.Left, obj.Top = ShapeOffset, ShapeOffset
	obj.Text = text
	obj.Fill = e.defaults.FillColor
	obj.FontFamily = e.defaults.FontFamily
	obj.FontSize = size
	obj.FontWeight = weight
	obj.FontStyle = e.defaults.FontStyle
	obj.TextAlign = e.defaults.TextAlign
	obj.Width, obj.Height = measureText(text, size)
	return e.addToCanvas(obj)
}

// measureText estimates the box of a text block.
func measureText(text string, size float64) (float64, float64) {
	lines := strings.Split(text, "\n")
	longest := 0
	for _, line := range lines {
		longest = max(longest, utf8.RuneCountInString(line))
	}
	width := math.Max(float64(longest)*size*textCharWidth, minTextboxWidth)
	return width, float64(len(lines)) * size * textLineHeight
}

// AddImage fetches url and places it on the workspace.
func (e *Editor) AddImage(ctx context.Context, url string) (*scene.Object, error) {
	img, err := e.LoadImage(ctx, url)
	if err != nil {
		return nil, err
	}
	return e.PlaceImage(url, img), nil
}

// LoadImage fetches an image without touching the scene, so callers can run
// it outside their lock. Failures raise a notice.
func (e *Editor) LoadImage(ctx context.Context, url string) (image.Image, error) {
	if e.images == nil {
		return nil, errors.New("no image loader configured")
	}
	img, err := e.images.Load(ctx, url)
	if err != nil {
		slog.Warn("failed to load image", "url", url, "error", err)
		e.notify(NoticeError, "Could not load image")
		return nil, fmt.Errorf("load image: %w", err)
	}
	return img, nil
}

// PlaceImage adds an already decoded image, scaled to fit inside the
// workspace, centred and selected.
func (e *Editor) PlaceImage(src string, img image.Image) *scene.Object {
	b := img.Bounds()
	obj := scene.NewObject(document.ObjectTypeImage)
	obj.Src = src
	obj.Element = img
	obj.Width, obj.Height = float64(b.Dx()), float64(b.Dy())
	obj.Filters = nil

	if ws := e.Workspace(); ws != nil && obj.Width > 0 && obj.Height > 0 {
		wsW, wsH := ws.ScaledSize()
		scale := math.Min(wsW/obj.Width, wsH/obj.Height)
		obj.ScaleX, obj.ScaleY = scale, scale
	}
	return e.addToCanvas(obj)
}
