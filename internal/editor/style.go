package editor

import (
	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/scene"
)

// property describes one style attribute: which objects it applies to, how
// to write it on an object and how to record it as the session default.
type property[T any] struct {
	name       string
	applies    func(*scene.Object) bool
	set        func(*scene.Object, T)
	setDefault func(*Defaults, T)
}

func anyObject(*scene.Object) bool { return true }

func textObject(o *scene.Object) bool { return o.IsText() }

func imageObject(o *scene.Object) bool { return o.IsImage() }

// applyToSelection writes value to every selected object the property
// applies to. With nothing selected it updates the session default instead.
func applyToSelection[T any](e *Editor, p property[T], value T) {
	selected := e.selection.Selected()
	if len(selected) == 0 {
		if p.setDefault != nil {
			p.setDefault(&e.defaults, value)
		}
		return
	}

	var changed []*scene.Object
	for _, obj := range selected {
		if !p.applies(obj) {
			continue
		}
		p.set(obj, value)
		changed = append(changed, obj)
	}
	if len(changed) == 0 {
		return
	}
	e.canvas.NotifyModified(changed...)
	e.canvas.RequestRender()
}

var (
	fillColor = property[string]{
		name:       "fill",
		applies:    anyObject,
		set:        func(o *scene.Object, v string) { o.Fill = v },
		setDefault: func(d *Defaults, v string) { d.FillColor = v },
	}
	// Text is painted with its fill, so a stroke colour lands there.
	strokeColor = property[string]{
		name:    "stroke",
		applies: anyObject,
		set: func(o *scene.Object, v string) {
			if o.IsText() {
				o.Fill = v
				return
			}
			o.Stroke = v
		},
		setDefault: func(d *Defaults, v string) { d.StrokeColor = v },
	}
	strokeWidth = property[float64]{
		name:       "strokeWidth",
		applies:    anyObject,
		set:        func(o *scene.Object, v float64) { o.StrokeWidth = v },
		setDefault: func(d *Defaults, v float64) { d.StrokeWidth = v },
	}
	strokeDashArray = property[[]float64]{
		name:       "strokeDashArray",
		applies:    anyObject,
		set:        func(o *scene.Object, v []float64) { o.StrokeDashArray = append([]float64{}, v...) },
		setDefault: func(d *Defaults, v []float64) { d.StrokeDashArray = append([]float64{}, v...) },
	}
	opacity = property[float64]{
		name:       "opacity",
		applies:    anyObject,
		set:        func(o *scene.Object, v float64) { o.Opacity = v },
		setDefault: func(d *Defaults, v float64) { d.Opacity = v },
	}
	fontFamily = property[string]{
		name:       "fontFamily",
		applies:    textObject,
		set:        func(o *scene.Object, v string) { o.FontFamily = v },
		setDefault: func(d *Defaults, v string) { d.FontFamily = v },
	}
	fontSize = property[float64]{
		name:       "fontSize",
		applies:    textObject,
		set:        func(o *scene.Object, v float64) { o.FontSize = v },
		setDefault: func(d *Defaults, v float64) { d.FontSize = v },
	}
	fontWeight = property[int]{
		name:       "fontWeight",
		applies:    textObject,
		set:        func(o *scene.Object, v int) { o.FontWeight = v },
		setDefault: func(d *Defaults, v int) { d.FontWeight = v },
	}
	fontStyle = property[string]{
		name:       "fontStyle",
		applies:    textObject,
		set:        func(o *scene.Object, v string) { o.FontStyle = v },
		setDefault: func(d *Defaults, v string) { d.FontStyle = v },
	}
	fontUnderline = property[bool]{
		name:    "underline",
		applies: textObject,
		set:     func(o *scene.Object, v bool) { o.Underline = v },
	}
	fontLinethrough = property[bool]{
		name:    "linethrough",
		applies: textObject,
		set:     func(o *scene.Object, v bool) { o.Linethrough = v },
	}
	textAlign = property[string]{
		name:       "textAlign",
		applies:    textObject,
		set:        func(o *scene.Object, v string) { o.TextAlign = v },
		setDefault: func(d *Defaults, v string) { d.TextAlign = v },
	}
	imageFilter = property[filter.Kind]{
		name:    "filters",
		applies: imageObject,
		set:     func(o *scene.Object, k filter.Kind) { o.Filters = k.Effects() },
	}
)

func (e *Editor) ChangeFillColor(v string) { applyToSelection(e, fillColor, v) }

// ChangeStrokeColor also recolours the drawing brush.
func (e *Editor) ChangeStrokeColor(v string) {
	applyToSelection(e, strokeColor, v)
	e.canvas.Brush().Color = v
}

// ChangeStrokeWidth also resizes the drawing brush.
func (e *Editor) ChangeStrokeWidth(v float64) {
	applyToSelection(e, strokeWidth, v)
	e.canvas.Brush().Width = v
}

func (e *Editor) ChangeStrokeDashArray(v []float64) { applyToSelection(e, strokeDashArray, v) }

func (e *Editor) ChangeOpacity(v float64) { applyToSelection(e, opacity, v) }

func (e *Editor) ChangeFontFamily(v string) { applyToSelection(e, fontFamily, v) }

func (e *Editor) ChangeFontSize(v float64) { applyToSelection(e, fontSize, v) }

func (e *Editor) ChangeFontWeight(v int) { applyToSelection(e, fontWeight, v) }

func (e *Editor) ChangeFontStyle(v string) { applyToSelection(e, fontStyle, v) }

func (e *Editor) ChangeFontUnderline(v bool) { applyToSelection(e, fontUnderline, v) }

func (e *Editor) ChangeFontLinethrough(v bool) { applyToSelection(e, fontLinethrough, v) }

func (e *Editor) ChangeTextAlign(v string) { applyToSelection(e, textAlign, v) }

// ChangeImageFilter replaces the effect chain of every selected image with
// the single effect named. Non-image objects are skipped.
func (e *Editor) ChangeImageFilter(name string) error {
	kind, err := filter.Parse(name)
	if err != nil {
		return err
	}
	applyToSelection(e, imageFilter, kind)
	return nil
}

// --- Queries ---

// first returns the first selected object or nil.
func (e *Editor) first() *scene.Object {
	return e.selection.First()
}

func (e *Editor) GetActiveFillColor() string {
	if o := e.first(); o != nil && o.Fill != "" {
		return o.Fill
	}
	return e.defaults.FillColor
}

func (e *Editor) GetActiveStrokeColor() string {
	if o := e.first(); o != nil && o.Stroke != "" {
		return o.Stroke
	}
	return e.defaults.StrokeColor
}

func (e *Editor) GetActiveStrokeWidth() float64 {
	if o := e.first(); o != nil && o.StrokeWidth != 0 {
		return o.StrokeWidth
	}
	return e.defaults.StrokeWidth
}

func (e *Editor) GetActiveStrokeDashArray() []float64 {
	if o := e.first(); o != nil && len(o.StrokeDashArray) > 0 {
		return o.StrokeDashArray
	}
	return e.defaults.StrokeDashArray
}

func (e *Editor) GetActiveOpacity() float64 {
	if o := e.first(); o != nil {
		return o.Opacity
	}
	return e.defaults.Opacity
}

func (e *Editor) GetActiveFontFamily() string {
	if o := e.first(); o != nil && o.FontFamily != "" {
		return o.FontFamily
	}
	return e.defaults.FontFamily
}

func (e *Editor) GetActiveFontSize() float64 {
	if o := e.first(); o != nil && o.FontSize != 0 {
		return o.FontSize
	}
	return e.defaults.FontSize
}

func (e *Editor) GetActiveFontWeight() int {
	if o := e.first(); o != nil && o.FontWeight != 0 {
		return o.FontWeight
	}
	return e.defaults.FontWeight
}

func (e *Editor) GetActiveFontStyle() string {
	if o := e.first(); o != nil && o.FontStyle != "" {
		return o.FontStyle
	}
	return e.defaults.FontStyle
}

func (e *Editor) GetActiveFontUnderline() bool {
	if o := e.first(); o != nil {
		return o.Underline
	}
	return false
}

func (e *Editor) GetActiveFontLinethrough() bool {
	if o := e.first(); o != nil {
		return o.Linethrough
	}
	return false
}

func (e *Editor) GetActiveTextAlign() string {
	if o := e.first(); o != nil && o.TextAlign != "" {
		return o.TextAlign
	}
	return e.defaults.TextAlign
}

// GetActiveFilter returns the filter of the first selected image, or None.
func (e *Editor) GetActiveFilter() filter.Kind {
	o := e.first()
	if o == nil || !o.IsImage() {
		return filter.None
	}
	return filter.KindOf(o.Filters)
}
