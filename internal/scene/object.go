package scene

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/jinzhu/copier"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/typeid"
)

// Object is a shape, text box, image or freehand path placed on the canvas.
//
// Left/Top is the top-left corner of the unrotated box; rotation and scaling
// happen about the box centre. Polygon points and path coordinates are
// relative to that top-left corner, in unscaled units.
type Object struct {
	ID   string
	Type document.ObjectType

	Left   float64
	Top    float64
	Width  float64
	Height float64
	ScaleX float64
	ScaleY float64
	Angle  float64

	Rx     float64
	Ry     float64
	Radius float64
	Points []document.Point
	Path   []document.PathCommand `copier:"-"`

	Fill            string
	Stroke          string
	StrokeWidth     float64
	StrokeDashArray []float64
	Opacity         float64
	Visible         bool
	Shadow          *document.Shadow

	Text        string
	FontFamily  string
	FontSize    float64
	FontWeight  int
	FontStyle   string
	Underline   bool
	Linethrough bool
	TextAlign   string

	Src     string
	Filters []filter.Effect
	// Element is the decoded image source. It is shared between clones.
	Element image.Image `copier:"-"`

	Name          string
	GradientAngle float64
	Selectable    bool
	HasControls   bool
	Evented       bool
	Editable      bool
	LinkData      json.RawMessage
	ExtensionType string
	Extension     json.RawMessage

	// Objects holds the members of an active selection, in scene coordinates.
	Objects []*Object
}

// NewObject returns an object of type t with the defaults every object starts with.
func NewObject(t document.ObjectType) *Object {
	return &Object{
		ID:              typeid.NewObjectID(),
		Type:            t,
		ScaleX:          1,
		ScaleY:          1,
		Opacity:         1,
		Visible:         true,
		Selectable:      true,
		HasControls:     true,
		Evented:         true,
		Editable:        true,
		StrokeDashArray: []float64{},
	}
}

// IsText reports whether the object carries text properties.
func (o *Object) IsText() bool { return o.Type.IsText() }

// IsImage reports whether the object has an effect chain.
func (o *Object) IsImage() bool { return o.Type == document.ObjectTypeImage }

// IsGroup reports whether the object is a transient multi-object selection.
func (o *Object) IsGroup() bool { return o.Type == document.ObjectTypeActiveSelection }

// ScaledSize returns the box size after scaling.
func (o *Object) ScaledSize() (float64, float64) {
	return o.Width * o.ScaleX, o.Height * o.ScaleY
}

// CenterPoint returns the centre of the object's box in scene coordinates.
func (o *Object) CenterPoint() Point {
	w, h := o.ScaledSize()
	return Point{X: o.Left + w/2, Y: o.Top + h/2}
}

// SetCenterPoint moves the object so that its centre lands on p.
func (o *Object) SetCenterPoint(p Point) {
	c := o.CenterPoint()
	o.Move(p.X-c.X, p.Y-c.Y)
}

// Move translates the object, and the members of a group, by (dx, dy).
func (o *Object) Move(dx, dy float64) {
	o.Left += dx
	o.Top += dy
	for _, member := range o.Objects {
		member.Move(dx, dy)
	}
}

// Matrix maps object-local coordinates, centred on the box centre, into scene coordinates.
func (o *Object) Matrix() Matrix {
	c := o.CenterPoint()
	return Translate(c.X, c.Y).Multiply(RotateDegrees(o.Angle)).Multiply(Scale(o.ScaleX, o.ScaleY))
}

// BoundingRect returns the axis-aligned scene-space box around the object.
func (o *Object) BoundingRect() Rect {
	if o.IsGroup() {
		return groupBounds(o.Objects)
	}
	local := Rect{X: -o.Width / 2, Y: -o.Height / 2, Width: o.Width, Height: o.Height}
	if o.Angle == 0 {
		w, h := o.ScaledSize()
		return Rect{X: o.Left, Y: o.Top, Width: w, Height: h}
	}
	return o.Matrix().ApplyRect(local)
}

// Clone deep-copies the object, giving the copy (and any group members) fresh ids.
func (o *Object) Clone() (*Object, error) {
	c := &Object{}
	if err := copier.CopyWithOption(c, o, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("clone object %s: %w", o.ID, err)
	}
	reassign(c, o)
	return c, nil
}

func reassign(dst, src *Object) {
	dst.ID = typeid.NewObjectID()
	dst.Element = src.Element
	dst.Path = clonePath(src.Path)
	for i := range dst.Objects {
		if i < len(src.Objects) {
			reassign(dst.Objects[i], src.Objects[i])
		}
	}
}

func clonePath(path []document.PathCommand) []document.PathCommand {
	if path == nil {
		return nil
	}
	out := make([]document.PathCommand, len(path))
	for i, cmd := range path {
		out[i] = append(document.PathCommand(nil), cmd...)
	}
	return out
}

// NewGroup wraps members in a transient active selection sized to their bounds.
func NewGroup(members []*Object) *Object {
	g := NewObject(document.ObjectTypeActiveSelection)
	g.Objects = members
	b := groupBounds(members)
	g.Left, g.Top, g.Width, g.Height = b.X, b.Y, b.Width, b.Height
	return g
}

func groupBounds(members []*Object) Rect {
	var r Rect
	for _, m := range members {
		r = r.Union(m.BoundingRect())
	}
	return r
}

// LocalPath returns the outline of the object in local coordinates, centred
// on the box centre. Text and images have no outline.
func (o *Object) LocalPath() []document.PathCommand {
	w, h := o.Width, o.Height
	hw, hh := w/2, h/2
	switch o.Type {
	case document.ObjectTypeRect:
		if o.Rx > 0 || o.Ry > 0 {
			return roundedRectPath(-hw, -hh, w, h, o.Rx, o.Ry)
		}
		return []document.PathCommand{
			{"M", -hw, -hh}, {"L", hw, -hh}, {"L", hw, hh}, {"L", -hw, hh}, {"Z"},
		}
	case document.ObjectTypeCircle:
		r := o.Radius
		if r == 0 {
			r = math.Min(hw, hh)
		}
		return ellipsePath(r, r)
	case document.ObjectTypeTriangle:
		return []document.PathCommand{
			{"M", -hw, hh}, {"L", 0.0, -hh}, {"L", hw, hh}, {"Z"},
		}
	case document.ObjectTypePolygon:
		if len(o.Points) == 0 {
			return nil
		}
		cmds := make([]document.PathCommand, 0, len(o.Points)+1)
		for i, p := range o.Points {
			op := "L"
			if i == 0 {
				op = "M"
			}
			cmds = append(cmds, document.PathCommand{op, p.X - hw, p.Y - hh})
		}
		return append(cmds, document.PathCommand{"Z"})
	case document.ObjectTypePath:
		return offsetPath(o.Path, -hw, -hh)
	}
	return nil
}

func ellipsePath(rx, ry float64) []document.PathCommand {
	const k = 0.5522847498
	ox, oy := rx*k, ry*k
	return []document.PathCommand{
		{"M", rx, 0.0},
		{"C", rx, oy, ox, ry, 0.0, ry},
		{"C", -ox, ry, -rx, oy, -rx, 0.0},
		{"C", -rx, -oy, -ox, -ry, 0.0, -ry},
		{"C", ox, -ry, rx, -oy, rx, 0.0},
		{"Z"},
	}
}

func roundedRectPath(x, y, w, h, rx, ry float64) []document.PathCommand {
	if ry == 0 {
		ry = rx
	}
	if rx == 0 {
		rx = ry
	}
	rx, ry = math.Min(rx, w/2), math.Min(ry, h/2)
	return []document.PathCommand{
		{"M", x + rx, y},
		{"L", x + w - rx, y},
		{"Q", x + w, y, x + w, y + ry},
		{"L", x + w, y + h - ry},
		{"Q", x + w, y + h, x + w - rx, y + h},
		{"L", x + rx, y + h},
		{"Q", x, y + h, x, y + h - ry},
		{"L", x, y + ry},
		{"Q", x, y, x + rx, y},
		{"Z"},
	}
}

// offsetPath shifts every coordinate pair of a path command list.
func offsetPath(path []document.PathCommand, dx, dy float64) []document.PathCommand {
	out := make([]document.PathCommand, 0, len(path))
	for _, cmd := range path {
		if len(cmd) == 0 {
			continue
		}
		shifted := document.PathCommand{cmd[0]}
		for i := 1; i < len(cmd); i++ {
			v, ok := Number(cmd[i])
			if !ok {
				shifted = append(shifted, cmd[i])
				continue
			}
			if i%2 == 1 {
				v += dx
			} else {
				v += dy
			}
			shifted = append(shifted, v)
		}
		out = append(out, shifted)
	}
	return out
}

// Number extracts a float from a decoded path argument.
func Number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Op extracts the operator of a path command.
func Op(cmd document.PathCommand) string {
	if len(cmd) == 0 {
		return ""
	}
	s, _ := cmd[0].(string)
	return s
}

// toNode serializes the object; allow-listed attributes are only written when included.
func (o *Object) toNode(include map[string]bool) document.ObjectNode {
	n := document.ObjectNode{
		ID:              o.ID,
		Type:            o.Type,
		Left:            o.Left,
		Top:             o.Top,
		Width:           o.Width,
		Height:          o.Height,
		ScaleX:          o.ScaleX,
		ScaleY:          o.ScaleY,
		Angle:           o.Angle,
		Rx:              o.Rx,
		Ry:              o.Ry,
		Radius:          o.Radius,
		Points:          append([]document.Point(nil), o.Points...),
		Path:            clonePath(o.Path),
		Fill:            o.Fill,
		Stroke:          o.Stroke,
		StrokeWidth:     o.StrokeWidth,
		StrokeDashArray: append([]float64{}, o.StrokeDashArray...),
		Opacity:         o.Opacity,
		Visible:         o.Visible,
		Text:            o.Text,
		FontFamily:      o.FontFamily,
		FontSize:        o.FontSize,
		FontWeight:      o.FontWeight,
		FontStyle:       o.FontStyle,
		Underline:       o.Underline,
		Linethrough:     o.Linethrough,
		TextAlign:       o.TextAlign,
		Src:             o.Src,
		Filters:         append([]filter.Effect(nil), o.Filters...),
	}
	if o.Shadow != nil {
		s := *o.Shadow
		n.Shadow = &s
	}
	if include[document.KeyName] && o.Name != "" {
		name := o.Name
		n.Name = &name
	}
	if include[document.KeyGradientAngle] {
		a := o.GradientAngle
		n.GradientAngle = &a
	}
	if include[document.KeySelectable] {
		s := o.Selectable
		n.Selectable = &s
	}
	if include[document.KeyHasControls] {
		h := o.HasControls
		n.HasControls = &h
	}
	if include[document.KeyLinkData] && len(o.LinkData) > 0 {
		n.LinkData = append(json.RawMessage(nil), o.LinkData...)
	}
	if include[document.KeyEditable] && o.IsText() {
		e := o.Editable
		n.Editable = &e
	}
	if include[document.KeyExtensionType] && o.ExtensionType != "" {
		et := o.ExtensionType
		n.ExtensionType = &et
	}
	if include[document.KeyExtension] && len(o.Extension) > 0 {
		n.Extension = append(json.RawMessage(nil), o.Extension...)
	}
	return n
}

// FromNode rebuilds an object from its serialized form. Attributes missing
// from the node fall back to the defaults of NewObject.
func FromNode(n document.ObjectNode) *Object {
	o := NewObject(n.Type)
	o.ID = n.ID
	o.Left, o.Top, o.Width, o.Height = n.Left, n.Top, n.Width, n.Height
	o.ScaleX, o.ScaleY, o.Angle = n.ScaleX, n.ScaleY, n.Angle
	if o.ScaleX == 0 {
		o.ScaleX = 1
	}
	if o.ScaleY == 0 {
		o.ScaleY = 1
	}
	o.Rx, o.Ry, o.Radius = n.Rx, n.Ry, n.Radius
	o.Points = append([]document.Point(nil), n.Points...)
	o.Path = clonePath(n.Path)
	o.Fill, o.Stroke, o.StrokeWidth = n.Fill, n.Stroke, n.StrokeWidth
	o.StrokeDashArray = append([]float64{}, n.StrokeDashArray...)
	o.Opacity = n.Opacity
	o.Visible = n.Visible
	if n.Shadow != nil {
		s := *n.Shadow
		o.Shadow = &s
	}
	o.Text, o.FontFamily, o.FontSize, o.FontWeight = n.Text, n.FontFamily, n.FontSize, n.FontWeight
	o.FontStyle, o.Underline, o.Linethrough, o.TextAlign = n.FontStyle, n.Underline, n.Linethrough, n.TextAlign
	o.Src = n.Src
	o.Filters = append([]filter.Effect(nil), n.Filters...)

	if n.Name != nil {
		o.Name = *n.Name
	}
	if n.GradientAngle != nil {
		o.GradientAngle = *n.GradientAngle
	}
	if n.Selectable != nil {
		o.Selectable = *n.Selectable
	}
	if n.HasControls != nil {
		o.HasControls = *n.HasControls
	}
	if n.Editable != nil {
		o.Editable = *n.Editable
	}
	if n.ExtensionType != nil {
		o.ExtensionType = *n.ExtensionType
	}
	o.LinkData = append(json.RawMessage(nil), n.LinkData...)
	o.Extension = append(json.RawMessage(nil), n.Extension...)
	return o
}
