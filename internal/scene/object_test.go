package scene

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/document"
)

func TestCloneIsDeepWithFreshID(t *testing.T) {
	src := NewObject(document.ObjectTypePolygon)
	src.Width, src.Height = 400, 400
	src.Points = []document.Point{{X: 200, Y: 0}, {X: 400, Y: 200}, {X: 200, Y: 400}, {X: 0, Y: 200}}
	src.StrokeDashArray = []float64{5, 5}
	src.Shadow = &document.Shadow{Color: "black", Blur: 2}
	src.Element = image.NewRGBA(image.Rect(0, 0, 1, 1))

	clone, err := src.Clone()
	require.NoError(t, err)

	assert.NotEqual(t, src.ID, clone.ID)
	assert.Equal(t, src.Points, clone.Points)
	assert.Same(t, src.Element, clone.Element)

	clone.Points[0].X = -1
	clone.StrokeDashArray[0] = 9
	clone.Shadow.Blur = 7
	assert.Equal(t, 200.0, src.Points[0].X)
	assert.Equal(t, 5.0, src.StrokeDashArray[0])
	assert.Equal(t, 2.0, src.Shadow.Blur)
}

func TestCloneGroupClonesMembers(t *testing.T) {
	a, b := newRect(0, 0, 10, 10), newRect(20, 20, 10, 10)
	group := NewGroup([]*Object{a, b})

	clone, err := group.Clone()
	require.NoError(t, err)
	require.Len(t, clone.Objects, 2)

	assert.NotSame(t, a, clone.Objects[0])
	assert.NotEqual(t, a.ID, clone.Objects[0].ID)
	clone.Move(10, 10)
	assert.Equal(t, 0.0, a.Left)
	assert.Equal(t, 30.0, clone.Objects[1].Left)
	assert.Equal(t, 10.0, clone.Left)
}

func TestClonePathIsIndependent(t *testing.T) {
	src := NewObject(document.ObjectTypePath)
	src.Path = []document.PathCommand{{"M", 0.0, 0.0}, {"L", 5.0, 5.0}}

	clone, err := src.Clone()
	require.NoError(t, err)
	clone.Path[1][1] = 99.0

	assert.Equal(t, 5.0, src.Path[1][1])
}

func TestCenterPoint(t *testing.T) {
	obj := newRect(100, 100, 400, 400)
	obj.ScaleX = 0.5
	assert.Equal(t, Point{X: 200, Y: 300}, obj.CenterPoint())

	obj.SetCenterPoint(Point{X: 450, Y: 600})
	assert.Equal(t, 350.0, obj.Left)
	assert.Equal(t, 400.0, obj.Top)
}

func TestBoundingRectRotated(t *testing.T) {
	obj := newRect(0, 0, 20, 10)
	obj.Angle = 90

	r := obj.BoundingRect()
	assert.InDelta(t, 5, r.X, 1e-9)
	assert.InDelta(t, -5, r.Y, 1e-9)
	assert.InDelta(t, 10, r.Width, 1e-9)
	assert.InDelta(t, 20, r.Height, 1e-9)
}

func TestLocalPathShapes(t *testing.T) {
	tri := NewObject(document.ObjectTypeTriangle)
	tri.Width, tri.Height = 400, 400
	assert.Equal(t, document.PathCommand{"L", 0.0, -200.0}, tri.LocalPath()[1])

	poly := NewObject(document.ObjectTypePolygon)
	poly.Width, poly.Height = 400, 400
	poly.Points = []document.Point{{X: 0, Y: 0}, {X: 400, Y: 0}, {X: 200, Y: 400}}
	path := poly.LocalPath()
	require.Len(t, path, 4)
	assert.Equal(t, document.PathCommand{"M", -200.0, -200.0}, path[0])
	assert.Equal(t, "Z", Op(path[3]))

	soft := newRect(0, 0, 400, 400)
	soft.Rx, soft.Ry = 10, 10
	assert.Equal(t, document.PathCommand{"M", -190.0, -200.0}, soft.LocalPath()[0])

	text := NewObject(document.ObjectTypeTextbox)
	assert.Nil(t, text.LocalPath())
}

func TestFromNodeDefaults(t *testing.T) {
	obj := FromNode(document.ObjectNode{ID: "obj_x", Type: document.ObjectTypeTextbox, Visible: true})
	assert.True(t, obj.Selectable)
	assert.True(t, obj.HasControls)
	assert.True(t, obj.Editable)
	assert.Equal(t, 1.0, obj.ScaleX)
	assert.Equal(t, 1.0, obj.ScaleY)
}
