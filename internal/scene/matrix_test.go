package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(30, -12).Multiply(RotateDegrees(33)).Multiply(Scale(2, 0.5))
	p := Point{X: 17, Y: 42}

	back := m.Invert().Apply(m.Apply(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestMatrixSingularInvertIsIdentity(t *testing.T) {
	assert.Equal(t, Identity(), Scale(0, 1).Invert())
}

func TestApplyRectRotated(t *testing.T) {
	r := RotateDegrees(90).ApplyRect(Rect{X: -10, Y: -5, Width: 20, Height: 10})
	assert.InDelta(t, -5, r.X, 1e-9)
	assert.InDelta(t, -10, r.Y, 1e-9)
	assert.InDelta(t, 10, r.Width, 1e-9)
	assert.InDelta(t, 20, r.Height, 1e-9)
}

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 5, Y: -5, Width: 10, Height: 5}
	assert.Equal(t, Rect{X: 0, Y: -5, Width: 15, Height: 15}, a.Union(b))
	assert.Equal(t, a, Rect{}.Union(a))
	assert.True(t, a.Contains(Point{X: 10, Y: 10}))
	assert.False(t, a.Contains(Point{X: 10.1, Y: 0}))
}
