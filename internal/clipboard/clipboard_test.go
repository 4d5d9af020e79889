package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

func rect(c *scene.Canvas, left, top float64) *scene.Object {
	obj := scene.NewObject(document.ObjectTypeRect)
	obj.Left, obj.Top, obj.Width, obj.Height = left, top, 50, 50
	c.Add(obj)
	return obj
}

func TestPasteEmpty(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	cb := New(c)

	_, err := cb.Paste()
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, 0, c.Len())
	assert.False(t, cb.HasContent())
}

func TestRepeatedPasteCascades(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	orig := rect(c, 100, 200)
	c.SetActiveObjects(orig)
	cb := New(c)
	require.NoError(t, cb.Copy())

	const k = 4
	ids := map[string]bool{orig.ID: true}
	for i := 1; i <= k; i++ {
		pasted, err := cb.Paste()
		require.NoError(t, err)
		require.Len(t, pasted, 1)

		assert.Equal(t, orig.Left+float64(10*i), pasted[0].Left)
		assert.Equal(t, orig.Top+float64(10*i), pasted[0].Top)
		assert.False(t, ids[pasted[0].ID])
		ids[pasted[0].ID] = true
		assert.Equal(t, pasted, c.ActiveObjects())
	}
	assert.Equal(t, k+1, c.Len())
	assert.Equal(t, 100.0, orig.Left)
}

func TestPasteDissolvesGroup(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	a, b := rect(c, 0, 0), rect(c, 100, 50)
	c.SetActiveObjects(a, b)
	cb := New(c)
	require.NoError(t, cb.Copy())

	pasted, err := cb.Paste()
	require.NoError(t, err)
	require.Len(t, pasted, 2)

	for _, obj := range c.Objects() {
		assert.False(t, obj.IsGroup())
	}
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 10.0, pasted[0].Left)
	assert.Equal(t, 110.0, pasted[1].Left)
	assert.Equal(t, 60.0, pasted[1].Top)
	assert.Equal(t, pasted, c.ActiveObjects())

	again, err := cb.Paste()
	require.NoError(t, err)
	assert.Equal(t, 20.0, again[0].Left)
}

func TestCopySnapshotsState(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	orig := rect(c, 0, 0)
	orig.Fill = "red"
	c.SetActiveObjects(orig)
	cb := New(c)
	require.NoError(t, cb.Copy())

	orig.Fill = "blue"
	pasted, err := cb.Paste()
	require.NoError(t, err)
	assert.Equal(t, "red", pasted[0].Fill)
}

func TestCopyWithoutSelectionKeepsSlot(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	cb := New(c)
	require.NoError(t, cb.Copy())
	assert.False(t, cb.HasContent())
}

func TestCut(t *testing.T) {
	c := scene.NewCanvas(100, 100)
	orig := rect(c, 5, 5)
	c.SetActiveObjects(orig)
	cb := New(c)

	require.NoError(t, cb.Cut())
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.ActiveObjects())

	pasted, err := cb.Paste()
	require.NoError(t, err)
	assert.Equal(t, 15.0, pasted[0].Left)
}
