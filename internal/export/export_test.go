package export

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/filter"
	"github.com/mickcarey/canva/internal/scene"
)

func sampleCanvas(t *testing.T) (*scene.Canvas, scene.Rect) {
	t.Helper()
	c := scene.NewCanvas(800, 600)
	ws := scene.FromNode(document.NewWorkspaceNode("obj_ws", 200, 100))
	rect := scene.NewObject(document.ObjectTypeRect)
	rect.Left, rect.Top, rect.Width, rect.Height = 0, 0, 100, 100
	rect.Fill = "rgba(255,0,0,1)"
	rect.Stroke = "#0000ff"
	rect.StrokeWidth = 2
	rect.StrokeDashArray = []float64{4, 2}
	text := scene.NewObject(document.ObjectTypeTextbox)
	text.Left, text.Top, text.Width, text.Height = 110, 10, 80, 40
	text.Text = "Hi & <bye>"
	text.Fill = "black"
	text.FontFamily = "Arial"
	text.FontSize = 32
	text.FontWeight = 700
	img := scene.NewObject(document.ObjectTypeImage)
	img.Left, img.Top, img.Width, img.Height = 150, 60, 4, 4
	img.Src = "https://example.com/a.png"
	img.Element = image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Filters = filter.Invert.Effects()
	c.Add(ws, rect, text, img)
	return c, ws.BoundingRect()
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"rgba(0,0,0,1)", color.NRGBA{0, 0, 0, 255}, true},
		{"rgba(255, 128, 0, 0.5)", color.NRGBA{255, 128, 0, 128}, true},
		{"rgb(10,20,30)", color.NRGBA{10, 20, 30, 255}, true},
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, true},
		{"#0f0", color.NRGBA{0, 255, 0, 255}, true},
		{"#00000080", color.NRGBA{0, 0, 0, 128}, true},
		{"White", color.NRGBA{255, 255, 255, 255}, true},
		{"navy", color.NRGBA{0, 0, 128, 255}, true},
		{"teal", color.NRGBA{0, 128, 128, 255}, true},
		{"silver", color.NRGBA{192, 192, 192, 255}, true},
		{"crimson", color.NRGBA{220, 20, 60, 255}, true},
		{"LightBlue", color.NRGBA{173, 216, 230, 255}, true},
		{"notacolour", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
		{"transparent", color.NRGBA{}, false},
		{"rgba(0,0,0,0)", color.NRGBA{}, false},
		{"rgba(1,2)", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JPG")
	require.NoError(t, err)
	assert.Equal(t, FormatJPEG, f)
	assert.Equal(t, "jpg", f.Extension())

	_, err = ParseFormat("gif")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPNGMatchesWorkspaceSize(t *testing.T) {
	c, area := sampleCanvas(t)
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, c, area))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestJPEG(t *testing.T) {
	c, area := sampleCanvas(t)
	var buf bytes.Buffer
	require.NoError(t, JPEG(&buf, c, area, 80))

	cfg, err := jpeg.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
}

func TestSVG(t *testing.T) {
	c, area := sampleCanvas(t)
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, c, area))

	out := buf.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, `width="200"`)
	assert.Contains(t, out, "stroke-dasharray:4,2")
	assert.Contains(t, out, "data:image/png;base64,")
	assert.Contains(t, out, "Hi &amp; &lt;bye&gt;")
	assert.Contains(t, out, "font-weight:700")
}

func TestPDF(t *testing.T) {
	c, area := sampleCanvas(t)
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, c, area))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestJSONUsesAllowList(t *testing.T) {
	c, _ := sampleCanvas(t)
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, c))

	snap, err := document.Unmarshal(buf.Bytes())
	require.NoError(t, err)
	ws, ok := snap.Workspace()
	require.True(t, ok)
	assert.Equal(t, "obj_ws", ws.ID)
}

type cachedImages struct{}

func (cachedImages) Load(context.Context, string) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func TestHandlerExport(t *testing.T) {
	c, _ := sampleCanvas(t)
	body, err := json.Marshal(c.ToSnapshot(document.AllowList))
	require.NoError(t, err)

	h := NewHandler(cachedImages{})
	req := httptest.NewRequest(http.MethodPost, "/api/export?format=png&name=my%20poster", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Export(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="my-poster.png"`, rec.Header().Get("Content-Disposition"))

	req = httptest.NewRequest(http.MethodPost, "/api/export?format=gif", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	h.Export(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/export?format=svg", strings.NewReader(`{"version":"1","objects":[]}`))
	rec = httptest.NewRecorder()
	h.Export(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
