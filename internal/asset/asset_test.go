package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadDataURL(t *testing.T) {
	l := NewLoader(t.TempDir(), 0, 0)
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, 3, 2))

	img, err := l.Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = l.Load(context.Background(), "data:text/plain,hello")
	assert.Error(t, err)
}

func TestLoadHTTP(t *testing.T) {
	body := pngBytes(t, 40, 20)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Write(body)
		case "/text":
			w.Write([]byte("definitely not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), time.Second, 0)
	img, err := l.Load(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())

	_, err = l.Load(context.Background(), srv.URL+"/text")
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = l.Load(context.Background(), srv.URL+"/missing.png")
	assert.Error(t, err)
}

func TestLoadRespectsSizeCap(t *testing.T) {
	body := pngBytes(t, 64, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(t.TempDir(), time.Second, int64(len(body)-1))
	_, err := l.Load(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "exceeds")
}

func TestLoadLocalAsset(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "asset_x.png"), pngBytes(t, 5, 5), 0644))
	l := NewLoader(dir, 0, 0)

	img, err := l.Load(context.Background(), "/assets/asset_x.png")
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dy())

	_, err = l.Load(context.Background(), "/assets/../../etc/passwd")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownScheme(t *testing.T) {
	l := NewLoader(t.TempDir(), 0, 0)
	_, err := l.Load(context.Background(), "ftp://example.com/a.png")
	assert.Error(t, err)
}

func uploadRequest(t *testing.T, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadServeAndDelete(t *testing.T) {
	h := NewHandler(t.TempDir())
	r := mux.NewRouter()
	r.HandleFunc("/assets/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/assets/{id}", h.HandleDelete).Methods(http.MethodDelete)
	r.PathPrefix("/assets/").Handler(h.Serve())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "logo.png", pngBytes(t, 12, 8)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 12, resp.Width)
	assert.Equal(t, 8, resp.Height)
	assert.Equal(t, "logo.png", resp.Name)
	assert.Equal(t, "/assets/"+resp.ID+".png", resp.URL)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")

	img, err := NewLoader(h.Dir(), 0, 0).Load(context.Background(), resp.URL)
	require.NoError(t, err)
	assert.Equal(t, 12, img.Bounds().Dx())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/assets/"+resp.ID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Error(t, h.Delete(resp.ID))
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "notes.png", []byte("plain text pretending")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
