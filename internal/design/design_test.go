package design

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/store"
	"github.com/mickcarey/canva/internal/typeid"
)

type fixedLive map[string]document.Snapshot

func (f fixedLive) LiveSnapshot(id string) (document.Snapshot, bool) {
	s, ok := f[id]
	return s, ok
}

func newService() *Service {
	return NewService(store.NewMemory(), nil)
}

func TestCreateSeedsWorkspace(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateParams{Name: "  ", Width: 500, Height: 700})
	require.NoError(t, err)
	assert.Equal(t, "Untitled design", d.Name)
	assert.Equal(t, 500.0, d.Width)
	require.NoError(t, typeid.Validate(d.ID, typeid.PrefixDesign))

	snap, err := svc.Snapshot(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, snap.Objects, 1)
	ws, ok := snap.Workspace()
	require.True(t, ok)
	assert.Equal(t, 700.0, ws.Height)

	sample, err := svc.Create(ctx, CreateParams{Name: "Poster", Template: TemplateSample})
	require.NoError(t, err)
	snap, err = svc.Snapshot(ctx, sample.ID)
	require.NoError(t, err)
	assert.Greater(t, len(snap.Objects), 1)

	_, err = svc.Create(ctx, CreateParams{Template: "brochure"})
	assert.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestSaveSnapshotUpdatesSize(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	d, err := svc.Create(ctx, CreateParams{Name: "A"})
	require.NoError(t, err)

	snap := document.NewEmptySnapshot(typeid.NewObjectID(), 300, 400)
	require.NoError(t, svc.SaveSnapshot(ctx, d.ID, snap))

	got, err := svc.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got.Width)
	assert.Equal(t, 400.0, got.Height)

	err = svc.SaveSnapshot(ctx, d.ID, document.Snapshot{Version: document.Version})
	assert.ErrorIs(t, err, document.ErrInvalidSnapshot)

	err = svc.SaveSnapshot(ctx, "design_missing", snap)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSnapshotPrefersLiveSession(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	d, err := svc.Create(ctx, CreateParams{Name: "A"})
	require.NoError(t, err)

	live := document.NewEmptySnapshot(typeid.NewObjectID(), 10, 10)
	svc.SetLiveSource(fixedLive{d.ID: live})

	snap, err := svc.Snapshot(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, live, snap)
}

func newRouter(svc *Service) *mux.Router {
	r := mux.NewRouter()
	NewHandler(svc).Register(r)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandlerCRUD(t *testing.T) {
	r := newRouter(newService())

	rec := do(r, http.MethodPost, "/api/designs", `{"name":"Launch poster","width":600,"height":800}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created store.Design
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Launch poster", created.Name)

	rec = do(r, http.MethodGet, "/api/designs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Design
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)

	rec = do(r, http.MethodPatch, "/api/designs/"+created.ID, `{"name":"Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Renamed")

	rec = do(r, http.MethodGet, "/api/designs/"+created.ID+"/snapshot", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap, err := document.Unmarshal(rec.Body.Bytes())
	require.NoError(t, err)
	ws, ok := snap.Workspace()
	require.True(t, ok)
	assert.Equal(t, 600.0, ws.Width)

	snap.Background = "#ff0000"
	data, err := document.Marshal(snap)
	require.NoError(t, err)
	rec = do(r, http.MethodPut, "/api/designs/"+created.ID+"/snapshot", string(data))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodPut, "/api/designs/"+created.ID+"/snapshot", `{"version":"9","objects":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodDelete, "/api/designs/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/api/designs/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerCreateRejectsBadInput(t *testing.T) {
	r := newRouter(newService())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/designs", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/designs", `{"template":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/api/designs", `{"width":-1}`).Code)
}

func TestHandlerExport(t *testing.T) {
	svc := newService()
	d, err := svc.Create(context.Background(), CreateParams{Name: "Sale flyer", Template: TemplateSample})
	require.NoError(t, err)
	r := newRouter(svc)

	rec := do(r, http.MethodGet, "/api/designs/"+d.ID+"/export?format=png", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="Sale-flyer.png"`)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = do(r, http.MethodGet, "/api/designs/"+d.ID+"/export?format=json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err = document.Unmarshal(rec.Body.Bytes())
	assert.NoError(t, err)

	rec = do(r, http.MethodGet, "/api/designs/"+d.ID+"/export?format=gif", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/designs/design_missing/export?format=svg", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
