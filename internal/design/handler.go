package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/export"
)

const maxSnapshotSize = 50 << 20 // 50MB

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the design routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/designs", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/designs", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/designs/{id}", h.Get).Methods(http.MethodGet)
	r.HandleFunc("/api/designs/{id}", h.Rename).Methods(http.MethodPatch)
	r.HandleFunc("/api/designs/{id}", h.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/api/designs/{id}/snapshot", h.GetSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/designs/{id}/snapshot", h.PutSnapshot).Methods(http.MethodPut)
	r.HandleFunc("/api/designs/{id}/export", h.Export).Methods(http.MethodGet)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "width and height must be positive"})
		return
	}

	d, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	designs, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list designs failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, designs)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	d.Snapshot = nil

	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	d, err := h.service.Rename(r.Context(), mux.Vars(r)["id"], req.Name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	d.Snapshot = nil

	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.service.Snapshot(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	data, err := document.Marshal(snap)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) PutSnapshot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request too large"})
		return
	}
	snap, err := document.Unmarshal(data)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := h.service.SaveSnapshot(r.Context(), mux.Vars(r)["id"], snap); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/designs/{id}/export?format=png|jpeg|svg|pdf|json.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid format: must be png, jpeg, svg, pdf or json"})
		return
	}

	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), id, &buf, format); err != nil {
		handleServiceError(w, err)
		return
	}
	export.ServeFile(w, format, d.Name, buf.Bytes())
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrInvalidTemplate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, document.ErrInvalidSnapshot):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
