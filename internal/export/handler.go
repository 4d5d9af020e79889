package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/scene"
)

const maxUploadSize = 50 << 20 // 50MB

// Handler renders a posted document without storing it.
type Handler struct {
	images scene.ImageSource
}

func NewHandler(images scene.ImageSource) *Handler {
	return &Handler{images: images}
}

// Export handles POST /api/export?format=png&name=poster with a document
// JSON body and streams the rendered file back as an attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, "invalid format: must be png, jpeg, svg, pdf or json", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "request too large", http.StatusBadRequest)
		return
	}
	snap, err := document.Unmarshal(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, area, err := FromSnapshot(r.Context(), snap, h.images)
	if err != nil {
		if errors.Is(err, document.ErrInvalidSnapshot) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("load export snapshot", "error", err)
		http.Error(w, "failed to load document", http.StatusUnprocessableEntity)
		return
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, c, area); err != nil {
		slog.Error("export failed", "format", format, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	ServeFile(w, format, r.URL.Query().Get("name"), buf.Bytes())
}

// ServeFile writes a rendered export as a download.
func ServeFile(w http.ResponseWriter, format Format, name string, data []byte) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, SanitizeName(name), format.Extension()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)

	slog.Info("export complete", "format", format, "size", len(data))
}

// SanitizeName makes a design name safe for a Content-Disposition filename.
func SanitizeName(name string) string {
	if name == "" {
		return "design"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}
