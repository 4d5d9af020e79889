// Package design manages persisted designs: creation from templates,
// snapshot load/save and server-side export.
package design

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/export"
	"github.com/mickcarey/canva/internal/scene"
	"github.com/mickcarey/canva/internal/store"
	"github.com/mickcarey/canva/internal/typeid"
)

var (
	ErrNotFound        = errors.New("design not found")
	ErrInvalidTemplate = errors.New("unknown template")
)

// Templates a design can start from.
const (
	TemplateBlank  = "blank"
	TemplateSample = "sample"
)

const defaultName = "Untitled design"

// LiveSource reports the in-memory snapshot of a design that is open in an
// editor session, which is newer than the stored one.
type LiveSource interface {
	LiveSnapshot(id string) (document.Snapshot, bool)
}

type Service struct {
	store  store.Store
	images scene.ImageSource
	live   LiveSource
}

func NewService(s store.Store, images scene.ImageSource) *Service {
	return &Service{store: s, images: images}
}

// SetLiveSource makes exports and snapshot reads prefer open sessions.
func (s *Service) SetLiveSource(live LiveSource) {
	s.live = live
}

// CreateParams describes a new design. Zero sizes use the default workspace.
type CreateParams struct {
	Name     string  `json:"name"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Template string  `json:"template"`
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*store.Design, error) {
	var snap document.Snapshot
	switch p.Template {
	case "", TemplateBlank:
		snap = document.NewEmptySnapshot(typeid.NewObjectID(), p.Width, p.Height)
	case TemplateSample:
		snap = document.NewSampleSnapshot()
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplate, p.Template)
	}

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = defaultName
	}
	data, err := document.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal initial snapshot: %w", err)
	}
	ws, _ := snap.Workspace()

	d := &store.Design{
		ID:       typeid.NewDesignID(),
		Name:     name,
		Width:    ws.Width,
		Height:   ws.Height,
		Snapshot: data,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create design: %w", err)
	}
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Design, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "get design")
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]store.Design, error) {
	designs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	return designs, nil
}

func (s *Service) Rename(ctx context.Context, id, name string) (*store.Design, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Name = strings.TrimSpace(name)
	if d.Name == "" {
		d.Name = defaultName
	}
	if err := s.store.Save(ctx, d); err != nil {
		return nil, mapStoreError(err, "rename design")
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreError(err, "delete design")
	}
	return nil
}

// Snapshot returns the newest snapshot of a design: the live session's if one
// is open, the stored one otherwise.
func (s *Service) Snapshot(ctx context.Context, id string) (document.Snapshot, error) {
	if s.live != nil {
		if snap, ok := s.live.LiveSnapshot(id); ok {
			return snap, nil
		}
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		return document.Snapshot{}, err
	}
	snap, err := document.Unmarshal(d.Snapshot)
	if err != nil {
		return document.Snapshot{}, fmt.Errorf("decode stored snapshot: %w", err)
	}
	return snap, nil
}

// SaveSnapshot validates snap and stores it, updating the design's size from
// its workspace.
func (s *Service) SaveSnapshot(ctx context.Context, id string, snap document.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	ws, ok := snap.Workspace()
	if !ok {
		return fmt.Errorf("%w: no workspace", document.ErrInvalidSnapshot)
	}
	data, err := document.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	d.Width, d.Height = ws.Width*nonZero(ws.ScaleX), ws.Height*nonZero(ws.ScaleY)
	d.Snapshot = data
	if err := s.store.Save(ctx, d); err != nil {
		return mapStoreError(err, "save snapshot")
	}
	return nil
}

// Export renders the newest snapshot of a design.
func (s *Service) Export(ctx context.Context, id string, w io.Writer, format export.Format) error {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	c, area, err := export.FromSnapshot(ctx, snap, s.images)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, c, area); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func mapStoreError(err error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
