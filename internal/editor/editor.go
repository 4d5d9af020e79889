// Package editor is the command surface of a design session: it creates,
// styles, arranges and deletes objects, and composes the viewport, selection,
// clipboard and history components over one canvas.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mickcarey/canva/internal/clipboard"
	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/export"
	"github.com/mickcarey/canva/internal/history"
	"github.com/mickcarey/canva/internal/scene"
	"github.com/mickcarey/canva/internal/selection"
	"github.com/mickcarey/canva/internal/typeid"
	"github.com/mickcarey/canva/internal/viewport"
)

var ErrNoWorkspace = errors.New("workspace not found")

// Options configures a new editor. Zero values fall back to defaults.
type Options struct {
	WorkspaceWidth  float64
	WorkspaceHeight float64
	Container       viewport.Size
	// HistoryCapacity caps the undo log; 0 keeps every entry.
	HistoryCapacity int

	// Images resolves image URLs for image-add and snapshot loads.
	Images   scene.ImageSource
	Notifier Notifier
	// OnClearSelection runs whenever the selection becomes empty.
	OnClearSelection func()
}

// Editor is not safe for concurrent use; callers serialize access.
type Editor struct {
	canvas    *scene.Canvas
	viewport  *viewport.Controller
	selection *selection.Tracker
	clipboard *clipboard.Clipboard
	history   *history.Engine

	defaults    Defaults
	workspaceID string
	images      scene.ImageSource
	notifier    Notifier
}

// New builds a session with a single workspace, fits it into the container
// and records the workspace-only scene as the first history entry.
func New(opts Options) (*Editor, error) {
	if opts.Container.Width <= 0 || opts.Container.Height <= 0 {
		opts.Container = viewport.Size{Width: document.DefaultWorkspaceWidth, Height: document.DefaultWorkspaceHeight}
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(n Notice) {
			slog.Info("editor notice", "level", n.Level, "message", n.Message)
		})
	}

	canvas := scene.NewCanvas(opts.Container.Width, opts.Container.Height)
	canvas.SetImageSource(opts.Images)

	snap := document.NewEmptySnapshot(typeid.NewObjectID(), opts.WorkspaceWidth, opts.WorkspaceHeight)
	ws := scene.FromNode(snap.Objects[0])
	canvas.Add(ws)

	e := &Editor{
		canvas:      canvas,
		defaults:    NewDefaults(),
		workspaceID: ws.ID,
		images:      opts.Images,
		notifier:    opts.Notifier,
	}
	e.selection = selection.New(selection.WithClearCallback(opts.OnClearSelection))
	e.selection.Attach(canvas)
	e.viewport = viewport.New(canvas, e.Workspace)
	e.clipboard = clipboard.New(canvas)

	var historyOpts []history.Option
	historyOpts = append(historyOpts, history.WithRestoreHook(e.afterRestore))
	if opts.HistoryCapacity > 0 {
		historyOpts = append(historyOpts, history.WithCapacity(opts.HistoryCapacity))
	}
	e.history = history.New(canvas, historyOpts...)
	if err := e.history.Init(); err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	if err := e.viewport.Fit(opts.Container); err != nil {
		return nil, fmt.Errorf("fit workspace: %w", err)
	}
	return e, nil
}

// Close detaches every canvas listener.
func (e *Editor) Close() {
	e.selection.Detach()
	e.history.Detach()
}

func (e *Editor) Canvas() *scene.Canvas { return e.canvas }

func (e *Editor) Defaults() Defaults { return e.defaults }

// Workspace resolves the workspace through its stored id, falling back to the
// marker name when the id is gone (e.g. after loading another document).
func (e *Editor) Workspace() *scene.Object {
	if ws, ok := e.canvas.Object(e.workspaceID); ok {
		return ws
	}
	for _, obj := range e.canvas.Objects() {
		if obj.Name == document.WorkspaceName {
			e.workspaceID = obj.ID
			return obj
		}
	}
	return nil
}

func (e *Editor) afterRestore() {
	ws := e.Workspace()
	if ws == nil {
		return
	}
	clip := e.canvas.ClipPath()
	if clip == nil || clip.Width != ws.Width || clip.Height != ws.Height {
		if err := e.viewport.Refit(); err != nil {
			slog.Error("failed to refit after restore", "error", err)
		}
	}
}

func (e *Editor) notify(level, msg string) {
	e.notifier.Notify(Notice{Level: level, Message: msg})
}

// Selected returns the current selection.
func (e *Editor) Selected() []*scene.Object {
	return e.selection.Selected()
}

// --- Viewport ---

// Resize fits the workspace into a new container size.
func (e *Editor) Resize(size viewport.Size) error {
	return e.viewport.Fit(size)
}

func (e *Editor) ZoomIn() { e.viewport.ZoomIn() }

func (e *Editor) ZoomOut() { e.viewport.ZoomOut() }

func (e *Editor) AutoZoom() error { return e.viewport.AutoZoom() }

func (e *Editor) Zoom() float64 { return e.viewport.Zoom() }

// ScreenToScene converts container coordinates into scene coordinates.
func (e *Editor) ScreenToScene(p scene.Point) scene.Point {
	return e.viewport.ScreenToScene(p)
}

// --- Workspace ---

// ChangeSize resizes the workspace, records it and refits the view.
func (e *Editor) ChangeSize(width, height float64) error {
	ws := e.Workspace()
	if ws == nil {
		return ErrNoWorkspace
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid workspace size %vx%v", width, height)
	}
	ws.Width, ws.Height = width, height
	if err := e.viewport.Refit(); err != nil {
		return err
	}
	return e.history.Save()
}

// ChangeBackground repaints the workspace and records it.
func (e *Editor) ChangeBackground(color string) error {
	ws := e.Workspace()
	if ws == nil {
		return ErrNoWorkspace
	}
	ws.Fill = color
	e.canvas.RequestRender()
	return e.history.Save()
}

// --- Clipboard ---

func (e *Editor) Copy() error { return e.clipboard.Copy() }

// Paste pastes the clipboard. An empty clipboard only raises a notice.
func (e *Editor) Paste() error {
	_, err := e.clipboard.Paste()
	if errors.Is(err, clipboard.ErrEmpty) {
		e.notify(NoticeInfo, "Nothing to paste")
		return nil
	}
	return err
}

func (e *Editor) Cut() error { return e.clipboard.Cut() }

// --- History ---

// Undo restores the previous snapshot. A failed restore leaves the scene
// intact and raises a notice.
func (e *Editor) Undo(ctx context.Context) error {
	if err := e.history.Undo(ctx); err != nil {
		e.notify(NoticeError, "Could not undo")
		return err
	}
	return nil
}

// Redo restores the next snapshot.
func (e *Editor) Redo(ctx context.Context) error {
	if err := e.history.Redo(ctx); err != nil {
		e.notify(NoticeError, "Could not redo")
		return err
	}
	return nil
}

func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// Revision changes whenever the document does.
func (e *Editor) Revision() uint64 { return e.history.Revision() }

// --- Persistence ---

// SaveJSON serializes the scene with the history allow-list.
func (e *Editor) SaveJSON() ([]byte, error) {
	return document.Marshal(e.Snapshot())
}

// Snapshot returns the allow-list filtered scene.
func (e *Editor) Snapshot() document.Snapshot {
	return e.canvas.ToSnapshot(document.AllowList)
}

// LoadJSON replaces the scene with a saved document and starts a new history.
func (e *Editor) LoadJSON(ctx context.Context, data []byte) error {
	snap, err := document.Unmarshal(data)
	if err != nil {
		return err
	}
	return e.Load(ctx, snap)
}

// Load replaces the scene with snap and starts a new history.
func (e *Editor) Load(ctx context.Context, snap document.Snapshot) error {
	ws, ok := snap.Workspace()
	if !ok {
		return ErrNoWorkspace
	}
	if err := e.history.Replace(ctx, snap); err != nil {
		return err
	}
	e.workspaceID = ws.ID
	return e.viewport.AutoZoom()
}

// Export renders the workspace area in the given format.
func (e *Editor) Export(w io.Writer, format export.Format) error {
	ws := e.Workspace()
	if ws == nil {
		return ErrNoWorkspace
	}
	return export.Write(w, format, e.canvas, ws.BoundingRect())
}
