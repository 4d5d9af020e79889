// Package session hosts live editors. A Session serialises every access to
// one design's editor behind a mutex, so concurrent callers behave like a
// single UI thread.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/editor"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is one editor operation as sent over the wire.
type Command struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// Result is returned for every dispatched command.
type Result struct {
	Seq     int64        `json:"seq"`
	Changed bool         `json:"changed"`
	Data    any          `json:"data,omitempty"`
	State   editor.State `json:"state"`
}

// NoticeFunc receives the notices raised by a session's editor.
type NoticeFunc func(designID string, n editor.Notice)

type Session struct {
	mu     sync.Mutex
	id     string
	editor *editor.Editor

	// seq counts document changes, saved is the last seq persisted.
	seq   int64
	saved int64
}

// New opens an editor on snap. Notices from the editor are passed to onNotice.
func New(ctx context.Context, id string, snap document.Snapshot, opts editor.Options, onNotice NoticeFunc) (*Session, error) {
	s := &Session{id: id}
	opts.Notifier = editor.NotifierFunc(func(n editor.Notice) {
		slog.Debug("session notice", "design", id, "level", n.Level, "message", n.Message)
		if onNotice != nil {
			onNotice(id, n)
		}
	})

	e, err := editor.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create editor: %w", err)
	}
	if err := e.Load(ctx, snap); err != nil {
		e.Close()
		return nil, fmt.Errorf("load design %s: %w", id, err)
	}
	s.editor = e
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Do runs fn with exclusive access to the editor. A change to the document
// advances the sequence number.
func (s *Session) Do(fn func(e *editor.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.doLocked(fn)
	return err
}

func (s *Session) doLocked(fn func(e *editor.Editor) error) (bool, error) {
	before := s.editor.Revision()
	err := fn(s.editor)
	changed := s.editor.Revision() != before
	if changed {
		s.seq++
	}
	return changed, err
}

// Dispatch runs a named command. Image fetches run before the lock is taken
// and the decoded image is placed afterwards, so a slow download never
// blocks other commands.
func (s *Session) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if cmd.Name == CmdImageAdd {
		return s.addImage(ctx, cmd.Args)
	}

	h, ok := handlers[cmd.Name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var data any
	changed, err := s.doLocked(func(e *editor.Editor) error {
		var err error
		data, err = h(ctx, e, cmd.Args)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", cmd.Name, err)
	}
	return Result{Seq: s.seq, Changed: changed, Data: data, State: s.editor.State()}, nil
}

func (s *Session) addImage(ctx context.Context, raw json.RawMessage) (Result, error) {
	args, err := decode[urlArgs](raw)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", CmdImageAdd, err)
	}
	img, err := s.editor.LoadImage(ctx, args.URL)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", CmdImageAdd, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var id string
	changed, _ := s.doLocked(func(e *editor.Editor) error {
		id = e.PlaceImage(args.URL, img).ID
		return nil
	})
	return Result{Seq: s.seq, Changed: changed, Data: objectRef{ID: id}, State: s.editor.State()}, nil
}

// State returns the toolbar state.
func (s *Session) State() editor.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.State()
}

// Seq returns the current document sequence number.
func (s *Session) Seq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Snapshot returns the document with its sequence number.
func (s *Session) Snapshot() (document.Snapshot, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.Snapshot(), s.seq
}

// Dirty reports whether the document changed since the last MarkSaved.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq != s.saved
}

// MarkSaved records that the document at seq has been persisted.
func (s *Session) MarkSaved(seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.saved {
		s.saved = seq
	}
}

// Flush saves the document through save when it is dirty. The save itself
// runs outside the lock.
func (s *Session) Flush(ctx context.Context, save func(ctx context.Context, id string, snap document.Snapshot) error) error {
	if !s.Dirty() {
		return nil
	}
	snap, seq := s.Snapshot()
	if err := save(ctx, s.id, snap); err != nil {
		return fmt.Errorf("save design %s: %w", s.id, err)
	}
	s.MarkSaved(seq)
	slog.Debug("session flushed", "design", s.id, "seq", seq)
	return nil
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editor.Close()
}
