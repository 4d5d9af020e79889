package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mickcarey/canva/internal/document"
	"github.com/mickcarey/canva/internal/editor"
)

// Persister loads and stores design snapshots. design.Service implements it.
type Persister interface {
	Snapshot(ctx context.Context, id string) (document.Snapshot, error)
	SaveSnapshot(ctx context.Context, id string, snap document.Snapshot) error
}

type entry struct {
	session *Session
	refs    int
}

// Manager keeps one session per open design, shared by every client editing
// it, and saves dirty sessions periodically and when the last client leaves.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	persist  Persister
	opts     editor.Options
	onNotice NoticeFunc
}

// NewManager creates a manager opening editors with opts.
func NewManager(p Persister, opts editor.Options) *Manager {
	return &Manager{
		sessions: make(map[string]*entry),
		persist:  p,
		opts:     opts,
	}
}

// SetNoticeHandler routes editor notices of every session opened afterwards.
func (m *Manager) SetNoticeHandler(fn NoticeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onNotice = fn
}

// Open returns the live session for id, loading it from the persister if
// nobody has it open. Every Open must be paired with a Release.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	if e, ok := m.sessions[id]; ok {
		e.refs++
		m.mu.Unlock()
		return e.session, nil
	}
	onNotice := m.onNotice
	m.mu.Unlock()

	// Loading happens unlocked: the persister may ask LiveSnapshot.
	snap, err := m.persist.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	s, err := New(ctx, id, snap, m.opts, onNotice)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[id]; ok {
		s.Close()
		e.refs++
		return e.session, nil
	}
	m.sessions[id] = &entry{session: s, refs: 1}
	slog.Info("session opened", "design", id)
	return s, nil
}

// Release drops one reference. The last release saves and closes the
// session, unless someone reopens it while the save is running.
func (m *Manager) Release(ctx context.Context, id string) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	e.refs--
	if e.refs > 0 {
		m.mu.Unlock()
		return nil
	}
	m.mu.Unlock()

	err := e.session.Flush(ctx, m.persist.SaveSnapshot)

	m.mu.Lock()
	if e.refs > 0 || m.sessions[id] != e {
		m.mu.Unlock()
		return err
	}
	delete(m.sessions, id)
	m.mu.Unlock()

	e.session.Close()
	slog.Info("session closed", "design", id)
	return err
}

// Get returns an open session without taking a reference.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// LiveSnapshot implements design.LiveSource.
func (m *Manager) LiveSnapshot(id string) (document.Snapshot, bool) {
	s, ok := m.Get(id)
	if !ok {
		return document.Snapshot{}, false
	}
	snap, _ := s.Snapshot()
	return snap, true
}

func (m *Manager) open() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, e := range m.sessions {
		out = append(out, e.session)
	}
	return out
}

// FlushAll saves every dirty session.
func (m *Manager) FlushAll(ctx context.Context) error {
	var errs []error
	for _, s := range m.open() {
		if err := s.Flush(ctx, m.persist.SaveSnapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run autosaves dirty sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.FlushAll(ctx); err != nil {
				slog.Error("autosave failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
