package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/game"
)

type entry struct {
	session *Session
	cancel  context.CancelFunc
}

// Manager keeps the live sessions of this process in memory.
type Manager struct {
	log  *logrus.Logger
	opts Options
	idle time.Duration

	ctx   context.Context
	group *errgroup.Group

	mu       sync.RWMutex
	sessions map[uuid.UUID]entry
}

// NewManager starts sessions under ctx. Sessions untouched for longer than
// idle are dropped by [Manager.Sweep]; zero keeps them forever.
func NewManager(ctx context.Context, log *logrus.Logger, idle time.Duration, opts Options) *Manager {
	group, gCtx := errgroup.WithContext(ctx)
	return &Manager{
		log:      log,
		opts:     opts,
		idle:     idle,
		ctx:      gCtx,
		group:    group,
		sessions: make(map[uuid.UUID]entry),
	}
}

func (m *Manager) Create(settings game.Settings) *Session {
	s := New(m.log, settings, m.opts)
	ctx, cancel := context.WithCancel(m.ctx)

	m.mu.Lock()
	m.sessions[s.ID] = entry{session: s, cancel: cancel}
	m.mu.Unlock()

	m.group.Go(func() error {
		return s.Run(ctx)
	})

	m.log.WithFields(logrus.Fields{
		"session": s.ID.String(),
		"params":  settings.Params().Key(),
	}).Info("created session")

	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.session, nil
}

func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	e, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		e.cancel()
		m.log.WithField("session", id.String()).Info("deleted session")
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions that have been idle since before now - idle and
// returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.idle <= 0 {
		return 0
	}
	var expired []uuid.UUID
	m.mu.RLock()
	for id, e := range m.sessions {
		if now.Sub(e.session.LastActive()) > m.idle {
			expired = append(expired, id)
		}
	}
	m.mu.RUnlock()
	for _, id := range expired {
		m.Delete(id)
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done, then waits for
// all sessions to stop.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			case now := <-ticker.C:
				if n := m.Sweep(now); n > 0 {
					m.log.WithField("count", n).Info("swept idle sessions")
				}
			}
		}
	} else {
		<-ctx.Done()
	}
	return m.Shutdown()
}

// Shutdown stops every session and waits for them to finish.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	for id, e := range m.sessions {
		e.cancel()
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	return m.group.Wait()
}
