package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/mines"
)

var (
	ErrClosed   = errors.New("session closed")
	ErrNotFound = errors.New("session not found")
)

// Generator produces a board for the given params. It runs outside the
// command loop.
type Generator func(ctx context.Context, p mines.BoardParams) (*mines.Board, error)

func Generate(_ context.Context, p mines.BoardParams) (*mines.Board, error) {
	return p.Generate()
}

type request struct {
	cmd   game.Command
	reply chan game.State
}

type loaded struct {
	params mines.BoardParams
	board  *mines.Board
}

// Session owns one game state and applies commands to it one at a time.
// Everything that changes the state goes through Run.
type Session struct {
	ID uuid.UUID

	log      *logrus.Entry
	generate Generator
	tick     time.Duration

	requests chan request
	boards   chan loaded
	done     chan struct{}

	mu     sync.RWMutex
	state  game.State
	subs   map[int]chan game.State
	nextID int

	lastActive atomic.Int64
}

type Options struct {
	Tick      time.Duration
	Generator Generator
}

func New(log *logrus.Logger, settings game.Settings, opts Options) *Session {
	if opts.Tick <= 0 {
		opts.Tick = time.Second
	}
	if opts.Generator == nil {
		opts.Generator = Generate
	}
	id := uuid.New()
	s := &Session{
		ID:       id,
		log:      log.WithField("session", id.String()),
		generate: opts.Generator,
		tick:     opts.Tick,
		requests: make(chan request),
		boards:   make(chan loaded),
		done:     make(chan struct{}),
		state:    game.NewState(settings),
		subs:     make(map[int]chan game.State),
	}
	s.touch()
	return s
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Snapshot returns the current state. The board it points to is never
// modified afterwards.
func (s *Session) Snapshot() game.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Send applies cmd and returns the resulting state.
func (s *Session) Send(ctx context.Context, cmd game.Command) (game.State, error) {
	s.touch()
	req := request{cmd: cmd, reply: make(chan game.State, 1)}
	select {
	case s.requests <- req:
	case <-s.done:
		return game.State{}, ErrClosed
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
	select {
	case state := <-req.reply:
		return state, nil
	case <-s.done:
		return game.State{}, ErrClosed
	case <-ctx.Done():
		return game.State{}, ctx.Err()
	}
}

// Subscribe delivers every new state. Slow readers only see the latest one.
// The channel is closed when the session ends or cancel is called.
func (s *Session) Subscribe() (<-chan game.State, func()) {
	ch := make(chan game.State, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	select {
	case <-s.done:
		close(ch)
		s.mu.Unlock()
		return ch, func() {}
	default:
	}
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

func (s *Session) publish(state game.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

func (s *Session) apply(cmd game.Command) game.State {
	prev := s.Snapshot()
	next := game.Reduce(prev, cmd)
	if _, ok := cmd.(game.UptickTimer); !ok {
		s.log.WithFields(logrus.Fields{
			"command": cmd.Name(),
			"from":    prev.Phase.String(),
			"to":      next.Phase.String(),
		}).Debug("applied command")
	}
	if next.Phase == game.PostGame && prev.Phase != game.PostGame {
		s.log.WithFields(logrus.Fields{
			"won":      next.PlayerWin,
			"conceded": next.Conceded,
			"time":     game.FormatTime(next.TimerVal),
		}).Info("game over")
	}
	s.publish(next)
	return next
}

// Run processes commands, timer ticks and generated boards until ctx is
// done.
func (s *Session) Run(ctx context.Context) error {
	defer s.close()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	var pending string
	load := func(state game.State) {
		if !state.NeedsBoard() {
			return
		}
		params := state.Settings.Params()
		if params.Key() == pending {
			return
		}
		pending = params.Key()
		go s.load(ctx, params)
	}

	load(s.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-s.requests:
			state := s.apply(req.cmd)
			req.reply <- state
			load(state)
		case <-ticker.C:
			if s.Snapshot().TimerOn {
				s.apply(game.UptickTimer{})
			}
		case l := <-s.boards:
			if l.params.Key() == pending {
				pending = ""
			}
			if l.board == nil {
				continue
			}
			current := s.Snapshot()
			if !current.NeedsBoard() || l.params != current.Settings.Params() {
				s.log.WithField("params", l.params.Key()).Debug("dropped stale board")
				load(current)
				continue
			}
			load(s.apply(game.LoadBoard{Board: l.board}))
		}
	}
}

func (s *Session) load(ctx context.Context, params mines.BoardParams) {
	board, err := s.generate(ctx, params)
	if err != nil {
		s.log.WithError(err).WithField("params", params.Key()).Error("unable to generate board")
		board = nil
	}
	select {
	case s.boards <- loaded{params: params, board: board}:
	case <-ctx.Done():
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	close(s.done)
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}

// Done is closed once Run has returned.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
