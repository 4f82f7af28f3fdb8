package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/session"
)

const maxCommandBytes = 4 << 10

var (
	errNoToken      = errors.New("missing session token")
	errWrongSession = errors.New("token was issued for another session")
)

type SessionHandler struct {
	log      *logrus.Logger
	sessions *session.Manager
	tokens   *config.Tokens
	ws       *config.WebSocket

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewSessionHandler(
	log *logrus.Logger,
	sessions *session.Manager,
	tokens *config.Tokens,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *SessionHandler {
	return &SessionHandler{
		log:      log,
		sessions: sessions,
		tokens:   tokens,
		ws:       ws,
		rnd:      rnd,
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get("token")
}

// authorize resolves the session in the request path and checks that the
// caller holds a token for it.
func (h *SessionHandler) authorize(r *http.Request) (*session.Session, int, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid session id: %w", err)
	}

	token := bearerToken(r)
	if token == "" {
		return nil, http.StatusUnauthorized, errNoToken
	}
	owner, err := h.tokens.Parse(token)
	if err != nil {
		return nil, http.StatusUnauthorized, err
	}
	if owner != id {
		return nil, http.StatusForbidden, errWrongSession
	}

	s, err := h.sessions.Get(id)
	if err != nil {
		return nil, http.StatusNotFound, err
	}
	return s, http.StatusOK, nil
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.rndMu.Lock()
	settings, err := ParseSettings(r.URL.Query(), h.rnd)
	h.rndMu.Unlock()
	if err != nil {
		SendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	s := h.sessions.Create(settings)
	token, err := h.tokens.Sign(s.ID)
	if err != nil {
		h.sessions.Delete(s.ID)
		h.log.WithError(err).Error("unable to sign session token")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", "/session/"+s.ID.String())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	SendJSONOrLog(w, h.log, CreatedDTO{
		Token:    token,
		Snapshot: NewSnapshotDTO(s.ID.String(), s.Snapshot()),
	})
}

func (h *SessionHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, status, err := h.authorize(r)
	if err != nil {
		SendErrorOrLog(w, h.log, status, err)
		return
	}
	SendJSONOrLog(w, h.log, NewSnapshotDTO(s.ID.String(), s.Snapshot()))
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, status, err := h.authorize(r)
	if err != nil {
		SendErrorOrLog(w, h.log, status, err)
		return
	}
	h.sessions.Delete(s.ID)
	w.WriteHeader(http.StatusNoContent)
}

// Command applies one command, taken from a JSON body or, without one, from
// the query string.
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	s, status, err := h.authorize(r)
	if err != nil {
		SendErrorOrLog(w, h.log, status, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		SendErrorOrLog(w, h.log, http.StatusRequestEntityTooLarge, err)
		return
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var cmd game.Command
	switch {
	case len(body) > 0 && (mediaType == "" || mediaType == "application/json"):
		cmd, err = DecodeCommand(body)
	case len(body) == 0:
		cmd, err = DecodeCommandQuery(r.URL.Query())
	default:
		err = fmt.Errorf("unsupported content type %q", mediaType)
	}
	if err != nil {
		SendErrorOrLog(w, h.log, http.StatusBadRequest, err)
		return
	}

	state, err := s.Send(r.Context(), cmd)
	if err != nil {
		h.sendSessionError(w, err)
		return
	}
	SendJSONOrLog(w, h.log, NewSnapshotDTO(s.ID.String(), state))
}

func (h *SessionHandler) sendSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		SendErrorOrLog(w, h.log, http.StatusGone, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// client went away
	default:
		h.log.WithError(err).Error("unable to apply command")
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Connect upgrades to a websocket. Every new state of the session is pushed
// as a snapshot and every text message is read as a JSON command. A command
// that cannot be decoded is answered with an error message and the
// connection stays open.
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, status, err := h.authorize(r)
	if err != nil {
		SendErrorOrLog(w, h.log, status, err)
		return
	}

	conn, err := h.ws.Upgrader.Upgrade(w, r, nil) // headers sent here
	if err != nil {
		h.log.WithError(err).Error("unable to upgrade")
		return
	}
	defer conn.Close()

	log := h.log.WithField("session", s.ID.String())
	log.Debug("established WS connection")

	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	rejected := make(chan error, 1)
	g, gCtx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		return readCommands(gCtx, conn, s, rejected)
	})
	g.Go(func() error {
		return writeSnapshots(gCtx, conn, s.ID.String(), updates, rejected)
	})
	g.Go(func() error {
		<-gCtx.Done()
		return conn.Close()
	})

	if err := g.Wait(); err != nil && !closedNormally(err) {
		log.WithError(err).Warn("error in ws loop")
		return
	}
	log.Debug("closed WS connection")
}

func readCommands(
	ctx context.Context, conn *websocket.Conn, s *session.Session, rejected chan<- error,
) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			continue
		}
		cmd, err := DecodeCommand(buf)
		if err != nil {
			select {
			case rejected <- err:
			default:
			}
			continue
		}
		if _, err := s.Send(ctx, cmd); err != nil {
			return err
		}
	}
}

func writeSnapshots(
	ctx context.Context,
	conn *websocket.Conn,
	id string,
	updates <-chan game.State,
	rejected <-chan error,
) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-rejected:
			if err := conn.WriteJSON(wrapError(err)); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
		case state, ok := <-updates:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(
					websocket.CloseGoingAway, "session closed",
				))
				return session.ErrClosed
			}
			if err := conn.WriteJSON(NewSnapshotDTO(id, state)); err != nil {
				return fmt.Errorf("unable to write json: %w", err)
			}
		}
	}
}

func closedNormally(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	) ||
		errors.Is(err, session.ErrClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, net.ErrClosed)
}
