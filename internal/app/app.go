package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/middleware"
	"github.com/vancomm/sweeper/internal/session"
)

type App struct {
	log      *logrus.Logger
	config   *config.Config
	router   *http.ServeMux
	sessions *session.Manager
	tokens   *config.Tokens
	ws       *config.WebSocket
}

func New(log *logrus.Logger, c *config.Config) *App {
	return &App{
		log:    log,
		config: c,
		router: http.NewServeMux(),
	}
}

// Handler builds the routes on first use. Sessions started through it live
// until ctx is done.
func (a *App) Handler(ctx context.Context) (http.Handler, error) {
	tokens, err := config.NewTokensFromConfig(a.config)
	if err != nil {
		return nil, err
	}
	a.tokens = tokens
	a.ws = config.NewWebSocket(a.config)
	a.sessions = session.NewManager(
		ctx, a.log, a.config.Session.IdleTimeout.Duration,
		session.Options{Tick: a.config.Session.Tick.Duration},
	)

	a.loadRoutes()

	return middleware.Wrap(
		a.router,
		middleware.Cors(a.config.OriginAllowed),
		middleware.Logging(a.log),
	), nil
}

func (a *App) Start(ctx context.Context) error {
	handler, err := a.Handler(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    a.config.Addr,
		Handler: handler,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.log.Infof("ready to serve @ %s", a.config.Addr)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.sessions.Run(gCtx, a.config.Session.SweepInterval.Duration)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*30)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
