package main

import (
	"context"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/sweeper/internal/config"
	"github.com/vancomm/sweeper/internal/game"
	"github.com/vancomm/sweeper/internal/session"
)

var (
	sizeFlag     = flag.String("size", "10", "board side, 1..100")
	seedFlag     = flag.String("seed", "", "board seed, up to 6 digits (random when empty)")
	densityFlag  = flag.String("density", "", "mine density in (0,1)")
	preserveFlag = flag.Bool("preserve", false, "keep the board on restart")
	logFlag      = flag.String("log", "", "log file path")
)

func settingsFromFlags(rnd *rand.Rand) (game.Settings, error) {
	seed := game.RandomSeed(rnd)
	if *seedFlag != "" {
		var err error
		if seed, err = game.ParseSeed(*seedFlag); err != nil {
			return game.Settings{}, err
		}
	}
	settings := game.DefaultSettings(seed)

	size, err := game.ParseSize(*sizeFlag)
	if err != nil {
		return settings, err
	}
	settings.BoardSize = size

	if *densityFlag != "" {
		density, err := game.ParseDensity(*densityFlag)
		if err != nil {
			return settings, err
		}
		settings.Density = density
	}
	settings.PreserveProgress = *preserveFlag
	return settings, nil
}

func setupLogging() (*logrus.Logger, error) {
	if *logFlag == "" {
		log := logrus.New()
		log.SetOutput(io.Discard)
		return log, nil
	}
	c := config.Default()
	c.Log.File = *logFlag
	log, err := config.NewLogger(&c)
	if err != nil {
		return nil, err
	}
	// the screen owns stdout; entries only go to the file hook
	log.SetOutput(io.Discard)
	return log, nil
}

func run(ctx context.Context, screen tcell.Screen, s *session.Session, rnd *rand.Rand) error {
	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	cur := &cursor{rnd: rnd}
	state := s.Snapshot()
	send := func(cmds []game.Command) error {
		for _, cmd := range cmds {
			if _, err := s.Send(ctx, cmd); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		draw(screen, state, cur.row, cur.col)

		select {
		case <-ctx.Done():
			return nil
		case next, ok := <-updates:
			if !ok {
				return session.ErrClosed
			}
			state = next
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				cmds, done := cur.key(ev, state)
				if done {
					return nil
				}
				if err := send(cmds); err != nil {
					return err
				}
			case *tcell.EventMouse:
				if err := send(cur.mouse(ev, state)); err != nil {
					return err
				}
			}
		}
	}
}

func main() {
	flag.Parse()

	rnd := rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))

	settings, err := settingsFromFlags(rnd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := setupLogging()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := session.New(log, settings, session.Options{Tick: time.Second})
	sessionCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(sessionCtx)
	}()

	screen, err := tcell.NewScreen()
	if err == nil {
		err = screen.Init()
	}
	if err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, "unable to open terminal:", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	err = run(ctx, screen, s, rnd)
	screen.Fini()
	cancel()
	<-done

	if err != nil {
		log.WithError(err).Error("terminal client stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	final := s.Snapshot()
	log.WithField("state", final.String()).Info("bye")
}
