package app

import (
	"hash/maphash"
	"math/rand/v2"

	"github.com/vancomm/sweeper/internal/handlers"
)

func createRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (a *App) loadRoutes() {
	sessions := handlers.NewSessionHandler(
		a.log, a.sessions, a.tokens, a.ws, createRand(),
	)

	a.router.HandleFunc("POST /session", sessions.Create)
	a.router.HandleFunc("GET /session/{id}", sessions.Fetch)
	a.router.HandleFunc("DELETE /session/{id}", sessions.Delete)
	a.router.HandleFunc("POST /session/{id}/command", sessions.Command)
	a.router.HandleFunc("GET /session/{id}/connect", sessions.Connect)
}
