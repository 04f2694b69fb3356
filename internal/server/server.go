package server

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/simonvc/miniledger-balances/internal/store"
	"go.uber.org/zap"
)

type Server struct {
	store  *store.Store
	router chi.Router
	addr   string
	log    *zap.Logger
}

func New(st *store.Store, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(log))

	s := &Server{store: st, router: r, addr: addr, log: log}

	r.Route("/api/v1", func(r chi.Router) {
		// Books
		r.Get("/books", s.listBooks)
		r.Put("/books/{book}", s.upsertBook)
		r.Get("/books/{book}", s.getBook)
		r.Delete("/books/{book}", s.deleteBook)
		r.Post("/books/{book}/chart", s.seedChart)

		// Account and group metadata
		r.Put("/books/{book}/accounts", s.upsertAccount)
		r.Get("/books/{book}/accounts", s.listAccounts)
		r.Get("/books/{book}/accounts/{name}", s.getAccount)
		r.Delete("/books/{book}/accounts/{name}", s.deleteAccount)
		r.Put("/books/{book}/groups", s.upsertGroup)
		r.Get("/books/{book}/groups", s.listGroups)
		r.Get("/books/{book}/groups/{name}", s.getGroup)
		r.Delete("/books/{book}/groups/{name}", s.deleteGroup)

		// Snapshots
		r.Post("/books/{book}/snapshots", s.createSnapshot)
		r.Get("/books/{book}/snapshots", s.listSnapshots)
		r.Get("/books/{book}/snapshots/latest", s.latestSnapshot)
		r.Get("/snapshots/{id}", s.getSnapshot)
		r.Delete("/snapshots/{id}", s.deleteSnapshot)

		// Reports over a snapshot
		r.Get("/snapshots/{id}/containers/{name}", s.getContainer)
		r.Get("/snapshots/{id}/table", s.dataTable)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info("balances server listening", zap.String("addr", s.addr))
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info("balances server listening", zap.String("addr", ln.Addr().String()))
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
