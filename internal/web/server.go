// Package web serves the terminal UI in a browser. Each websocket
// connection gets its own TUI process on a pseudo-terminal.
package web

import (
	_ "embed"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/simonvc/miniledger-balances/internal/server"
	"go.uber.org/zap"
)

//go:embed static/index.html
var indexHTML []byte

var bookRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// CommandFunc builds the process attached to one browser terminal.
type CommandFunc func(book string) (*exec.Cmd, error)

// TUICommand runs this executable's tui command against the API at apiAddr.
func TUICommand(apiAddr string) CommandFunc {
	return func(book string) (*exec.Cmd, error) {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		cmd := exec.Command(exe, "tui", "--server", apiAddr, "--book", book)
		cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
		return cmd, nil
	}
}

// Server serves the web terminal UI.
type Server struct {
	addr        string
	defaultBook string
	command     CommandFunc
	router      chi.Router
	log         *zap.Logger
}

// NewServer creates a web terminal server. Terminals open defaultBook
// unless the page asks for another one with ?book=.
func NewServer(addr, defaultBook string, command CommandFunc, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(server.RequestLogger(log))

	s := &Server{
		addr:        addr,
		defaultBook: defaultBook,
		command:     command,
		router:      r,
		log:         log,
	}

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return s
}

// book returns the requested book id, or "" when it is not a valid id.
func (s *Server) book(r *http.Request) string {
	b := r.URL.Query().Get("book")
	if b == "" {
		b = s.defaultBook
	}
	if !bookRe.MatchString(b) {
		return ""
	}
	return b
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the web terminal server.
func (s *Server) ListenAndServe() error {
	s.log.Info("web terminal listening", zap.String("addr", s.addr))
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
