package server

import (
	"encoding/json"
	"net/http"

	"github.com/simonvc/miniledger-balances/internal/ledger"
	"go.uber.org/zap"
)

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.store.ListBooks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if books == nil {
		books = []ledger.BookSettings{}
	}
	writeJSON(w, http.StatusOK, books)
}

// upsertBook stores settings for the book in the path. Fields left out of
// the body keep their defaults.
func (s *Server) upsertBook(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "book")
	settings := ledger.DefaultBookSettings(id)
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	settings.ID = id

	if err := s.store.UpsertBook(r.Context(), &settings); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	s.log.Info("book saved", zap.String("book", id))
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetBook(r.Context(), pathParam(r, "book"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteBook(r.Context(), pathParam(r, "book")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// seedChart loads the starter chart of groups and accounts into a book.
func (s *Server) seedChart(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "book")
	res, err := s.store.SeedStarterChart(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	s.log.Info("starter chart seeded", zap.String("book", id),
		zap.Int("groups", res.Groups), zap.Int("accounts", res.Accounts))
	writeJSON(w, http.StatusOK, res)
}
