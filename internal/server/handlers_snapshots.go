package server

import (
	"io"
	"net/http"

	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/simonvc/miniledger-balances/internal/store"
	"go.uber.org/zap"
)

const maxSnapshotBytes = 32 << 20

// createSnapshot stores the request body, a balances report as delivered by
// the ledger service, and returns the snapshot record without its payload.
func (s *Server) createSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}

	bookID := pathParam(r, "book")
	snap, err := s.store.CreateSnapshot(r.Context(), bookID, body)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	s.log.Info("snapshot stored",
		zap.String("book", bookID),
		zap.String("snapshot", snap.ID),
		zap.String("periodicity", string(snap.Periodicity)),
		zap.Int("bytes", len(body)),
	)
	snap.Payload = nil
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) listSnapshots(w http.ResponseWriter, r *http.Request) {
	filter := store.SnapshotFilter{}
	filter.Limit, filter.Offset = pageParams(r)

	bookID := pathParam(r, "book")
	if _, err := s.store.GetBook(r.Context(), bookID); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	snaps, err := s.store.ListSnapshots(r.Context(), bookID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if snaps == nil {
		snaps = []ledger.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) latestSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.LatestSnapshot(r.Context(), pathParam(r, "book"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.GetSnapshot(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSnapshot(r.Context(), pathParam(r, "id")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
