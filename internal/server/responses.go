package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func mapError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrBookNotFound),
		errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrGroupNotFound),
		errors.Is(err, ledger.ErrSnapshotNotFound),
		errors.Is(err, balances.ErrContainerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidName),
		errors.Is(err, ledger.ErrInvalidAccountType),
		errors.Is(err, ledger.ErrInvalidPeriodicity),
		errors.Is(err, ledger.ErrInvalidSeparator),
		errors.Is(err, ledger.ErrInvalidFractionDigit),
		errors.Is(err, ledger.ErrGroupCycle),
		errors.Is(err, ledger.ErrInvalidSnapshot):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// pathParam returns an unescaped chi URL parameter.
func pathParam(r *http.Request, key string) string {
	v, err := url.PathUnescape(chi.URLParam(r, key))
	if err != nil {
		return chi.URLParam(r, key)
	}
	return v
}
