package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/simonvc/miniledger-balances/internal/store"
)

func (s *Server) upsertAccount(w http.ResponseWriter, r *http.Request) {
	var acct ledger.Account
	if err := json.NewDecoder(r.Body).Decode(&acct); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	bookID := pathParam(r, "book")
	if err := s.store.UpsertAccount(r.Context(), bookID, &acct); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.AccountFilter{
		Type:            ledger.AccountType(q.Get("type")),
		IncludeArchived: q.Get("archived") == "true" || q.Get("archived") == "1",
	}
	filter.Limit, filter.Offset = pageParams(r)

	accounts, err := s.store.ListAccounts(r.Context(), pathParam(r, "book"), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if accounts == nil {
		accounts = []ledger.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acct, err := s.store.GetAccount(r.Context(), pathParam(r, "book"), pathParam(r, "name"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, acct)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAccount(r.Context(), pathParam(r, "book"), pathParam(r, "name")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) upsertGroup(w http.ResponseWriter, r *http.Request) {
	var grp ledger.Group
	if err := json.NewDecoder(r.Body).Decode(&grp); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if err := s.store.UpsertGroup(r.Context(), pathParam(r, "book"), &grp); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, grp)
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	filter := store.GroupFilter{Parent: r.URL.Query().Get("parent")}
	filter.Limit, filter.Offset = pageParams(r)

	groups, err := s.store.ListGroups(r.Context(), pathParam(r, "book"), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if groups == nil {
		groups = []ledger.Group{}
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	grp, err := s.store.GetGroup(r.Context(), pathParam(r, "book"), pathParam(r, "name"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, grp)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteGroup(r.Context(), pathParam(r, "book"), pathParam(r, "name")); err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pageParams reads limit and offset query parameters; bad values are ignored.
func pageParams(r *http.Request) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
