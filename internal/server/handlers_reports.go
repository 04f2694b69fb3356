package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/render"
	"go.uber.org/zap"
)

type tableResponse struct {
	Rows [][]any `json:"rows"`
}

func (s *Server) getContainer(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.OpenReport(r.Context(), pathParam(r, "id"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	c, err := report.BalancesContainer(pathParam(r, "name"))
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c.Summary())
}

// dataTable builds a pivot table over a snapshot, or over one container of
// it when the container parameter is set.
func (s *Server) dataTable(w http.ResponseWriter, r *http.Request) {
	opts, err := parseTableOptions(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := pathParam(r, "id")
	report, err := s.store.OpenReport(r.Context(), id)
	if err != nil {
		writeError(w, mapError(err), err.Error())
		return
	}

	builder := report.CreateDataTable()
	if name := r.URL.Query().Get("container"); name != "" {
		c, err := report.BalancesContainer(name)
		if err != nil {
			writeError(w, mapError(err), err.Error())
			return
		}
		builder = c.CreateDataTable()
	}

	rows, err := builder.Apply(opts).Build(r.Context())
	if err != nil {
		s.log.Error("build table", zap.String("snapshot", id), zap.Error(err))
		writeError(w, mapError(err), err.Error())
		return
	}

	s.log.Debug("table built",
		zap.String("snapshot", id),
		zap.String("type", string(opts.Type)),
		zap.Int("rows", len(rows)),
	)
	writeJSON(w, http.StatusOK, tableResponse{Rows: render.JSON(rows)})
}

func parseTableOptions(q url.Values) (balances.Options, error) {
	var opts balances.Options
	var err error

	if opts.Type, err = balances.ParseBalanceType(q.Get("type")); err != nil {
		return opts, err
	}
	if opts.Expanded, err = balances.ParseExpansion(q.Get("expanded")); err != nil {
		return opts, err
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"transposed", &opts.Transposed},
		{"raw", &opts.Raw},
		{"trial", &opts.Trial},
		{"period", &opts.Period},
		{"properties", &opts.Properties},
		{"formatValues", &opts.FormatValues},
		{"formatDates", &opts.FormatDates},
		{"hideDates", &opts.HideDates},
		{"hideNames", &opts.HideNames},
	}
	for _, f := range flags {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("invalid %s %q", f.name, v)
		}
		*f.dst = b
	}
	return opts, nil
}
