package balances

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/ledger"
	"golang.org/x/sync/errgroup"
)

// BalanceType selects the layout family of a data table.
type BalanceType string

const (
	TotalBalance      BalanceType = "TOTAL"
	PeriodBalance     BalanceType = "PERIOD"
	CumulativeBalance BalanceType = "CUMULATIVE"
)

// ValidBalanceType checks if a balance type string is valid.
func ValidBalanceType(t BalanceType) bool {
	switch t {
	case TotalBalance, PeriodBalance, CumulativeBalance:
		return true
	}
	return false
}

// Expansion depths with special meaning for ExpandDepth.
const (
	ExpandAllGroups   = -1 // groups down to leaf groups, accounts aggregated
	ExpandAllAccounts = -2 // every account on its own line, no group lines
)

const resolveConcurrency = 8

// Options is the declarative configuration of a data table.
type Options struct {
	Type         BalanceType `json:"type"`
	Transposed   bool        `json:"transposed"`
	FormatDates  bool        `json:"formatDates"`
	FormatValues bool        `json:"formatValues"`
	HideDates    bool        `json:"hideDates"`
	HideNames    bool        `json:"hideNames"`
	Properties   bool        `json:"properties"`
	Trial        bool        `json:"trial"`
	Period       bool        `json:"period"`
	Raw          bool        `json:"raw"`
	Expanded     int         `json:"expanded"` // 0 off, n levels, ExpandAllGroups or ExpandAllAccounts
}

// DataTableBuilder flattens containers into a two-dimensional table.
// Setters return the builder; the configuration is read only by Build.
//
// Cells are string, decimal.Decimal, time.Time or nil. A nil cell means no
// data, which is distinct from a zero value.
type DataTableBuilder struct {
	containers  []*Container
	periodicity ledger.Periodicity
	book        Book
	opts        Options
}

func NewDataTableBuilder(containers []*Container, periodicity ledger.Periodicity, book Book) *DataTableBuilder {
	if book == nil {
		book = plainBook{}
	}
	return &DataTableBuilder{
		containers:  containers,
		periodicity: periodicity,
		book:        book,
		opts:        Options{Type: TotalBalance},
	}
}

func (b *DataTableBuilder) Periodicity() ledger.Periodicity { return b.periodicity }

// Options returns a copy of the current configuration.
func (b *DataTableBuilder) Options() Options { return b.opts }

// Apply replaces the whole configuration.
func (b *DataTableBuilder) Apply(opts Options) *DataTableBuilder {
	if !ValidBalanceType(opts.Type) {
		opts.Type = TotalBalance
	}
	b.opts = opts
	return b
}

func (b *DataTableBuilder) Type(t BalanceType) *DataTableBuilder {
	b.opts.Type = t
	return b
}

func (b *DataTableBuilder) Transposed(v bool) *DataTableBuilder {
	b.opts.Transposed = v
	return b
}

func (b *DataTableBuilder) FormatDates(v bool) *DataTableBuilder {
	b.opts.FormatDates = v
	return b
}

func (b *DataTableBuilder) FormatValues(v bool) *DataTableBuilder {
	b.opts.FormatValues = v
	return b
}

func (b *DataTableBuilder) HideDates(v bool) *DataTableBuilder {
	b.opts.HideDates = v
	return b
}

func (b *DataTableBuilder) HideNames(v bool) *DataTableBuilder {
	b.opts.HideNames = v
	return b
}

func (b *DataTableBuilder) Properties(v bool) *DataTableBuilder {
	b.opts.Properties = v
	return b
}

func (b *DataTableBuilder) Trial(v bool) *DataTableBuilder {
	b.opts.Trial = v
	return b
}

func (b *DataTableBuilder) Period(v bool) *DataTableBuilder {
	b.opts.Period = v
	return b
}

func (b *DataTableBuilder) Raw(v bool) *DataTableBuilder {
	b.opts.Raw = v
	return b
}

// Expanded replaces each top-level group by its direct children.
func (b *DataTableBuilder) Expanded(v bool) *DataTableBuilder {
	b.opts.Expanded = 0
	if v {
		b.opts.Expanded = 1
	}
	return b
}

// ExpandDepth unrolls groups depth levels deep, or fully with
// ExpandAllGroups / ExpandAllAccounts. Other negative values disable expansion.
func (b *DataTableBuilder) ExpandDepth(depth int) *DataTableBuilder {
	switch {
	case depth == ExpandAllGroups, depth == ExpandAllAccounts, depth > 0:
		b.opts.Expanded = depth
	default:
		b.opts.Expanded = 0
	}
	return b
}

// Build produces the table. It only blocks when properties are requested
// and some containers must have them resolved through the book.
func (b *DataTableBuilder) Build(ctx context.Context) ([][]any, error) {
	containers := b.flatten()

	var grid [][]any
	switch b.opts.Type {
	case PeriodBalance, CumulativeBalance:
		grid = b.timeGrid(containers)
	default:
		grid = b.totalGrid(containers)
	}

	if b.opts.Properties {
		props, err := b.resolveProperties(ctx, containers)
		if err != nil {
			return nil, err
		}
		appendProperties(grid, containers, props)
	}

	if b.opts.Type == PeriodBalance || b.opts.Type == CumulativeBalance {
		if b.opts.HideDates && len(grid) > 0 {
			grid = grid[1:]
		}
		if b.opts.HideNames {
			for i := range grid {
				grid[i] = grid[i][1:]
			}
		}
		// Dates run down the rows unless transposed.
		if !b.opts.Transposed {
			grid = transpose(grid)
		}
		return grid, nil
	}

	if b.opts.Transposed {
		grid = transpose(grid)
	}
	return grid, nil
}

// totalGrid lays out one row per container, header first.
func (b *DataTableBuilder) totalGrid(containers []*Container) [][]any {
	header := []any{""}
	if b.opts.Trial {
		header = append(header, "Debit", "Credit")
	} else {
		header = append(header, "Balance")
	}

	grid := make([][]any, 0, len(containers)+1)
	grid = append(grid, header)
	for _, c := range containers {
		row := []any{c.Name()}
		switch {
		case b.opts.Trial && b.opts.Period:
			row = append(row, b.valueCell(c.PeriodDebit()), b.valueCell(c.PeriodCredit()))
		case b.opts.Trial:
			row = append(row, b.valueCell(c.CumulativeDebit()), b.valueCell(c.CumulativeCredit()))
		case b.opts.Period:
			row = append(row, b.valueCell(b.pick(c.PeriodBalanceRaw(), c.PeriodBalance())))
		default:
			row = append(row, b.valueCell(b.pick(c.CumulativeBalanceRaw(), c.CumulativeBalance())))
		}
		grid = append(grid, row)
	}
	return grid
}

// timeGrid lays out one row per container and one column per date bucket,
// header first. Buckets are ordered by fuzzy date.
func (b *DataTableBuilder) timeGrid(containers []*Container) [][]any {
	dates := make(map[int]time.Time)
	perContainer := make([]map[int]*Balance, len(containers))
	for i, c := range containers {
		byDate := make(map[int]*Balance)
		for _, bal := range c.Balances() {
			if _, dup := byDate[bal.FuzzyDate()]; dup {
				continue
			}
			byDate[bal.FuzzyDate()] = bal
			if _, seen := dates[bal.FuzzyDate()]; !seen {
				dates[bal.FuzzyDate()] = bal.Date()
			}
		}
		perContainer[i] = byDate
	}

	order := make([]int, 0, len(dates))
	for fuzzy := range dates {
		order = append(order, fuzzy)
	}
	sort.Ints(order)

	header := make([]any, 0, len(order)+1)
	header = append(header, "")
	for _, fuzzy := range order {
		header = append(header, b.dateCell(dates[fuzzy]))
	}

	grid := make([][]any, 0, len(containers)+1)
	grid = append(grid, header)
	for i, c := range containers {
		row := make([]any, 0, len(order)+1)
		row = append(row, c.Name())
		for _, fuzzy := range order {
			bal, ok := perContainer[i][fuzzy]
			if !ok {
				row = append(row, nil)
				continue
			}
			if b.opts.Type == PeriodBalance {
				row = append(row, b.valueCell(b.pick(bal.PeriodBalanceRaw(), bal.PeriodBalance())))
			} else {
				row = append(row, b.valueCell(b.pick(bal.CumulativeBalanceRaw(), bal.CumulativeBalance())))
			}
		}
		grid = append(grid, row)
	}
	return grid
}

// flatten applies the expansion setting to the top-level containers,
// pre-order, dropping containers already emitted under the same name.
func (b *DataTableBuilder) flatten() []*Container {
	var out []*Container
	seen := make(map[any]bool)

	var visit func(c *Container, level int)
	visit = func(c *Container, level int) {
		if c == nil {
			return
		}
		if c.IsGroup() && b.shouldExpand(c, level) {
			for _, child := range c.BalancesContainers() {
				visit(child, level+1)
			}
			return
		}
		var key any = c
		if name := c.NormalizedName(); name != "" {
			key = name
		}
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, c)
	}

	for _, c := range b.containers {
		visit(c, 0)
	}
	return out
}

func (b *DataTableBuilder) shouldExpand(c *Container, level int) bool {
	switch b.opts.Expanded {
	case ExpandAllAccounts:
		return true
	case ExpandAllGroups:
		return c.HasGroupBalances()
	default:
		return level < b.opts.Expanded && len(c.BalancesContainers()) > 0
	}
}

// resolveProperties collects the properties of each container. Containers
// without payload properties get those of their account or group, fetched
// concurrently through the book.
func (b *DataTableBuilder) resolveProperties(ctx context.Context, containers []*Container) ([]map[string]string, error) {
	props := make([]map[string]string, len(containers))
	_, plain := b.book.(plainBook)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, c := range containers {
		if p := c.Properties(); len(p) > 0 || plain {
			props[i] = p
			continue
		}
		g.Go(func() error {
			p, err := c.entityProperties(ctx)
			if err != nil {
				return err
			}
			props[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return props, nil
}

// appendProperties adds one column per visible property key, in first-seen
// order, to the header and every container row.
func appendProperties(grid [][]any, containers []*Container, props []map[string]string) {
	var keys []string
	known := make(map[string]bool)
	for _, p := range props {
		for _, k := range visibleKeys(p) {
			if !known[k] {
				known[k] = true
				keys = append(keys, k)
			}
		}
	}

	for _, k := range keys {
		grid[0] = append(grid[0], k)
	}
	for i := range containers {
		for _, k := range keys {
			if v, ok := props[i][k]; ok {
				grid[i+1] = append(grid[i+1], v)
			} else {
				grid[i+1] = append(grid[i+1], nil)
			}
		}
	}
}

func (b *DataTableBuilder) pick(raw, representative decimal.Decimal) decimal.Decimal {
	if b.opts.Raw {
		return raw
	}
	return representative
}

func (b *DataTableBuilder) valueCell(v decimal.Decimal) any {
	if b.opts.FormatValues {
		return b.book.FormatValue(v)
	}
	return v
}

func (b *DataTableBuilder) dateCell(t time.Time) any {
	if b.opts.FormatDates {
		return b.book.FormatDate(t)
	}
	return t
}

func transpose(grid [][]any) [][]any {
	if len(grid) == 0 {
		return grid
	}
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	out := make([][]any, width)
	for j := range out {
		out[j] = make([]any, len(grid))
		for i, row := range grid {
			if j < len(row) {
				out[j][i] = row[j]
			}
		}
	}
	return out
}
