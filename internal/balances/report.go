package balances

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// Report is the root of a balances snapshot. It owns the arena holding
// every container materialized so far.
type Report struct {
	book    Book
	payload *Payload

	mu    sync.RWMutex
	arena []*Container

	rootsOnce  sync.Once
	accountIDs []int
	groupIDs   []int

	indexOnce sync.Once
	index     map[string]*Container
}

// NewReport wraps an already decoded payload. A nil book formats values
// with defaults and cannot resolve metadata.
func NewReport(book Book, payload *Payload) *Report {
	if book == nil {
		book = plainBook{}
	}
	if payload == nil {
		payload = &Payload{}
	}
	return &Report{book: book, payload: payload}
}

// DecodeReport reads a JSON balances payload.
func DecodeReport(r io.Reader, book Book) (*Report, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrInvalidSnapshot, err)
	}
	return NewReport(book, &p), nil
}

// ParseReport decodes a JSON balances payload held in memory.
func ParseReport(data []byte, book Book) (*Report, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ledger.ErrInvalidSnapshot, err)
	}
	return NewReport(book, &p), nil
}

func (r *Report) Book() Book { return r.book }

func (r *Report) Periodicity() ledger.Periodicity { return r.payload.Periodicity }

// Payload returns the payload the report was built from.
func (r *Report) Payload() *Payload { return r.payload }

// BalancesContainers returns the top-level containers: accounts first,
// then groups.
func (r *Report) BalancesContainers() []*Container {
	r.loadRoots()
	out := make([]*Container, 0, len(r.accountIDs)+len(r.groupIDs))
	out = append(out, r.nodes(r.accountIDs)...)
	out = append(out, r.nodes(r.groupIDs)...)
	return out
}

func (r *Report) AccountBalancesContainers() []*Container {
	r.loadRoots()
	return r.nodes(r.accountIDs)
}

func (r *Report) GroupBalancesContainers() []*Container {
	r.loadRoots()
	return r.nodes(r.groupIDs)
}

// BalancesContainer finds a container anywhere in the report by name.
func (r *Report) BalancesContainer(name string) (*Container, error) {
	key := ledger.NormalizeName(name)
	if key == "" {
		return nil, notFound(name)
	}
	r.indexOnce.Do(func() {
		r.index = buildIndex(r.BalancesContainers())
	})
	if c, ok := r.index[key]; ok {
		return c, nil
	}
	return nil, notFound(name)
}

// CreateDataTable returns a table builder over all top-level containers.
func (r *Report) CreateDataTable() *DataTableBuilder {
	return NewDataTableBuilder(r.BalancesContainers(), r.Periodicity(), r.book)
}

func (r *Report) loadRoots() {
	r.rootsOnce.Do(func() {
		for _, a := range r.payload.AccountBalances {
			if a == nil {
				continue
			}
			r.accountIDs = append(r.accountIDs, r.addAccount(a, -1, 0).id)
		}
		for _, g := range r.payload.GroupBalances {
			if g == nil {
				continue
			}
			r.groupIDs = append(r.groupIDs, r.addGroup(g, -1, 0).id)
		}
	})
}

func (r *Report) addAccount(p *AccountBalances, parent, depth int) *Container {
	return r.add(&Container{
		parent: parent,
		depth:  depth,
		kind:   KindAccount,
		fields: &p.ContainerFields,
	})
}

func (r *Report) addGroup(p *GroupBalances, parent, depth int) *Container {
	return r.add(&Container{
		parent: parent,
		depth:  depth,
		kind:   KindGroup,
		fields: &p.ContainerFields,
		group:  p,
	})
}

func (r *Report) add(c *Container) *Container {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.report = r
	c.id = len(r.arena)
	r.arena = append(r.arena, c)
	return c
}

func (r *Report) node(id int) *Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.arena[id]
}

func (r *Report) nodes(ids []int) []*Container {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Container, len(ids))
	for i, id := range ids {
		out[i] = r.arena[id]
	}
	return out
}

// materialized returns how many containers have been built so far.
func (r *Report) materialized() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.arena)
}

func (r *Report) location() *time.Location {
	offset := r.book.TimeZoneOffset()
	if offset == 0 {
		return time.UTC
	}
	return time.FixedZone("", offset*60)
}
