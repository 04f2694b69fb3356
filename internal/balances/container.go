package balances

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/simonvc/miniledger-balances/internal/ledger"
)

// Kind tags the two container variants.
type Kind int

const (
	KindAccount Kind = iota
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindAccount:
		return "account"
	case KindGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Nature is the credit/debit convention of a container. Groups whose
// members disagree carry no credit flag and are NatureUnknown.
type Nature int

const (
	NatureUnknown Nature = iota
	NatureCredit
	NatureDebit
)

func (n Nature) String() string {
	switch n {
	case NatureCredit:
		return "credit"
	case NatureDebit:
		return "debit"
	default:
		return "unknown"
	}
}

// Container is a node of a balances report: an account (leaf) or a group.
// Containers live in the report's arena; parent and children are arena
// indexes. Child lists and the name index are built on first use.
type Container struct {
	report *Report
	id     int
	parent int // -1 for roots
	depth  int
	kind   Kind
	fields *ContainerFields
	group  *GroupBalances // nil for accounts

	balancesOnce sync.Once
	balances     []*Balance

	childrenOnce sync.Once
	groupIDs     []int
	accountIDs   []int

	indexOnce sync.Once
	index     map[string]*Container
}

func (c *Container) Report() *Report { return c.report }
func (c *Container) Kind() Kind      { return c.kind }
func (c *Container) IsGroup() bool   { return c.kind == KindGroup }
func (c *Container) Name() string    { return c.fields.Name }

// NormalizedName returns the lookup key of the container. Payloads without
// a normalizedName fall back to normalizing the display name.
func (c *Container) NormalizedName() string {
	if c.fields.NormalizedName != "" {
		return c.fields.NormalizedName
	}
	return ledger.NormalizeName(c.fields.Name)
}

func (c *Container) Nature() Nature {
	switch {
	case c.fields.Credit == nil:
		return NatureUnknown
	case *c.fields.Credit:
		return NatureCredit
	default:
		return NatureDebit
	}
}

// IsCredit reports whether the container is credit-natured. Use Nature to
// tell debit apart from mixed groups.
func (c *Container) IsCredit() bool { return c.Nature() == NatureCredit }

func (c *Container) IsPermanent() bool { return c.fields.Permanent }

// Parent returns the enclosing group, or nil for a top-level container.
func (c *Container) Parent() *Container {
	if c.parent < 0 {
		return nil
	}
	return c.report.node(c.parent)
}

// Depth is 0 for top-level containers and parent depth + 1 otherwise.
func (c *Container) Depth() int { return c.depth }

func (c *Container) CumulativeBalance() decimal.Decimal {
	return Representative(c.fields.CumulativeBalance.Decimal, c.Nature())
}

func (c *Container) CumulativeBalanceRaw() decimal.Decimal {
	return c.fields.CumulativeBalance.Decimal
}

func (c *Container) PeriodBalance() decimal.Decimal {
	return Representative(c.fields.PeriodBalance.Decimal, c.Nature())
}

func (c *Container) PeriodBalanceRaw() decimal.Decimal {
	return c.fields.PeriodBalance.Decimal
}

func (c *Container) CumulativeCredit() decimal.Decimal { return c.fields.CumulativeCredit.Decimal }
func (c *Container) CumulativeDebit() decimal.Decimal  { return c.fields.CumulativeDebit.Decimal }
func (c *Container) PeriodCredit() decimal.Decimal     { return c.fields.PeriodCredit.Decimal }
func (c *Container) PeriodDebit() decimal.Decimal      { return c.fields.PeriodDebit.Decimal }

// Properties returns a copy of the container's custom properties.
func (c *Container) Properties() map[string]string {
	out := make(map[string]string, len(c.fields.Properties))
	for k, v := range c.fields.Properties {
		out[k] = v
	}
	return out
}

// Property returns the first non-empty value among keys.
func (c *Container) Property(keys ...string) string {
	for _, k := range keys {
		if v := c.fields.Properties[k]; v != "" {
			return v
		}
	}
	return ""
}

// VisiblePropertyKeys returns the sorted property keys, hidden keys excluded.
func (c *Container) VisiblePropertyKeys() []string {
	return visibleKeys(c.fields.Properties)
}

// Balances returns the container's buckets in payload order.
func (c *Container) Balances() []*Balance {
	c.balancesOnce.Do(func() {
		for _, p := range c.fields.Balances {
			if p == nil {
				continue
			}
			c.balances = append(c.balances, newBalance(c, p))
		}
	})
	return c.balances
}

// BalancesContainers returns the children: sub-groups first, then accounts.
// Accounts have no children.
func (c *Container) BalancesContainers() []*Container {
	if c.kind == KindAccount {
		return nil
	}
	c.loadChildren()
	out := make([]*Container, 0, len(c.groupIDs)+len(c.accountIDs))
	out = append(out, c.report.nodes(c.groupIDs)...)
	out = append(out, c.report.nodes(c.accountIDs)...)
	return out
}

// GroupBalancesContainers returns the direct sub-groups.
func (c *Container) GroupBalancesContainers() []*Container {
	if c.kind == KindAccount {
		return nil
	}
	c.loadChildren()
	return c.report.nodes(c.groupIDs)
}

// AccountBalancesContainers returns the direct child accounts.
func (c *Container) AccountBalancesContainers() []*Container {
	if c.kind == KindAccount {
		return nil
	}
	c.loadChildren()
	return c.report.nodes(c.accountIDs)
}

// HasGroupBalances reports whether any direct child is a group.
func (c *Container) HasGroupBalances() bool {
	if c.kind == KindAccount {
		return false
	}
	c.loadChildren()
	return len(c.groupIDs) > 0
}

func (c *Container) loadChildren() {
	c.childrenOnce.Do(func() {
		for _, g := range c.group.GroupBalances {
			if g == nil {
				continue
			}
			child := c.report.addGroup(g, c.id, c.depth+1)
			c.groupIDs = append(c.groupIDs, child.id)
		}
		for _, a := range c.group.AccountBalances {
			if a == nil {
				continue
			}
			child := c.report.addAccount(a, c.id, c.depth+1)
			c.accountIDs = append(c.accountIDs, child.id)
		}
	})
}

// BalancesContainer finds a container by name. An account only matches
// itself; a group searches its whole subtree, itself included.
func (c *Container) BalancesContainer(name string) (*Container, error) {
	key := ledger.NormalizeName(name)
	if key == "" {
		return nil, notFound(name)
	}

	switch c.kind {
	case KindAccount:
		if ledger.NormalizeName(c.NormalizedName()) == key {
			return c, nil
		}
	case KindGroup:
		c.indexOnce.Do(func() {
			c.index = buildIndex([]*Container{c})
		})
		if found, ok := c.index[key]; ok {
			return found, nil
		}
	}
	return nil, notFound(name)
}

// Account resolves the account behind this container through the book.
func (c *Container) Account(ctx context.Context) (*ledger.Account, error) {
	if c.kind != KindAccount {
		return nil, ErrNotAnAccount
	}
	return c.report.book.Account(ctx, c.Name())
}

// Group resolves the group behind this container through the book.
func (c *Container) Group(ctx context.Context) (*ledger.Group, error) {
	if c.kind != KindGroup {
		return nil, ErrNotAGroup
	}
	return c.report.book.Group(ctx, c.Name())
}

// entityProperties returns the properties of the resolved account or group.
// Entities unknown to the book have none.
func (c *Container) entityProperties(ctx context.Context) (map[string]string, error) {
	var props map[string]string
	switch c.kind {
	case KindAccount:
		acct, err := c.Account(ctx)
		if err != nil {
			if errors.Is(err, ledger.ErrAccountNotFound) {
				return nil, nil
			}
			return nil, err
		}
		props = acct.Properties
	case KindGroup:
		grp, err := c.Group(ctx)
		if err != nil {
			if errors.Is(err, ledger.ErrGroupNotFound) {
				return nil, nil
			}
			return nil, err
		}
		props = grp.Properties
	}
	return props, nil
}

// CreateDataTable returns a table builder over this container's children,
// or over the container itself when it is an account.
func (c *Container) CreateDataTable() *DataTableBuilder {
	containers := []*Container{c}
	if c.kind == KindGroup {
		containers = c.BalancesContainers()
	}
	return NewDataTableBuilder(containers, c.report.Periodicity(), c.report.book)
}

// buildIndex flattens the trees under roots into a normalized name map,
// pre-order. The first container to claim a name keeps it.
func buildIndex(roots []*Container) map[string]*Container {
	index := make(map[string]*Container)
	var walk func(*Container)
	walk = func(c *Container) {
		if key := ledger.NormalizeName(c.NormalizedName()); key != "" {
			if _, taken := index[key]; !taken {
				index[key] = c
			}
		}
		for _, child := range c.BalancesContainers() {
			walk(child)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	return index
}

func visibleKeys(props map[string]string) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		if ledger.IsHiddenProperty(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
