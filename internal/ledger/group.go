package ledger

import "strings"

// Group is a named collection of accounts and sub-groups.
type Group struct {
	ID             string            `json:"id,omitempty"`
	Name           string            `json:"name"`
	NormalizedName string            `json:"normalized_name,omitempty"`
	Parent         string            `json:"parent,omitempty"`
	Type           AccountType       `json:"type,omitempty"` // empty when members are mixed
	Hidden         bool              `json:"hidden,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// Property returns the first non-empty value among keys.
func (g *Group) Property(keys ...string) string {
	return lookupProperty(g.Properties, keys)
}

// Validate checks group invariants and fills the normalized name.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrInvalidName
	}
	if g.Type != "" && !ValidAccountType(g.Type) {
		return ErrInvalidAccountType
	}
	g.NormalizedName = NormalizeName(g.Name)
	if g.Parent != "" && NormalizeName(g.Parent) == g.NormalizedName {
		return ErrGroupCycle
	}
	return nil
}
