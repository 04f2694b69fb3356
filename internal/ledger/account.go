package ledger

import (
	"fmt"
	"strings"
)

// AccountType classifies an account by its role in the books.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeIncoming  AccountType = "INCOMING"
	AccountTypeOutgoing  AccountType = "OUTGOING"
)

var AllAccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeIncoming,
	AccountTypeOutgoing,
}

type Account struct {
	ID             string            `json:"id,omitempty"`
	Name           string            `json:"name"`
	NormalizedName string            `json:"normalized_name,omitempty"`
	Type           AccountType       `json:"type"`
	Archived       bool              `json:"archived,omitempty"`
	Groups         []string          `json:"groups,omitempty"`
	Properties     map[string]string `json:"properties,omitempty"`
}

// Credit reports whether the account is credit-natured.
// Liabilities and Incoming are credit-normal; Assets and Outgoing are debit-normal.
func (t AccountType) Credit() bool {
	switch t {
	case AccountTypeLiability, AccountTypeIncoming:
		return true
	default:
		return false
	}
}

// Permanent reports whether balances of this type carry over across periods.
func (t AccountType) Permanent() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability:
		return true
	default:
		return false
	}
}

// TypeLabel returns a human-readable label for an account type.
func TypeLabel(t AccountType) string {
	switch t {
	case AccountTypeAsset:
		return "Asset"
	case AccountTypeLiability:
		return "Liability"
	case AccountTypeIncoming:
		return "Incoming"
	case AccountTypeOutgoing:
		return "Outgoing"
	default:
		return string(t)
	}
}

// ValidAccountType checks if a type string is valid.
func ValidAccountType(t AccountType) bool {
	for _, at := range AllAccountTypes {
		if at == t {
			return true
		}
	}
	return false
}

func (a *Account) Credit() bool {
	return a.Type.Credit()
}

func (a *Account) Permanent() bool {
	return a.Type.Permanent()
}

// Property returns the first non-empty value among keys.
func (a *Account) Property(keys ...string) string {
	return lookupProperty(a.Properties, keys)
}

// Validate checks account invariants and fills the normalized name.
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidName
	}
	if !ValidAccountType(a.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}
	a.NormalizedName = NormalizeName(a.Name)
	return nil
}

func lookupProperty(props map[string]string, keys []string) string {
	for _, k := range keys {
		if v := props[k]; v != "" {
			return v
		}
	}
	return ""
}

// IsHiddenProperty reports whether a property key is internal. Keys ending
// with an underscore are kept on the entity but never shown in reports.
func IsHiddenProperty(key string) bool {
	return strings.HasSuffix(key, "_")
}
