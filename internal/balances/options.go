package balances

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBalanceType accepts a balance type name in any case.
func ParseBalanceType(s string) (BalanceType, error) {
	t := BalanceType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" {
		return TotalBalance, nil
	}
	if !ValidBalanceType(t) {
		return "", fmt.Errorf("invalid balance type %q: want TOTAL, PERIOD or CUMULATIVE", s)
	}
	return t, nil
}

// ParseExpansion reads an expansion setting: "true"/"false", a depth, or
// "groups" and "accounts" for ExpandAllGroups and ExpandAllAccounts.
func ParseExpansion(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "no", "0":
		return 0, nil
	case "true", "yes":
		return 1, nil
	case "groups", "all-groups":
		return ExpandAllGroups, nil
	case "accounts", "all-accounts":
		return ExpandAllAccounts, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < ExpandAllAccounts {
		return 0, fmt.Errorf("invalid expansion %q: want a depth, groups or accounts", s)
	}
	return n, nil
}

// FormatExpansion is the inverse of ParseExpansion.
func FormatExpansion(n int) string {
	switch {
	case n == ExpandAllGroups:
		return "groups"
	case n == ExpandAllAccounts:
		return "accounts"
	case n <= 0:
		return "0"
	default:
		return strconv.Itoa(n)
	}
}
