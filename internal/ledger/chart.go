package ledger

import "strconv"

// ChartEntry is one account of the starter chart a new book can be seeded with.
type ChartEntry struct {
	Code        int
	Name        string
	Type        AccountType
	Group       string
	Description string
}

// Account converts the entry into account metadata. The code and
// description are stored as properties.
func (e ChartEntry) Account() Account {
	props := map[string]string{"code": strconv.Itoa(e.Code)}
	if e.Description != "" {
		props["description"] = e.Description
	}
	return Account{
		Name:       e.Name,
		Type:       e.Type,
		Groups:     []string{e.Group},
		Properties: props,
	}
}

// StarterGroups are the top-level groups of the starter chart, one per account type.
var StarterGroups = []Group{
	{Name: "Assets", Type: AccountTypeAsset, Properties: map[string]string{"code": "1000"}},
	{Name: "Liabilities", Type: AccountTypeLiability, Properties: map[string]string{"code": "2000"}},
	{Name: "Revenue", Type: AccountTypeIncoming, Properties: map[string]string{"code": "4000"}},
	{Name: "Expenses", Type: AccountTypeOutgoing, Properties: map[string]string{"code": "5000"}},
}

// StarterChart is a minimal chart of accounts.
var StarterChart = []ChartEntry{
	{Code: 1010, Name: "Cash", Type: AccountTypeAsset, Group: "Assets", Description: "Cash on hand and at banks"},
	{Code: 1020, Name: "Accounts Receivable", Type: AccountTypeAsset, Group: "Assets", Description: "Amounts owed by customers"},
	{Code: 1030, Name: "Inventory", Type: AccountTypeAsset, Group: "Assets", Description: "Goods held for sale"},
	{Code: 1050, Name: "Equipment", Type: AccountTypeAsset, Group: "Assets", Description: "Long-term tangible assets"},

	{Code: 2010, Name: "Accounts Payable", Type: AccountTypeLiability, Group: "Liabilities", Description: "Amounts owed to suppliers"},
	{Code: 2030, Name: "Accrued Expenses", Type: AccountTypeLiability, Group: "Liabilities", Description: "Expenses incurred but not yet paid"},
	{Code: 2040, Name: "Loans Payable", Type: AccountTypeLiability, Group: "Liabilities", Description: "Outstanding loan obligations"},
	{Code: 3010, Name: "Owner Equity", Type: AccountTypeLiability, Group: "Liabilities", Description: "Capital contributed by owners"},

	{Code: 4010, Name: "Sales", Type: AccountTypeIncoming, Group: "Revenue", Description: "Income from goods and services"},
	{Code: 4020, Name: "Interest Income", Type: AccountTypeIncoming, Group: "Revenue", Description: "Income earned from interest"},

	{Code: 5010, Name: "Operating Expenses", Type: AccountTypeOutgoing, Group: "Expenses", Description: "General operating costs"},
	{Code: 5020, Name: "Cost of Goods Sold", Type: AccountTypeOutgoing, Group: "Expenses", Description: "Direct costs of goods sold"},
	{Code: 5030, Name: "Salaries and Wages", Type: AccountTypeOutgoing, Group: "Expenses", Description: "Employee compensation"},
}

// LookupChartEntry finds a starter chart entry by code, or nil.
func LookupChartEntry(code int) *ChartEntry {
	for i := range StarterChart {
		if StarterChart[i].Code == code {
			return &StarterChart[i]
		}
	}
	return nil
}
