package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/simonvc/miniledger-balances/internal/ledger"
	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage books and their account metadata",
}

// book set
var (
	bookSetName        string
	bookSetSeparator   string
	bookSetDigits      int
	bookSetTimeZone    int
	bookSetDatePattern string
	bookSetPeriodicity string
)

var bookSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create a book or change its settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := context.Background()

		settings, err := c.GetBook(ctx, flagBook)
		if errors.Is(err, ledger.ErrBookNotFound) {
			def := ledger.DefaultBookSettings(flagBook)
			settings, err = &def, nil
		}
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("name") {
			settings.Name = bookSetName
		}
		if flags.Changed("separator") {
			settings.DecimalSeparator = ledger.DecimalSeparator(strings.ToUpper(bookSetSeparator))
		}
		if flags.Changed("fraction-digits") {
			settings.FractionDigits = bookSetDigits
		}
		if flags.Changed("tz-offset") {
			settings.TimeZoneOffset = bookSetTimeZone
		}
		if flags.Changed("date-pattern") {
			settings.DatePattern = bookSetDatePattern
		}
		if flags.Changed("periodicity") {
			settings.Periodicity = ledger.Periodicity(strings.ToUpper(bookSetPeriodicity))
		}

		saved, err := c.UpsertBook(ctx, settings)
		if err != nil {
			return err
		}
		printBook(saved)
		return nil
	},
}

var bookShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show book settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := newClient().GetBook(context.Background(), flagBook)
		if err != nil {
			return err
		}
		printBook(settings)
		return nil
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List books",
	RunE: func(cmd *cobra.Command, args []string) error {
		books, err := newClient().ListBooks(context.Background())
		if err != nil {
			return err
		}
		if len(books) == 0 {
			fmt.Println("No books found.")
			return nil
		}

		fmt.Printf("%-20s %-24s %-6s %6s %-10s %s\n", "ID", "NAME", "SEP", "DIGITS", "PERIOD", "DATES")
		fmt.Printf("%-20s %-24s %-6s %6s %-10s %s\n", "--", "----", "---", "------", "------", "-----")
		for _, b := range books {
			fmt.Printf("%-20s %-24s %-6s %6d %-10s %s\n",
				b.ID, b.Name, b.DecimalSeparator, b.FractionDigits, b.Periodicity, b.DatePattern)
		}
		return nil
	},
}

// book init
var bookInitChart bool

var bookInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a book with default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := context.Background()

		settings := ledger.DefaultBookSettings(flagBook)
		if _, err := c.UpsertBook(ctx, &settings); err != nil {
			return err
		}
		fmt.Printf("Book %s created\n", flagBook)

		if bookInitChart {
			res, err := c.SeedChart(ctx, flagBook)
			if err != nil {
				return err
			}
			fmt.Printf("Starter chart loaded: %d groups, %d accounts\n", res.Groups, res.Accounts)
		}
		return nil
	},
}

// book account set
var (
	acctType   string
	acctGroups []string
	acctProps  []string
	acctHidden bool
)

var bookAccountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage account metadata",
}

var bookAccountSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or replace account metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := parseProps(acctProps)
		if err != nil {
			return err
		}
		acct := &ledger.Account{
			Name:       args[0],
			Type:       ledger.AccountType(strings.ToUpper(acctType)),
			Archived:   acctHidden,
			Groups:     acctGroups,
			Properties: props,
		}
		saved, err := newClient().UpsertAccount(context.Background(), flagBook, acct)
		if err != nil {
			return err
		}
		fmt.Printf("Account saved: %s (%s) %s\n", saved.Name, saved.Type, formatProps(saved.Properties))
		return nil
	},
}

var bookAccountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List account metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts, err := newClient().ListAccounts(context.Background(), flagBook)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		fmt.Printf("%-30s %-10s %-20s %s\n", "NAME", "TYPE", "GROUPS", "PROPERTIES")
		fmt.Printf("%-30s %-10s %-20s %s\n", "----", "----", "------", "----------")
		for _, a := range accounts {
			fmt.Printf("%-30s %-10s %-20s %s\n", a.Name, a.Type, strings.Join(a.Groups, ","), formatProps(a.Properties))
		}
		return nil
	},
}

// book group set
var (
	grpParent string
	grpType   string
	grpProps  []string
	grpHidden bool
)

var bookGroupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage group metadata",
}

var bookGroupSetCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Create or replace group metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		props, err := parseProps(grpProps)
		if err != nil {
			return err
		}
		grp := &ledger.Group{
			Name:       args[0],
			Parent:     grpParent,
			Type:       ledger.AccountType(strings.ToUpper(grpType)),
			Hidden:     grpHidden,
			Properties: props,
		}
		saved, err := newClient().UpsertGroup(context.Background(), flagBook, grp)
		if err != nil {
			return err
		}
		fmt.Printf("Group saved: %s %s\n", saved.Name, formatProps(saved.Properties))
		return nil
	},
}

var bookGroupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List group metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, err := newClient().ListGroups(context.Background(), flagBook)
		if err != nil {
			return err
		}
		if len(groups) == 0 {
			fmt.Println("No groups found.")
			return nil
		}

		fmt.Printf("%-30s %-20s %-10s %s\n", "NAME", "PARENT", "TYPE", "PROPERTIES")
		fmt.Printf("%-30s %-20s %-10s %s\n", "----", "------", "----", "----------")
		for _, g := range groups {
			fmt.Printf("%-30s %-20s %-10s %s\n", g.Name, g.Parent, g.Type, formatProps(g.Properties))
		}
		return nil
	},
}

func printBook(s *ledger.BookSettings) {
	fmt.Printf("ID:                %s\n", s.ID)
	fmt.Printf("Name:              %s\n", s.Name)
	fmt.Printf("Decimal separator: %s\n", s.DecimalSeparator)
	fmt.Printf("Fraction digits:   %d\n", s.FractionDigits)
	fmt.Printf("Time zone offset:  %+d min\n", s.TimeZoneOffset)
	fmt.Printf("Date pattern:      %s\n", s.DatePattern)
	fmt.Printf("Periodicity:       %s\n", s.Periodicity)
}

// parseProps reads key=value pairs.
func parseProps(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid property %q: want key=value", p)
		}
		props[k] = v
	}
	return props, nil
}

func formatProps(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + props[k]
	}
	return strings.Join(parts, " ")
}

func init() {
	bookSetCmd.Flags().StringVar(&bookSetName, "name", "", "Display name")
	bookSetCmd.Flags().StringVar(&bookSetSeparator, "separator", "DOT", "Decimal separator: DOT or COMMA")
	bookSetCmd.Flags().IntVar(&bookSetDigits, "fraction-digits", 2, "Digits after the decimal separator (0-8)")
	bookSetCmd.Flags().IntVar(&bookSetTimeZone, "tz-offset", 0, "Time zone offset in minutes east of UTC")
	bookSetCmd.Flags().StringVar(&bookSetDatePattern, "date-pattern", "2006-01-02", "Go reference layout for dates")
	bookSetCmd.Flags().StringVar(&bookSetPeriodicity, "periodicity", "MONTHLY", "DAILY, MONTHLY or YEARLY")

	bookInitCmd.Flags().BoolVar(&bookInitChart, "chart", false, "Load the starter chart of groups and accounts")

	bookAccountSetCmd.Flags().StringVar(&acctType, "type", "ASSET", "ASSET, LIABILITY, INCOMING or OUTGOING")
	bookAccountSetCmd.Flags().StringSliceVar(&acctGroups, "group", nil, "Group name (can be repeated)")
	bookAccountSetCmd.Flags().StringArrayVar(&acctProps, "prop", nil, "Property key=value (can be repeated)")
	bookAccountSetCmd.Flags().BoolVar(&acctHidden, "archived", false, "Mark the account archived")
	bookAccountCmd.AddCommand(bookAccountSetCmd)
	bookAccountCmd.AddCommand(bookAccountListCmd)

	bookGroupSetCmd.Flags().StringVar(&grpParent, "parent", "", "Parent group")
	bookGroupSetCmd.Flags().StringVar(&grpType, "type", "", "Account type of the members, empty when mixed")
	bookGroupSetCmd.Flags().StringArrayVar(&grpProps, "prop", nil, "Property key=value (can be repeated)")
	bookGroupSetCmd.Flags().BoolVar(&grpHidden, "hidden", false, "Hide the group")
	bookGroupCmd.AddCommand(bookGroupSetCmd)
	bookGroupCmd.AddCommand(bookGroupListCmd)

	bookCmd.AddCommand(bookSetCmd)
	bookCmd.AddCommand(bookShowCmd)
	bookCmd.AddCommand(bookListCmd)
	bookCmd.AddCommand(bookInitCmd)
	bookCmd.AddCommand(bookAccountCmd)
	bookCmd.AddCommand(bookGroupCmd)

	rootCmd.AddCommand(bookCmd)
}
