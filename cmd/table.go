package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/simonvc/miniledger-balances/internal/balances"
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	tableSnapshot  string
	tableContainer string
	tableType      string
	tableExpanded  string
	tableOutput    string
	tableLocal     bool
	tableOpts      balances.Options
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Build a pivot table from a snapshot",
	Long: "Builds a data table from a snapshot of the book. By default the server builds it; " +
		"with --local the report is downloaded and built here.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := tableOpts
		var err error
		if opts.Type, err = balances.ParseBalanceType(tableType); err != nil {
			return err
		}
		if opts.Expanded, err = balances.ParseExpansion(tableExpanded); err != nil {
			return err
		}

		c := newClient()
		ctx := context.Background()
		id, err := resolveSnapshot(ctx, c, []string{tableSnapshot})
		if err != nil {
			return err
		}

		var rows [][]any
		if tableLocal {
			rows, err = buildLocal(ctx, c, id, tableContainer, opts)
		} else {
			rows, err = c.Table(ctx, id, tableContainer, opts)
		}
		if err != nil {
			return err
		}
		log.Debug("table built", zap.String("snapshot", id), zap.Int("rows", len(rows)), zap.Bool("local", tableLocal))

		return writeTable(os.Stdout, rows, tableOutput)
	},
}

// buildLocal builds the table from a downloaded report. Properties still
// resolve through the server.
func buildLocal(ctx context.Context, c *client.Client, snapshotID, container string, opts balances.Options) ([][]any, error) {
	r, err := c.OpenReport(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	b := r.CreateDataTable()
	if container != "" {
		ct, err := r.BalancesContainer(container)
		if err != nil {
			return nil, err
		}
		b = ct.CreateDataTable()
	}
	return b.Apply(opts).Build(ctx)
}

func writeTable(w io.Writer, rows [][]any, format string) error {
	switch format {
	case "text", "":
		_, err := fmt.Fprintln(w, render.Text(rows))
		return err
	case "csv":
		return render.CSV(w, rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(render.JSON(rows))
	default:
		return fmt.Errorf("unknown output format %q: want text, csv or json", format)
	}
}

var containerCmd = &cobra.Command{
	Use:   "container [name]",
	Short: "Show one account or group of a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := context.Background()
		id, err := resolveSnapshot(ctx, c, []string{tableSnapshot})
		if err != nil {
			return err
		}

		s, err := c.Container(ctx, id, args[0])
		if err != nil {
			return err
		}
		if tableOutput == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}

		fmt.Printf("Name:        %s\n", s.Name)
		fmt.Printf("Kind:        %s\n", s.Kind)
		fmt.Printf("Nature:      %s\n", s.Nature)
		fmt.Printf("Permanent:   %v\n", s.Permanent)
		if s.Parent != "" {
			fmt.Printf("Parent:      %s\n", s.Parent)
		}
		fmt.Printf("Cumulative:  %s (debit %s, credit %s)\n", s.CumulativeBalance, s.CumulativeDebit, s.CumulativeCredit)
		fmt.Printf("Period:      %s (debit %s, credit %s)\n", s.PeriodBalance, s.PeriodDebit, s.PeriodCredit)
		for _, g := range s.Groups {
			fmt.Printf("  group    %s\n", g)
		}
		for _, a := range s.Accounts {
			fmt.Printf("  account  %s\n", a)
		}
		if len(s.Properties) > 0 {
			keys := make([]string, 0, len(s.Properties))
			for k := range s.Properties {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Println("Properties:")
			for _, k := range keys {
				fmt.Printf("  %-20s %s\n", k, s.Properties[k])
			}
		}
		if len(s.Balances) > 0 {
			fmt.Printf("\n%-12s %18s %18s\n", "DATE", "PERIOD", "CUMULATIVE")
			for _, b := range s.Balances {
				fmt.Printf("%-12s %18s %18s\n", b.Date.Format(render.DateLayout), b.PeriodBalance, b.CumulativeBalance)
			}
		}
		return nil
	},
}

func init() {
	f := tableCmd.Flags()
	f.StringVar(&tableSnapshot, "snapshot", "", "Snapshot id (default: latest of the book)")
	f.StringVar(&tableContainer, "container", "", "Build from the children of this group")
	f.StringVarP(&tableType, "type", "t", "TOTAL", "TOTAL, PERIOD or CUMULATIVE")
	f.StringVarP(&tableExpanded, "expanded", "e", "0", "Expansion: a depth, true, groups or accounts")
	f.StringVarP(&tableOutput, "output", "o", "text", "Output format: text, csv or json")
	f.BoolVar(&tableLocal, "local", false, "Build the table locally")
	f.BoolVar(&tableOpts.Transposed, "transposed", false, "Swap rows and columns")
	f.BoolVar(&tableOpts.Raw, "raw", false, "Keep stored signs instead of representative values")
	f.BoolVar(&tableOpts.Trial, "trial", false, "Debit and credit columns")
	f.BoolVar(&tableOpts.Period, "period", false, "Period instead of cumulative totals")
	f.BoolVar(&tableOpts.Properties, "properties", false, "Append account and group properties")
	f.BoolVar(&tableOpts.FormatValues, "format-values", false, "Format amounts with the book settings")
	f.BoolVar(&tableOpts.FormatDates, "format-dates", false, "Format dates with the book pattern")
	f.BoolVar(&tableOpts.HideDates, "hide-dates", false, "Drop the date header")
	f.BoolVar(&tableOpts.HideNames, "hide-names", false, "Drop the name column")
	rootCmd.AddCommand(tableCmd)

	containerCmd.Flags().StringVar(&tableSnapshot, "snapshot", "", "Snapshot id (default: latest of the book)")
	containerCmd.Flags().StringVarP(&tableOutput, "output", "o", "text", "Output format: text or json")
	rootCmd.AddCommand(containerCmd)
}
