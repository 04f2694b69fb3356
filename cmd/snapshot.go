package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage balances snapshots",
}

var snapshotPushCmd = &cobra.Command{
	Use:   "push [file]",
	Short: "Upload a balances report; reads stdin when file is - or missing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if len(args) == 0 || args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		snap, err := newClient().PushSnapshot(context.Background(), flagBook, data)
		if err != nil {
			return err
		}
		log.Debug("snapshot pushed", zap.String("id", snap.ID), zap.Int("bytes", len(data)))
		fmt.Printf("Snapshot created: %s (%s)\n", snap.ID, snap.Periodicity)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots of a book, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		snaps, err := newClient().ListSnapshots(context.Background(), flagBook)
		if err != nil {
			return err
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots found.")
			return nil
		}

		fmt.Printf("%-38s %-12s %s\n", "ID", "PERIODICITY", "CREATED")
		fmt.Printf("%-38s %-12s %s\n", "--", "-----------", "-------")
		for _, s := range snaps {
			fmt.Printf("%-38s %-12s %s\n", s.ID, s.Periodicity, s.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a snapshot and its top-level containers; latest when id is missing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		ctx := context.Background()

		id, err := resolveSnapshot(ctx, c, args)
		if err != nil {
			return err
		}
		snap, err := c.GetSnapshot(ctx, id)
		if err != nil {
			return err
		}
		r, err := c.OpenReport(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("ID:          %s\n", snap.ID)
		fmt.Printf("Book:        %s\n", snap.BookID)
		fmt.Printf("Periodicity: %s\n", snap.Periodicity)
		fmt.Printf("Created:     %s\n", snap.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Println()

		bk := r.Book()
		fmt.Printf("%-8s %-30s %-7s %18s %18s\n", "KIND", "NAME", "NATURE", "CUMULATIVE", "PERIOD")
		for _, ct := range r.BalancesContainers() {
			fmt.Printf("%-8s %-30s %-7s %18s %18s\n", ct.Kind(), ct.Name(), ct.Nature(),
				bk.FormatValue(ct.CumulativeBalance()), bk.FormatValue(ct.PeriodBalance()))
		}
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().DeleteSnapshot(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Snapshot %s deleted\n", args[0])
		return nil
	},
}

// resolveSnapshot returns args[0], or the latest snapshot of the book.
func resolveSnapshot(ctx context.Context, c *client.Client, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	snap, err := c.LatestSnapshot(ctx, flagBook)
	if err != nil {
		return "", fmt.Errorf("latest snapshot of %s: %w", flagBook, err)
	}
	return snap.ID, nil
}

func init() {
	snapshotCmd.AddCommand(snapshotPushCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	rootCmd.AddCommand(snapshotCmd)
}
