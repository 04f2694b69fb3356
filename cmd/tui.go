package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/server"
	"github.com/simonvc/miniledger-balances/internal/store"
	"github.com/simonvc/miniledger-balances/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var tuiSnapshot string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive pivot table viewer",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverAddr := flagServer

		if !cmd.Flags().Changed("server") && os.Getenv("BALANCES_SERVER") == "" {
			// Start embedded server in background
			st, err := store.Open(flagDB)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer st.Close()

			ln, err := net.Listen("tcp", "127.0.0.1:0")
			if err != nil {
				return fmt.Errorf("listen: %w", err)
			}
			defer ln.Close()

			// Logs would draw over the alt screen.
			srv := server.New(st, "", zap.NewNop())
			go func() {
				if err := srv.Serve(ln); err != nil {
					log.Debug("embedded server stopped", zap.Error(err))
				}
			}()
			serverAddr = "http://" + ln.Addr().String()

			// Wait for server to be ready
			c := client.New(serverAddr, cfg.HTTPTimeout)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for {
				if err := c.Ping(ctx); err == nil {
					break
				}
				if ctx.Err() != nil {
					return fmt.Errorf("timeout waiting for embedded server")
				}
				time.Sleep(50 * time.Millisecond)
			}
		}

		c := client.New(serverAddr, cfg.HTTPTimeout)
		app := tui.NewApp(c, flagBook, tuiSnapshot)
		p := tea.NewProgram(app, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiSnapshot, "snapshot", "", "Snapshot id (default: latest of the book)")
	rootCmd.AddCommand(tuiCmd)
}
