package cmd

import (
	"github.com/simonvc/miniledger-balances/internal/server"
	"github.com/simonvc/miniledger-balances/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("addr") {
			serveAddr = cfg.Addr
		}

		st, err := store.Open(flagDB)
		if err != nil {
			return err
		}
		defer st.Close()
		log.Info("database opened", zap.String("path", flagDB))

		srv := server.New(st, serveAddr, log)
		return srv.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8888", "Listen address (BALANCES_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
