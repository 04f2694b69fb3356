package cmd

import (
	"github.com/simonvc/miniledger-balances/internal/client"
	"github.com/simonvc/miniledger-balances/internal/config"
	"github.com/simonvc/miniledger-balances/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagServer   string
	flagDB       string
	flagBook     string
	flagLogLevel string
	flagDev      bool

	cfg config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "balances",
	Short: "Balances aggregation and pivot-table reporting",
	Long: "Stores balances reports of a ledger book as snapshots and turns them into " +
		"pivot tables: total, period and cumulative balances, trial balances, expanded group trees.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}

		// Flags win over the environment.
		flags := cmd.Flags()
		if !flags.Changed("server") {
			flagServer = cfg.ServerURL
		}
		if !flags.Changed("db") {
			flagDB = cfg.DBPath
		}
		if !flags.Changed("book") {
			flagBook = cfg.Book
		}
		if !flags.Changed("log-level") {
			flagLogLevel = cfg.LogLevel
		}
		if !flags.Changed("dev") {
			flagDev = cfg.Development
		}

		log, err = logger.New(flagLogLevel, flagDev)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", "http://localhost:8888", "Server address (BALANCES_SERVER)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "balances.db", "SQLite database path (BALANCES_DB)")
	rootCmd.PersistentFlags().StringVarP(&flagBook, "book", "b", "default", "Book id (BALANCES_BOOK)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (BALANCES_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&flagDev, "dev", false, "Human-readable development logs (BALANCES_DEV)")
}

func newClient() *client.Client {
	return client.New(flagServer, cfg.HTTPTimeout)
}

func Execute() error {
	return rootCmd.Execute()
}
