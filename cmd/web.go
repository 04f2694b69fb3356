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
	"github.com/simonvc/miniledger-balances/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	webPort int
	webHost string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the pivot table viewer in a browser terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiAddr := flagServer

		if !cmd.Flags().Changed("server") && os.Getenv("BALANCES_SERVER") == "" {
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

			srv := server.New(st, "", log.Named("api"))
			go func() {
				if err := srv.Serve(ln); err != nil {
					log.Error("embedded server stopped", zap.Error(err))
				}
			}()
			apiAddr = "http://" + ln.Addr().String()

			c := client.New(apiAddr, cfg.HTTPTimeout)
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

		listenAddr := net.JoinHostPort(webHost, fmt.Sprintf("%d", webPort))
		fmt.Printf("balances web UI: http://%s\n", listenAddr)

		webSrv := web.NewServer(listenAddr, flagBook, web.TUICommand(apiAddr), log.Named("web"))
		return webSrv.ListenAndServe()
	},
}

func init() {
	webCmd.Flags().IntVar(&webPort, "port", 8833, "HTTP port for web terminal")
	webCmd.Flags().StringVar(&webHost, "host", "localhost", "HTTP host for web terminal")
	rootCmd.AddCommand(webCmd)
}
