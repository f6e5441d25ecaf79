package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/umk/paradigms/internal/app"
)

var only string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Run the JSON-RPC and REST servers",
	Long: `
"serve" starts both HTTP servers on the addresses from the configuration.
Use --only to start just one of them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if only != "" && only != "jsonrpc" && only != "rest" {
			return fmt.Errorf("--only must be jsonrpc or rest, got %q", only)
		}

		cfg, logger, closer, err := setup(false)
		if err != nil {
			return err
		}
		defer closer.Close()

		var servers []app.Server
		if only != "rest" {
			h, err := app.JSONRPCRouter(cfg, logger)
			if err != nil {
				return err
			}
			servers = append(servers, app.Server{Name: "jsonrpc", Address: cfg.JSONRPC.Address, Handler: h})
		}
		if only != "jsonrpc" {
			servers = append(servers, app.Server{Name: "rest", Address: cfg.REST.Address, Handler: app.RESTRouter(cfg, logger)})
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Run(ctx, cfg, logger, servers...)
	},
}

func init() {
	serveCmd.Flags().StringVar(&only, "only", "", "Start only one server: jsonrpc or rest")
	rootCmd.AddCommand(serveCmd)
}
