package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/umk/paradigms/internal/app"
	"github.com/umk/paradigms/jsonrpc2"
)

var listen string

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve JSON-RPC over standard streams or a TCP listener",
	Long: `
"stdio" reads newline-delimited JSON-RPC requests and batches from stdin and
writes one reply per line to stdout. With --listen, every accepted TCP
connection is served the same way. Lines longer than max_body_bytes are
rejected. Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, closer, err := setup(true)
		if err != nil {
			return err
		}
		defer closer.Close()

		jsonrpc2.Configure(jsonrpc2.WithMaxMessageSize(int(cfg.HTTPServer.MaxBodyBytes)))

		processor, _, err := app.NewProcessor(cfg)
		if err != nil {
			return err
		}

		server := jsonrpc2.NewServer(processor)
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			server.Close()
		}()

		if listen != "" {
			return server.ServeFromNetwork(ctx, "tcp", listen)
		}
		return server.ServeFromIO(ctx, os.Stdin, os.Stdout)
	},
}

func init() {
	stdioCmd.Flags().StringVar(&listen, "listen", "", "TCP address to serve on instead of stdin/stdout")
	rootCmd.AddCommand(stdioCmd)
}
