package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/umk/paradigms/jsonrpc2"
)

var (
	callURL     string
	callNotify  bool
	callTimeout time.Duration
)

var callCmd = &cobra.Command{
	Use:   "call METHOD [PARAMS]",
	Short: "Call a method on a JSON-RPC server",
	Long: `
"call" sends one request to a JSON-RPC server over HTTP and prints the
result. PARAMS is a JSON array or object.`,
	Example: `  paradigms call add '{"a": 2, "b": 3}'
  paradigms call calculate_tax '[50000, 5000]'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var params any
		if len(args) == 2 {
			raw := json.RawMessage(args[1])
			if !json.Valid(raw) {
				return fmt.Errorf("params are not valid JSON")
			}
			params = raw
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
		defer cancel()

		client := jsonrpc2.NewClient(callURL)
		if callNotify {
			return client.Notify(ctx, args[0], params)
		}

		var result json.RawMessage
		if err := client.Call(ctx, args[0], params, &result); err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	callCmd.Flags().StringVar(&callURL, "url", "http://localhost:8001/jsonrpc", "JSON-RPC endpoint")
	callCmd.Flags().BoolVar(&callNotify, "notify", false, "Send a notification and do not wait for a result")
	callCmd.Flags().DurationVar(&callTimeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.AddCommand(callCmd)
}
