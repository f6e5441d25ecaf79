package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umk/paradigms/internal/methods"
	"github.com/umk/paradigms/internal/services"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the JSON-RPC methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := methods.NewRegistry(services.NewUserStore())
		if err != nil {
			return err
		}
		for _, name := range r.Methods() {
			m, _ := r.Lookup(name)
			fmt.Fprint(cmd.OutOrStdout(), name, "(")
			for i, p := range m.Params {
				if i > 0 {
					fmt.Fprint(cmd.OutOrStdout(), ", ")
				}
				if p.IsRequired() {
					fmt.Fprint(cmd.OutOrStdout(), p.Name)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%v", p.Name, formatDefault(p.Default))
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), ")")
		}
		return nil
	},
}

func formatDefault(v any) any {
	if v == nil {
		return "null"
	}
	return v
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}
