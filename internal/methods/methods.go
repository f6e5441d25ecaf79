// Package methods registers the business services as JSON-RPC methods.
package methods

import (
	"context"
	"time"

	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

const (
	ServerType    = "JSON-RPC"
	ServerVersion = "1.0.0"
)

// Replaced in tests.
var now = time.Now

// Register adds every method to r. users backs the user methods.
func Register(r *jsonrpc2.Registry, users *services.UserStore) error {
	type entry struct {
		name    string
		handler jsonrpc2.HandlerFunc
		params  []jsonrpc2.Param
	}

	entries := []entry{
		{"calculate_tax", calculateTax, []jsonrpc2.Param{
			jsonrpc2.Required("income"),
			jsonrpc2.Optional("deductions", 0),
			jsonrpc2.Optional("tax_rate", services.DefaultTaxRate),
		}},
		{"calculate_progressive_tax", calculateProgressiveTax, []jsonrpc2.Param{
			jsonrpc2.Required("income"),
		}},

		{"create_user", createUser(users), []jsonrpc2.Param{
			jsonrpc2.Required("name"),
			jsonrpc2.Required("email"),
			jsonrpc2.Optional("age", nil),
		}},
		{"get_user_by_id", getUser(users), []jsonrpc2.Param{
			jsonrpc2.Required("user_id"),
		}},
		{"update_user", updateUser(users), []jsonrpc2.Param{
			jsonrpc2.Required("user_id"),
			jsonrpc2.Optional("name", nil),
			jsonrpc2.Optional("email", nil),
			jsonrpc2.Optional("age", nil),
		}},
		{"delete_user", deleteUser(users), []jsonrpc2.Param{
			jsonrpc2.Required("user_id"),
		}},
		{"list_users", listUsers(users), nil},

		{"add", binary(services.OpAdd), operands("a", "b")},
		{"subtract", binary(services.OpSubtract), operands("a", "b")},
		{"multiply", binary(services.OpMultiply), operands("a", "b")},
		{"divide", binary(services.OpDivide), operands("a", "b")},
		{"power", binary(services.OpPower), operands("base", "exponent")},
		{"batch_calculate", batchCalculate, []jsonrpc2.Param{
			jsonrpc2.Required("operations"),
		}},

		{"get_server_info", serverInfo(r), nil},
		{"ping", ping, nil},
	}

	for _, e := range entries {
		if err := r.Register(e.name, e.handler, e.params...); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry builds a registry holding every method.
func NewRegistry(users *services.UserStore) (*jsonrpc2.Registry, error) {
	r := jsonrpc2.NewRegistry()
	if err := Register(r, users); err != nil {
		return nil, err
	}
	return r, nil
}

func serverInfo(r *jsonrpc2.Registry) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		return map[string]any{
			"server_type":       ServerType,
			"version":           ServerVersion,
			"timestamp":         now().Format(time.RFC3339),
			"status":            "running",
			"supported_methods": r.Methods(),
		}, nil
	}
}

func ping(ctx context.Context, args jsonrpc2.Args) (any, error) {
	return map[string]string{
		"message":   "pong",
		"timestamp": now().Format(time.RFC3339),
	}, nil
}
