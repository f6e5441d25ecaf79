package methods

import (
	"context"

	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

func operands(a, b string) []jsonrpc2.Param {
	return []jsonrpc2.Param{jsonrpc2.Required(a), jsonrpc2.Required(b)}
}

func binary(op string) jsonrpc2.HandlerFunc {
	return func(ctx context.Context, args jsonrpc2.Args) (any, error) {
		var a, b float64
		if err := args.Decode(0, &a); err != nil {
			return nil, err
		}
		if err := args.Decode(1, &b); err != nil {
			return nil, err
		}
		return services.Calculate(op, a, b)
	}
}

func batchCalculate(ctx context.Context, args jsonrpc2.Args) (any, error) {
	var ops []services.BatchOperation
	if err := args.Decode(0, &ops); err != nil {
		return nil, err
	}
	return services.BatchCalculate(ops), nil
}
