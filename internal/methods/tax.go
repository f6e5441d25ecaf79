package methods

import (
	"context"

	"github.com/umk/paradigms/internal/services"
	"github.com/umk/paradigms/jsonrpc2"
)

func calculateTax(ctx context.Context, args jsonrpc2.Args) (any, error) {
	var p struct {
		Income     float64 `json:"income"`
		Deductions float64 `json:"deductions"`
		TaxRate    float64 `json:"tax_rate" validate:"gte=0"`
	}
	if err := args.Struct(&p); err != nil {
		return nil, err
	}
	return services.CalculateTax(p.Income, p.Deductions, p.TaxRate)
}

func calculateProgressiveTax(ctx context.Context, args jsonrpc2.Args) (any, error) {
	var income float64
	if err := args.Decode(0, &income); err != nil {
		return nil, err
	}
	return services.CalculateProgressiveTax(income), nil
}
