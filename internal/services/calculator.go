package services

import (
	"fmt"
	"math"
)

// Operation names accepted by Calculate and BatchCalculate.
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
	OpMultiply = "multiply"
	OpDivide   = "divide"
	OpPower    = "power"
)

var operationNames = map[string]string{
	OpAdd:      "addition",
	OpSubtract: "subtraction",
	OpMultiply: "multiplication",
	OpDivide:   "division",
	OpPower:    "power",
}

// Operations lists the supported operations.
var Operations = []string{OpAdd, OpSubtract, OpMultiply, OpDivide, OpPower}

type Calculation struct {
	Operation     string    `json:"operation"`
	Operands      []float64 `json:"operands"`
	Result        float64   `json:"result"`
	CalculationID string    `json:"calculation_id"`
	CalculatedAt  string    `json:"calculated_at"`
}

// Calculate applies a binary operation to a and b.
func Calculate(op string, a, b float64) (Calculation, error) {
	name, ok := operationNames[op]
	if !ok {
		return Calculation{}, fmt.Errorf("%w: unknown operation: %s", ErrInvalid, op)
	}

	result, err := apply(op, []float64{a, b})
	if err != nil {
		return Calculation{}, err
	}

	return Calculation{
		Operation:     name,
		Operands:      []float64{a, b},
		Result:        result,
		CalculationID: newID(),
		CalculatedAt:  timestamp(),
	}, nil
}

// apply folds operands left to right. Power takes exactly two operands.
func apply(op string, operands []float64) (float64, error) {
	if len(operands) < 2 {
		return 0, fmt.Errorf("%w: at least two operands are required", ErrInvalid)
	}

	result := operands[0]
	switch op {
	case OpAdd:
		for _, v := range operands[1:] {
			result += v
		}
	case OpSubtract:
		for _, v := range operands[1:] {
			result -= v
		}
	case OpMultiply:
		for _, v := range operands[1:] {
			result *= v
		}
	case OpDivide:
		for _, v := range operands[1:] {
			if v == 0 {
				return 0, fmt.Errorf("%w: division by zero is not allowed", ErrInvalid)
			}
			result /= v
		}
	case OpPower:
		if len(operands) != 2 {
			return 0, fmt.Errorf("%w: power requires exactly two operands", ErrInvalid)
		}
		result = math.Pow(operands[0], operands[1])
	default:
		return 0, fmt.Errorf("%w: unsupported operation: %s", ErrInvalid, op)
	}

	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is not a finite number", ErrInvalid)
	}
	return result, nil
}

// BatchOperation is one entry of a batch_calculate call. Operands are
// decoded loosely so that bad entries can be reported one by one.
type BatchOperation struct {
	Operation any `json:"operation"`
	A         any `json:"a"`
	B         any `json:"b"`
}

type BatchFailure struct {
	Error     string `json:"error"`
	Operation any    `json:"operation"`
	Operands  []any  `json:"operands"`
}

// BatchCalculate runs every operation independently. Each entry of the
// result is either a Calculation or a BatchFailure; one bad entry never
// fails the others.
func BatchCalculate(ops []BatchOperation) []any {
	results := make([]any, 0, len(ops))
	for _, op := range ops {
		results = append(results, batchEntry(op))
	}
	return results
}

func batchEntry(op BatchOperation) any {
	fail := func(msg string) BatchFailure {
		return BatchFailure{Error: msg, Operation: op.Operation, Operands: []any{op.A, op.B}}
	}

	if op.A == nil || op.B == nil {
		return fail("Missing operands 'a' or 'b'")
	}
	a, aok := op.A.(float64)
	b, bok := op.B.(float64)
	if !aok || !bok {
		return fail("Operands must be numbers")
	}

	name, _ := op.Operation.(string)
	if _, ok := operationNames[name]; !ok {
		return fail(fmt.Sprintf("Unknown operation: %v", op.Operation))
	}

	c, err := Calculate(name, a, b)
	if err != nil {
		return fail(err.Error())
	}
	return c
}
