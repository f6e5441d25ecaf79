package services

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultTaxRate applies when a simple calculation names no rate.
const DefaultTaxRate = 0.20

// Bracket taxes the part of income between the previous bracket's limit and
// Limit at Rate.
type Bracket struct {
	Limit float64
	Rate  float64
}

// Brackets are the progressive tax brackets, in ascending order.
var Brackets = []Bracket{
	{Limit: 10000, Rate: 0.10},
	{Limit: 40000, Rate: 0.12},
	{Limit: 85000, Rate: 0.22},
	{Limit: math.Inf(1), Rate: 0.24},
}

type TaxCalculation struct {
	Income        float64 `json:"income"`
	Deductions    float64 `json:"deductions"`
	TaxableIncome float64 `json:"taxable_income"`
	TaxRate       float64 `json:"tax_rate"`
	TaxAmount     float64 `json:"tax_amount"`
	NetIncome     float64 `json:"net_income"`
	CalculationID string  `json:"calculation_id"`
	CalculatedAt  string  `json:"calculated_at"`
}

type BracketTax struct {
	Bracket       string  `json:"bracket"`
	Rate          string  `json:"rate"`
	TaxableIncome float64 `json:"taxable_income"`
	Tax           float64 `json:"tax"`
}

type ProgressiveTax struct {
	Income        float64      `json:"income"`
	TotalTax      float64      `json:"total_tax"`
	EffectiveRate float64      `json:"effective_rate"`
	NetIncome     float64      `json:"net_income"`
	TaxBreakdown  []BracketTax `json:"tax_breakdown"`
	CalculationID string       `json:"calculation_id"`
	CalculatedAt  string       `json:"calculated_at"`
}

// CalculateTax applies a flat rate to income less deductions. Taxable
// income never goes below zero.
func CalculateTax(income, deductions, taxRate float64) (TaxCalculation, error) {
	if income < 0 || deductions < 0 {
		return TaxCalculation{}, fmt.Errorf("%w: income and deductions must be non-negative", ErrInvalid)
	}

	taxable, tax := simpleTax(income, deductions, taxRate)
	return TaxCalculation{
		Income:        income,
		Deductions:    deductions,
		TaxableIncome: taxable,
		TaxRate:       taxRate,
		TaxAmount:     tax,
		NetIncome:     income - tax,
		CalculationID: newID(),
		CalculatedAt:  timestamp(),
	}, nil
}

// CalculateProgressiveTax taxes income bracket by bracket.
func CalculateProgressiveTax(income float64) ProgressiveTax {
	total, breakdown := progressiveTax(income)
	return ProgressiveTax{
		Income:        income,
		TotalTax:      total,
		EffectiveRate: effectiveRate(total, income),
		NetIncome:     income - total,
		TaxBreakdown:  breakdown,
		CalculationID: newID(),
		CalculatedAt:  timestamp(),
	}
}

func simpleTax(income, deductions, rate float64) (taxable, tax float64) {
	taxable = max(0, income-deductions)
	return taxable, taxable * rate
}

func progressiveTax(income float64) (float64, []BracketTax) {
	total := 0.0
	previous := 0.0
	breakdown := make([]BracketTax, 0, len(Brackets))

	for _, b := range Brackets {
		if income <= previous {
			break
		}

		upper := min(income, b.Limit)
		taxable := upper - previous
		tax := taxable * b.Rate
		total += tax

		breakdown = append(breakdown, BracketTax{
			Bracket:       dollars(previous) + " - " + dollars(upper),
			Rate:          strconv.FormatFloat(b.Rate*100, 'f', 0, 64) + "%",
			TaxableIncome: taxable,
			Tax:           tax,
		})

		previous = b.Limit
	}

	return total, breakdown
}

func effectiveRate(tax, income float64) float64 {
	if income <= 0 {
		return 0
	}
	return tax / income
}

// dollars renders v rounded to whole dollars with thousands separators,
// e.g. "$40,000".
func dollars(v float64) string {
	digits := strconv.FormatFloat(math.Round(math.Abs(v)), 'f', 0, 64)

	var out []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}

	if v < 0 {
		return "-$" + string(out)
	}
	return "$" + string(out)
}
