package services

import (
	"errors"
	"fmt"
	"slices"
)

// Tax calculation types.
const (
	TaxSimple      = "simple"
	TaxProgressive = "progressive"
)

// TaxRecord is a stored tax calculation. Simple and progressive records
// carry different result fields.
type TaxRecord struct {
	ID         int     `json:"id"`
	Type       string  `json:"type"`
	Income     float64 `json:"income"`
	Deductions float64 `json:"deductions"`

	TaxableIncome *float64 `json:"taxable_income,omitempty"`
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	TaxAmount     *float64 `json:"tax_amount,omitempty"`

	TotalTax      *float64     `json:"total_tax,omitempty"`
	EffectiveRate *float64     `json:"effective_rate,omitempty"`
	TaxBreakdown  []BracketTax `json:"tax_breakdown,omitempty"`

	NetIncome float64 `json:"net_income"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type TaxInput struct {
	Income     float64
	Deductions float64
	TaxRate    float64
	Type       string
}

// TaxUpdate lists the inputs to change; nil fields are left as they are.
type TaxUpdate struct {
	Income     *float64
	Deductions *float64
	TaxRate    *float64
}

type TaxStore struct {
	records *table[TaxRecord]
}

func NewTaxStore() *TaxStore {
	return &TaxStore{records: newTable[TaxRecord]()}
}

func (s *TaxStore) Create(in TaxInput) (TaxRecord, error) {
	if in.Type == "" {
		in.Type = TaxSimple
	}
	if err := checkTaxInput(in.Income, in.Deductions, in.Type); err != nil {
		return TaxRecord{}, err
	}

	return s.records.insert(func(id int, _ []TaxRecord) (TaxRecord, error) {
		ts := timestamp()
		r := TaxRecord{
			ID:         id,
			Type:       in.Type,
			Income:     in.Income,
			Deductions: in.Deductions,
			CreatedAt:  ts,
			UpdatedAt:  ts,
		}
		r.compute(in.TaxRate)
		return r, nil
	})
}

func (s *TaxStore) Get(id int) (TaxRecord, error) {
	r, ok := s.records.get(id)
	if !ok {
		return TaxRecord{}, taxNotFound(id)
	}
	return r, nil
}

// Update changes the inputs of a record and recomputes its results.
func (s *TaxStore) Update(id int, change TaxUpdate) (TaxRecord, error) {
	r, err := s.records.update(id, func(r TaxRecord, _ []TaxRecord) (TaxRecord, error) {
		if change.Income == nil && change.Deductions == nil && change.TaxRate == nil {
			return r, nil
		}

		income, deductions := r.Income, r.Deductions
		if change.Income != nil {
			income = *change.Income
		}
		if change.Deductions != nil {
			deductions = *change.Deductions
		}
		if err := checkTaxInput(income, deductions, r.Type); err != nil {
			return TaxRecord{}, err
		}

		rate := DefaultTaxRate
		if r.TaxRate != nil {
			rate = *r.TaxRate
		}
		if change.TaxRate != nil {
			rate = *change.TaxRate
		}

		r.Income, r.Deductions = income, deductions
		r.compute(rate)
		r.UpdatedAt = timestamp()
		return r, nil
	})
	if errors.Is(err, ErrNotFound) {
		return TaxRecord{}, taxNotFound(id)
	}
	return r, err
}

func (s *TaxStore) Delete(id int) error {
	if !s.records.delete(id) {
		return taxNotFound(id)
	}
	return nil
}

func (s *TaxStore) List(limit, offset int) Page[TaxRecord] {
	return Paginate(s.records.list(), limit, offset)
}

func (r *TaxRecord) compute(rate float64) {
	r.TaxableIncome, r.TaxRate, r.TaxAmount = nil, nil, nil
	r.TotalTax, r.EffectiveRate, r.TaxBreakdown = nil, nil, nil

	if r.Type == TaxProgressive {
		total, breakdown := progressiveTax(r.Income)
		effective := effectiveRate(total, r.Income)
		r.TotalTax = &total
		r.EffectiveRate = &effective
		r.TaxBreakdown = breakdown
		r.NetIncome = r.Income - total
		return
	}

	taxable, tax := simpleTax(r.Income, r.Deductions, rate)
	r.TaxableIncome = &taxable
	r.TaxRate = &rate
	r.TaxAmount = &tax
	r.NetIncome = r.Income - tax
}

func checkTaxInput(income, deductions float64, typ string) error {
	if income < 0 || deductions < 0 {
		return fmt.Errorf("%w: income and deductions must be non-negative", ErrInvalid)
	}
	if typ != TaxSimple && typ != TaxProgressive {
		return fmt.Errorf("%w: unknown calculation type: %s", ErrInvalid, typ)
	}
	return nil
}

func taxNotFound(id int) error {
	return fmt.Errorf("tax calculation %d: %w", id, ErrNotFound)
}

// CalculationRecord is a stored n-ary calculation.
type CalculationRecord struct {
	ID        int            `json:"id"`
	Operation string         `json:"operation"`
	Operands  []float64      `json:"operands"`
	Result    float64        `json:"result"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt string         `json:"created_at"`
}

type CalculationStore struct {
	records *table[CalculationRecord]
}

func NewCalculationStore() *CalculationStore {
	return &CalculationStore{records: newTable[CalculationRecord]()}
}

// Create folds operands with op and stores the result along with any
// caller-supplied metadata.
func (s *CalculationStore) Create(op string, operands []float64, metadata map[string]any) (CalculationRecord, error) {
	if !slices.Contains(Operations, op) {
		return CalculationRecord{}, fmt.Errorf("%w: unsupported operation: %s", ErrInvalid, op)
	}
	result, err := apply(op, operands)
	if err != nil {
		return CalculationRecord{}, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	return s.records.insert(func(id int, _ []CalculationRecord) (CalculationRecord, error) {
		return CalculationRecord{
			ID:        id,
			Operation: op,
			Operands:  slices.Clone(operands),
			Result:    result,
			Metadata:  metadata,
			CreatedAt: timestamp(),
		}, nil
	})
}

func (s *CalculationStore) Get(id int) (CalculationRecord, error) {
	r, ok := s.records.get(id)
	if !ok {
		return CalculationRecord{}, calculationNotFound(id)
	}
	return r, nil
}

func (s *CalculationStore) Delete(id int) error {
	if !s.records.delete(id) {
		return calculationNotFound(id)
	}
	return nil
}

// List returns a page of records, only those of operation op when it is
// not empty.
func (s *CalculationStore) List(op string, limit, offset int) Page[CalculationRecord] {
	records := s.records.list()
	if op != "" {
		records = slices.DeleteFunc(records, func(r CalculationRecord) bool {
			return r.Operation != op
		})
	}
	return Paginate(records, limit, offset)
}

func calculationNotFound(id int) error {
	return fmt.Errorf("calculation %d: %w", id, ErrNotFound)
}
