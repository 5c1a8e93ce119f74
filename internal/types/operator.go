package types

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	ierr "github.com/quoteforge/quoteforge/internal/errors"
)

// ConditionOperator is the comparison operator used by rule conditions and
// store criteria. An empty operator means plain equality.
type ConditionOperator string

const (
	ConditionOperatorEq         ConditionOperator = "=="
	ConditionOperatorNeq        ConditionOperator = "!="
	ConditionOperatorGt         ConditionOperator = ">"
	ConditionOperatorGte        ConditionOperator = ">="
	ConditionOperatorLt         ConditionOperator = "<"
	ConditionOperatorLte        ConditionOperator = "<="
	ConditionOperatorContains   ConditionOperator = "contains"
	ConditionOperatorStartsWith ConditionOperator = "startsWith"
	ConditionOperatorEndsWith   ConditionOperator = "endsWith"
)

func (o ConditionOperator) String() string {
	return string(o)
}

func (o ConditionOperator) Validate() error {
	allowed := []ConditionOperator{
		ConditionOperatorEq,
		ConditionOperatorNeq,
		ConditionOperatorGt,
		ConditionOperatorGte,
		ConditionOperatorLt,
		ConditionOperatorLte,
		ConditionOperatorContains,
		ConditionOperatorStartsWith,
		ConditionOperatorEndsWith,
	}
	if !lo.Contains(allowed, o) {
		return ierr.NewError("invalid condition operator").
			WithHintf("Condition operator must be one of %v", allowed).
			WithReportableDetails(map[string]any{"operator": o}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsNumeric reports whether the operator only makes sense on numeric values.
func (o ConditionOperator) IsNumeric() bool {
	switch o {
	case ConditionOperatorGt, ConditionOperatorGte, ConditionOperatorLt, ConditionOperatorLte:
		return true
	}
	return false
}

// ToDecimal attempts to coerce an arbitrary value to a decimal.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return val, true
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero, false
		}
		return *val, true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}

	f, err := cast.ToFloat64E(v)
	if err != nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// MatchCondition evaluates a single condition operator against an actual
// value. Numeric operators applied to values that cannot be coerced to
// numbers fail safe and report a non-match.
func MatchCondition(op ConditionOperator, actual, expected any) bool {
	if op == "" {
		op = ConditionOperatorEq
	}

	actualNum, actualOK := ToDecimal(actual)
	expectedNum, expectedOK := ToDecimal(expected)
	bothNumeric := actualOK && expectedOK

	switch op {
	case ConditionOperatorEq:
		if bothNumeric {
			return actualNum.Equal(expectedNum)
		}
		return cast.ToString(actual) == cast.ToString(expected)
	case ConditionOperatorNeq:
		if bothNumeric {
			return !actualNum.Equal(expectedNum)
		}
		return cast.ToString(actual) != cast.ToString(expected)
	case ConditionOperatorGt:
		return bothNumeric && actualNum.GreaterThan(expectedNum)
	case ConditionOperatorGte:
		return bothNumeric && actualNum.GreaterThanOrEqual(expectedNum)
	case ConditionOperatorLt:
		return bothNumeric && actualNum.LessThan(expectedNum)
	case ConditionOperatorLte:
		return bothNumeric && actualNum.LessThanOrEqual(expectedNum)
	case ConditionOperatorContains:
		return strings.Contains(cast.ToString(actual), cast.ToString(expected))
	case ConditionOperatorStartsWith:
		return strings.HasPrefix(cast.ToString(actual), cast.ToString(expected))
	case ConditionOperatorEndsWith:
		return strings.HasSuffix(cast.ToString(actual), cast.ToString(expected))
	}

	return false
}
