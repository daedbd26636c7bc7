package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrTypeMismatch marks a stock value that is not a number.
	ErrTypeMismatch = errors.New("resource value is not numeric")
	// ErrNotWhole marks a numeric stock value with a fractional part.
	ErrNotWhole = errors.New("resource value is not a whole number")
)

// TypeMismatchError describes the offending value for one resource.
type TypeMismatchError struct {
	Kind  Kind
	Value any
}

func (e *TypeMismatchError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v: value is absent", e.Kind, ErrTypeMismatch)
	}
	return fmt.Sprintf("%s: %v: got %T", e.Kind, ErrTypeMismatch, e.Value)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// ParseStock converts loosely typed input (decoded YAML or JSON) into a Stock.
// Every kind must be present with an integral numeric value; nothing is
// coerced or defaulted.
func ParseStock(raw map[string]any) (Stock, error) {
	var s Stock
	var seen [KindCount]bool
	for name, v := range raw {
		k, err := ParseKind(name)
		if err != nil {
			return Stock{}, err
		}
		if seen[k] {
			return Stock{}, fmt.Errorf("duplicate resource kind %s", k)
		}
		n, err := toQuantity(k, v)
		if err != nil {
			return Stock{}, err
		}
		s[k] = n
		seen[k] = true
	}
	for _, k := range Kinds {
		if !seen[k] {
			return Stock{}, &TypeMismatchError{Kind: k}
		}
	}
	return s, nil
}

func toQuantity(k Kind, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%s: value %d overflows int64", k, n)
		}
		return int64(n), nil
	case float32:
		return fromFloat(k, float64(n))
	case float64:
		return fromFloat(k, n)
	default:
		return 0, &TypeMismatchError{Kind: k, Value: v}
	}
}

func fromFloat(k Kind, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: %w: %v", k, ErrNotWhole, f)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%s: value %v overflows int64", k, f)
	}
	return int64(f), nil
}
