package eval

import (
	"fmt"

	"github.com/nwu-qrg/adlcore/clause"
	"github.com/nwu-qrg/adlcore/errs"
)

// Builtins returns the global comparison/arithmetic function table:
// "=", "<", "<=", ">", ">=", "!=", "+", "-", "*", "/". It is built
// fresh on each call and merged with domain-specific funcdefs, never
// held as process-wide mutable state.
func Builtins() clause.FuncTable {
	return clause.FuncTable{
		"=":  cmpFunc(func(a, b float64) bool { return a == b }, equalAny),
		"!=": cmpFunc(func(a, b float64) bool { return a != b }, notEqualAny),
		"<":  cmpFunc(func(a, b float64) bool { return a < b }, nil),
		"<=": cmpFunc(func(a, b float64) bool { return a <= b }, nil),
		">":  cmpFunc(func(a, b float64) bool { return a > b }, nil),
		">=": cmpFunc(func(a, b float64) bool { return a >= b }, nil),
		"+":  arithFunc(func(a, b float64) float64 { return a + b }),
		"-":  arithFunc(func(a, b float64) float64 { return a - b }),
		"*":  arithFunc(func(a, b float64) float64 { return a * b }),
		"/":  arithDivFunc(),
	}
}

func arity2(args []interface{}) (interface{}, interface{}, error) {
	if len(args) != 2 {
		return nil, nil, errs.New(errs.Arity, "expected 2 arguments, got %d", len(args))
	}
	return args[0], args[1], nil
}

func cmpFunc(numCmp func(a, b float64) bool, anyCmp func(a, b interface{}) bool) clause.Func {
	return func(args []interface{}) (interface{}, error) {
		a, b, err := arity2(args)
		if err != nil {
			return nil, err
		}
		fa, aok := toFloat(a)
		fb, bok := toFloat(b)
		if aok && bok {
			return numCmp(fa, fb), nil
		}
		if anyCmp != nil {
			return anyCmp(a, b), nil
		}
		return nil, errs.New(errs.TypeMismatch, "non-numeric operands %v, %v", a, b)
	}
}

func arithFunc(op func(a, b float64) float64) clause.Func {
	return func(args []interface{}) (interface{}, error) {
		a, b, err := arity2(args)
		if err != nil {
			return nil, err
		}
		fa, aok := toFloat(a)
		fb, bok := toFloat(b)
		if !aok || !bok {
			return nil, errs.New(errs.TypeMismatch, "non-numeric operands %v, %v", a, b)
		}
		return op(fa, fb), nil
	}
}

func arithDivFunc() clause.Func {
	return func(args []interface{}) (interface{}, error) {
		a, b, err := arity2(args)
		if err != nil {
			return nil, err
		}
		fa, aok := toFloat(a)
		fb, bok := toFloat(b)
		if !aok || !bok {
			return nil, errs.New(errs.TypeMismatch, "non-numeric operands %v, %v", a, b)
		}
		if fb == 0 {
			return nil, errs.New(errs.TypeMismatch, "division by zero")
		}
		return fa / fb, nil
	}
}

func equalAny(a, b interface{}) bool    { return fmt.Sprint(a) == fmt.Sprint(b) }
func notEqualAny(a, b interface{}) bool { return !equalAny(a, b) }

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
