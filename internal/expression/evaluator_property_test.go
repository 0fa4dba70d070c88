package expression

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComparisonMatchesGo(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	e := NewEvaluator()

	properties.Property("${a} > ${b} agrees with Go", prop.ForAll(
		func(a, b int) bool {
			result, err := e.EvaluateString("${a} > ${b}", map[string]any{
				"a": int64(a),
				"b": int64(b),
			})
			return err == nil && result == (a > b)
		},
		gen.Int(),
		gen.Int(),
	))

	properties.Property("equality is reflexive", prop.ForAll(
		func(a int) bool {
			result, err := e.EvaluateString("${a} == ${a}", map[string]any{"a": int64(a)})
			return err == nil && result
		},
		gen.Int(),
	))

	properties.TestingRun(t)
}

func TestLogicalLaws(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	e := NewEvaluator()
	eval := func(expr string, x, y bool) bool {
		result, err := e.EvaluateString(expr, map[string]any{"x": x, "y": y})
		if err != nil {
			panic(err)
		}
		return result
	}

	properties.Property("De Morgan", prop.ForAll(
		func(x, y bool) bool {
			left := eval("NOT (${x} AND ${y})", x, y)
			right := eval("NOT ${x} OR NOT ${y}", x, y)
			return left == right
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.Property("double negation", prop.ForAll(
		func(x bool) bool {
			return eval("NOT NOT ${x}", x, false) == x
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestArithmeticMatchesGo(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	e := NewEvaluator()

	properties.Property("integer sum", prop.ForAll(
		func(a, b int) bool {
			expr := fmt.Sprintf("${a} + ${b} == %d", a+b)
			result, err := e.EvaluateString(expr, map[string]any{
				"a": int64(a),
				"b": int64(b),
			})
			return err == nil && result
		},
		gen.IntRange(-100000, 100000),
		gen.IntRange(-100000, 100000),
	))

	properties.TestingRun(t)
}
