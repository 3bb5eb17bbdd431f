package registry

import (
	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// registerComparisons wires the six relational operators plus `compare` onto
// the generic total order / structural equality, so the IR evaluator
// reaches them through the exact same built-in call path as any other
// operation rather than special-casing comparisons.
func registerComparisons(r *Registry) {
	r.RegisterBuiltin("equal", comparisonFactory(func(c int, eq bool) bool { return eq }))
	r.RegisterBuiltin("not_equal", comparisonFactory(func(c int, eq bool) bool { return !eq }))
	r.RegisterBuiltin("less_than", comparisonFactory(func(c int, eq bool) bool { return c < 0 }))
	r.RegisterBuiltin("less_equal", comparisonFactory(func(c int, eq bool) bool { return c <= 0 }))
	r.RegisterBuiltin("greater_than", comparisonFactory(func(c int, eq bool) bool { return c > 0 }))
	r.RegisterBuiltin("greater_equal", comparisonFactory(func(c int, eq bool) bool { return c >= 0 }))
	r.RegisterBuiltin("compare", func(typeArgs []*types.Type) Implementation {
		return func(args []*values.Value) (*values.Value, *lmerr.Error) {
			if len(args) != 2 {
				return nil, lmerr.User("compare expects 2 arguments, got %d", len(args))
			}
			return values.NewInteger(int64(values.Compare(args[0], args[1]))), nil
		}
	})
}

// comparisonFactory builds a BuiltinFactory that compares its two arguments
// with both Compare (for ordering) and Equal (for is-equal, since -0/+0
// and NaN diverge between the two) and lets pick decide the boolean
// result.
func comparisonFactory(pick func(cmp int, eq bool) bool) BuiltinFactory {
	return func(typeArgs []*types.Type) Implementation {
		return func(args []*values.Value) (*values.Value, *lmerr.Error) {
			if len(args) != 2 {
				return nil, lmerr.User("comparison expects 2 arguments, got %d", len(args))
			}
			cmp := values.Compare(args[0], args[1])
			eq := values.Equal(args[0], args[1])
			return values.NewBoolean(pick(cmp, eq)), nil
		}
	}
}
