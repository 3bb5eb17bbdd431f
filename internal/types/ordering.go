package types

import (
	"fmt"
	"strings"
)

// rank fixes the total order over kinds (their declaration order) that
// gives Compare a well-defined cross-kind order when two types are
// otherwise unrelated. This mirrors the value kind ranking, applied here
// to type terms rather than values.
func (k Kind) rank() int { return int(k) }

// Compare gives types a deterministic total order: by kind first, then
// structurally. Recursive wrappers compare by pointer identity (consistent
// with Equal), falling back to an arbitrary but stable tie-break so sorts
// involving them still terminate.
func Compare(a, b *Type) int {
	if a == b {
		return 0
	}
	if a.kind != b.kind {
		return a.kind.rank() - b.kind.rank()
	}
	switch a.kind {
	case Never, Null, Boolean, Integer, Float, String, Datetime, Blob:
		return 0
	case Array, Set, Ref, Vector, Matrix:
		return Compare(a.elem, b.elem)
	case Dict:
		if c := Compare(a.key, b.key); c != 0 {
			return c
		}
		return Compare(a.value, b.value)
	case Struct:
		if c := len(a.fields) - len(b.fields); c != 0 {
			return c
		}
		for i := range a.fields {
			if c := strings.Compare(a.fields[i].Name, b.fields[i].Name); c != 0 {
				return c
			}
			if c := Compare(a.fields[i].Type, b.fields[i].Type); c != 0 {
				return c
			}
		}
		return 0
	case Variant:
		if c := len(a.cases) - len(b.cases); c != 0 {
			return c
		}
		for i := range a.cases {
			if c := strings.Compare(a.cases[i].Name, b.cases[i].Name); c != 0 {
				return c
			}
			if c := Compare(a.cases[i].Type, b.cases[i].Type); c != 0 {
				return c
			}
		}
		return 0
	case Function, AsyncFunction:
		if c := len(a.inputs) - len(b.inputs); c != 0 {
			return c
		}
		for i := range a.inputs {
			if c := Compare(a.inputs[i], b.inputs[i]); c != 0 {
				return c
			}
		}
		return Compare(a.output, b.output)
	case Recursive:
		// Pointer identity already handled by a == b above; otherwise fall
		// back to a stable address-derived order so sorts terminate.
		return strings.Compare(fmt.Sprintf("%p", a), fmt.Sprintf("%p", b))
	default:
		return 0
	}
}
