package patch

import "github.com/loomlang/loom/internal/types"

// typeStack tracks the Recursive-type wrappers currently being descended
// into, by pointer identity, so diff can degrade to replace-only semantics
// on re-entry rather than structurally comparing an unbounded self-
// referential region forever.
func onTypeStack(stack []*types.Type, t *types.Type) bool {
	for _, s := range stack {
		if s == t {
			return true
		}
	}
	return false
}

func pushTypeStack(stack []*types.Type, t *types.Type) []*types.Type {
	out := make([]*types.Type, len(stack)+1)
	copy(out, stack)
	out[len(stack)] = t
	return out
}
