package registry

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/loomlang/loom/internal/lmerr"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
)

// RegisterDemoBuiltins installs compare_text, an illustrative locale-aware
// built-in showing how a generator-provided factory plugs into the
// registry — built-in *bodies* live outside this package's core concerns,
// so this one exists purely as a wiring demonstration, in the spirit of
// the strings_compare.go comparison built-ins but backed by a real
// collation library instead of byte compare. locale is a BCP 47 tag such
// as "en" or "sv"; unparseable tags fall back to the undetermined
// locale's default ordering.
func RegisterDemoBuiltins(r *Registry, locale string) {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	col := collate.New(tag)

	r.RegisterBuiltin("compare_text", func(typeArgs []*types.Type) Implementation {
		return func(args []*values.Value) (*values.Value, *lmerr.Error) {
			if len(args) != 2 {
				return nil, lmerr.User("compare_text expects 2 arguments, got %d", len(args))
			}
			n := col.CompareString(args[0].Str(), args[1].Str())
			return values.NewInteger(int64(n)), nil
		}
	})
}
