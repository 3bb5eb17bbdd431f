package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/internal/patch"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
	"github.com/loomlang/loom/pkg/loom"
)

var patchCodecName string

var patchCmd = &cobra.Command{
	Use:   "patch",
	Short: "Diff, apply, compose, and invert structural patches",
	Long: `patch exercises internal/patch's diff/apply/compose/invert algebra from
the command line, against encoded before/after/base values of a shared
--type. A Patch has no wire encoding of its own (only the values it
operates on do), so diff/invert/compose print a human-readable dump rather
than writing a file a later patch command could re-read; apply is the one
subcommand that round-trips through the value codecs, computing its patch
from --before/--after in the same invocation it applies to --base.`,
}

func init() {
	patchCmd.PersistentFlags().StringVar(&patchCodecName, "codec", "", "codec the value/type files are encoded with")
	rootCmd.AddCommand(patchCmd)

	diffCmd := &cobra.Command{
		Use:   "diff",
		Short: "Print the structural patch from before to after",
		RunE:  runPatchDiff,
	}
	addTypeBeforeAfterFlags(diffCmd)
	patchCmd.AddCommand(diffCmd)

	invertCmd := &cobra.Command{
		Use:   "invert",
		Short: "Print the inverse of the patch from before to after",
		RunE:  runPatchInvert,
	}
	addTypeBeforeAfterFlags(invertCmd)
	patchCmd.AddCommand(invertCmd)

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Diff before/after, then apply the result to base",
		Long: `apply computes Diff(before, after) and applies it to a separately
given base value, printing the result through --codec (or --output-codec).`,
		RunE: runPatchApply,
	}
	addTypeBeforeAfterFlags(applyCmd)
	applyCmd.Flags().String("base", "", "path to the encoded base value (required)")
	applyCmd.Flags().String("output-codec", "", "codec to print the result with (defaults to --codec)")
	_ = applyCmd.MarkFlagRequired("base")
	patchCmd.AddCommand(applyCmd)

	composeCmd := &cobra.Command{
		Use:   "compose",
		Short: "Print Compose(Diff(a,b), Diff(b,c))",
		RunE:  runPatchCompose,
	}
	composeCmd.Flags().String("type", "", "path to the encoded value type (required)")
	composeCmd.Flags().String("a", "", "path to the encoded first value (required)")
	composeCmd.Flags().String("b", "", "path to the encoded second value (required)")
	composeCmd.Flags().String("c", "", "path to the encoded third value (required)")
	_ = composeCmd.MarkFlagRequired("type")
	_ = composeCmd.MarkFlagRequired("a")
	_ = composeCmd.MarkFlagRequired("b")
	_ = composeCmd.MarkFlagRequired("c")
	patchCmd.AddCommand(composeCmd)
}

func addTypeBeforeAfterFlags(c *cobra.Command) {
	c.Flags().String("type", "", "path to the encoded value type (required)")
	c.Flags().String("before", "", "path to the encoded before value (required)")
	c.Flags().String("after", "", "path to the encoded after value (required)")
	_ = c.MarkFlagRequired("type")
	_ = c.MarkFlagRequired("before")
	_ = c.MarkFlagRequired("after")
}

func decodeValueFile(c codec.Codec, path string, t *types.Type) (*values.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	v, err := c.Decode(data, t)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return v, nil
}

// loadTypeAndTwo loads --type, --before, and --after for the diff/invert/
// apply subcommands, all of which share this trio of flags.
func loadTypeAndTwo(cmd *cobra.Command, c codec.Codec) (t *types.Type, before, after *values.Value, err error) {
	typePath, _ := cmd.Flags().GetString("type")
	beforePath, _ := cmd.Flags().GetString("before")
	afterPath, _ := cmd.Flags().GetString("after")

	typeData, err := os.ReadFile(typePath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", typePath, err)
	}
	plat, err := resolvePlatform()
	if err != nil {
		return nil, nil, nil, err
	}
	rt := loom.New(plat)
	t, err = rt.LoadType(typeData, c)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading type: %w", err)
	}

	before, err = decodeValueFile(c, beforePath, t)
	if err != nil {
		t.Release()
		return nil, nil, nil, err
	}
	after, err = decodeValueFile(c, afterPath, t)
	if err != nil {
		t.Release()
		before.Release()
		return nil, nil, nil, err
	}
	return t, before, after, nil
}

func runPatchDiff(cmd *cobra.Command, _ []string) error {
	c, err := resolveCodec(patchCodecName)
	if err != nil {
		return err
	}
	t, before, after, err := loadTypeAndTwo(cmd, c)
	if err != nil {
		return err
	}
	defer t.Release()
	defer before.Release()
	defer after.Release()

	p := patch.Diff(before, after, t)
	defer p.Release()
	fmt.Fprintln(cmd.OutOrStdout(), dumpPatch(p, 0))
	return nil
}

func runPatchInvert(cmd *cobra.Command, _ []string) error {
	c, err := resolveCodec(patchCodecName)
	if err != nil {
		return err
	}
	t, before, after, err := loadTypeAndTwo(cmd, c)
	if err != nil {
		return err
	}
	defer t.Release()
	defer before.Release()
	defer after.Release()

	p := patch.Diff(before, after, t)
	defer p.Release()
	inv := patch.Invert(p, t)
	defer inv.Release()
	fmt.Fprintln(cmd.OutOrStdout(), dumpPatch(inv, 0))
	return nil
}

func runPatchApply(cmd *cobra.Command, _ []string) error {
	c, err := resolveCodec(patchCodecName)
	if err != nil {
		return err
	}
	outName, _ := cmd.Flags().GetString("output-codec")
	outCodec := c
	if outName != "" {
		outCodec, err = resolveCodec(outName)
		if err != nil {
			return err
		}
	}

	t, before, after, err := loadTypeAndTwo(cmd, c)
	if err != nil {
		return err
	}
	defer t.Release()
	defer before.Release()
	defer after.Release()

	basePath, _ := cmd.Flags().GetString("base")
	base, err := decodeValueFile(c, basePath, t)
	if err != nil {
		return err
	}
	defer base.Release()

	p := patch.Diff(before, after, t)
	defer p.Release()

	result, err := patch.Apply(base, p, t)
	if err != nil {
		return fmt.Errorf("applying patch: %w", err)
	}
	defer result.Release()

	out, err := outCodec.Encode(result, t)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runPatchCompose(cmd *cobra.Command, _ []string) error {
	typePath, _ := cmd.Flags().GetString("type")
	aPath, _ := cmd.Flags().GetString("a")
	bPath, _ := cmd.Flags().GetString("b")
	cPath, _ := cmd.Flags().GetString("c")

	cdc, err := resolveCodec(patchCodecName)
	if err != nil {
		return err
	}
	plat, err := resolvePlatform()
	if err != nil {
		return err
	}
	rt := loom.New(plat)

	typeData, err := os.ReadFile(typePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", typePath, err)
	}
	t, err := rt.LoadType(typeData, cdc)
	if err != nil {
		return fmt.Errorf("loading type: %w", err)
	}
	defer t.Release()

	a, err := decodeValueFile(cdc, aPath, t)
	if err != nil {
		return err
	}
	defer a.Release()
	b, err := decodeValueFile(cdc, bPath, t)
	if err != nil {
		return err
	}
	defer b.Release()
	cVal, err := decodeValueFile(cdc, cPath, t)
	if err != nil {
		return err
	}
	defer cVal.Release()

	p1 := patch.Diff(a, b, t)
	defer p1.Release()
	p2 := patch.Diff(b, cVal, t)
	defer p2.Release()

	composed, err := patch.Compose(p1, p2, t)
	if err != nil {
		return fmt.Errorf("composing patches: %w", err)
	}
	defer composed.Release()
	fmt.Fprintln(cmd.OutOrStdout(), dumpPatch(composed, 0))
	return nil
}

// dumpPatch renders a Patch as an indented human-readable tree. Patch has
// no wire format of its own — diff/invert/compose are read-only
// inspection commands, so a text dump is all printing them needs.
func dumpPatch(p *patch.Patch, depth int) string {
	indent := strings.Repeat("  ", depth)
	switch p.Kind() {
	case patch.KUnchanged:
		return indent + "unchanged"
	case patch.KReplace:
		return fmt.Sprintf("%sreplace: %s -> %s", indent, p.Before().Print(), p.After().Print())
	case patch.KPatch:
		var b strings.Builder
		b.WriteString(indent + "patch:\n")
		for _, op := range p.ArrayOps() {
			fmt.Fprintf(&b, "%s  array-op kind=%d key=%d\n", indent, op.Kind, op.Key)
		}
		for _, op := range p.SetOps() {
			fmt.Fprintf(&b, "%s  set-op kind=%d\n", indent, op.Kind)
		}
		for _, op := range p.DictOps() {
			fmt.Fprintf(&b, "%s  dict-op kind=%d\n", indent, op.Kind)
		}
		for _, f := range p.Fields() {
			fmt.Fprintf(&b, "%s  field %s:\n", indent, f.Name)
			b.WriteString(dumpPatch(f.Patch, depth+2) + "\n")
		}
		if p.CaseName() != "" {
			fmt.Fprintf(&b, "%s  case: %s\n", indent, p.CaseName())
		}
		if vp := p.VariantPatch(); vp != nil {
			b.WriteString(dumpPatch(vp, depth+1) + "\n")
		}
		if rp := p.RefPatch(); rp != nil {
			b.WriteString(dumpPatch(rp, depth+1) + "\n")
		}
		return strings.TrimRight(b.String(), "\n")
	default:
		return fmt.Sprintf("%sunknown patch kind %d", indent, p.Kind())
	}
}
