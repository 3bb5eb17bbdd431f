package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomlang/loom/internal/eval"
	"github.com/loomlang/loom/internal/registry"
	"github.com/loomlang/loom/internal/types"
	"github.com/loomlang/loom/internal/values"
	"github.com/loomlang/loom/pkg/loom"
)

var (
	runTypePath   string
	runIRPath     string
	runCodecName  string
	runOutputName string
	runLocale     string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Load a reflected type and IR node and invoke it",
	Long: `run reconstructs a program's static type and IR node from encoded
files, wraps the node in a zero-argument closure, invokes it through a
fresh Runtime, and prints the result.

The IR and type files must have been produced by the same codec named
with --codec (or the host config's default_codec).`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTypePath, "type", "", "path to the encoded result type (required)")
	runCmd.Flags().StringVar(&runIRPath, "ir", "", "path to the encoded IR node (required)")
	runCmd.Flags().StringVar(&runCodecName, "codec", "", "codec the input files were encoded with (json, binary, text)")
	runCmd.Flags().StringVar(&runOutputName, "output-codec", "", "codec to print the result with (defaults to --codec)")
	runCmd.Flags().StringVar(&runLocale, "locale", "", "locale passed to registered demo built-ins")
	_ = runCmd.MarkFlagRequired("type")
	_ = runCmd.MarkFlagRequired("ir")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	inCodec, err := resolveCodec(runCodecName)
	if err != nil {
		return err
	}
	outCodec := inCodec
	if runOutputName != "" {
		outCodec, err = resolveCodec(runOutputName)
		if err != nil {
			return err
		}
	}

	typeData, err := os.ReadFile(runTypePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", runTypePath, err)
	}
	irData, err := os.ReadFile(runIRPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", runIRPath, err)
	}

	plat, err := resolvePlatform()
	if err != nil {
		return err
	}
	rt := loom.New(plat)
	registry.RegisterDemoBuiltins(rt.Registry(), runLocale)

	resultType, err := rt.LoadType(typeData, inCodec)
	if err != nil {
		return fmt.Errorf("loading type: %w", err)
	}
	defer resultType.Release()

	node, err := rt.LoadIR(irData, inCodec, resultType)
	if err != nil {
		return fmt.Errorf("loading IR: %w", err)
	}
	defer node.Release()

	funcType := types.NewFunction(nil, resultType)
	defer funcType.Release()
	closure := eval.NewClosure(rt.RootEnvironment(), nil, node, funcType, false)
	fn := values.NewFunction(closure)
	defer fn.Release()

	result, err := rt.Invoke(fn, nil)
	if err != nil {
		return fmt.Errorf("invoking: %w", err)
	}
	defer result.Release()

	out, err := rt.Encode(result, resultType, outCodec)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
