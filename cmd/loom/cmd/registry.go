package cmd

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/loomlang/loom/internal/registry"
)

var registryListLocale string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the built-in and platform capability registry",
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered built-in and platform capability names",
	Long: `list constructs a Registry, installs the demo built-ins
(registry.RegisterDemoBuiltins), and prints the registered built-in and
platform names in natural sort order — the same order a human scanning
the names would expect (compare_text_2 before compare_text_10), rather
than plain lexicographic order.`,
	RunE: runRegistryList,
}

func init() {
	registryListCmd.Flags().StringVar(&registryListLocale, "locale", "en", "locale passed to the demo built-ins")
	registryCmd.AddCommand(registryListCmd)
	rootCmd.AddCommand(registryCmd)
}

func runRegistryList(cmd *cobra.Command, _ []string) error {
	reg := registry.New()
	registry.RegisterDemoBuiltins(reg, registryListLocale)

	builtins := reg.BuiltinNames()
	sort.Sort(natural.StringSlice(builtins))
	platforms := reg.PlatformNames()
	sort.Sort(natural.StringSlice(platforms))

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "built-ins:")
	for _, name := range builtins {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintln(out, "platform capabilities:")
	for _, name := range platforms {
		fmt.Fprintf(out, "  %s\n", name)
	}
	return nil
}
