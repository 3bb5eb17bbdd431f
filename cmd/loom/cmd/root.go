package cmd

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose    bool
	configPath string
	config     hostConfig
)

// hostConfig is the shape of the optional --config YAML file: where the
// CLI's virtual working directory lives, which platform capability set to
// construct (native is the only one a CLI host can meaningfully use; wasm
// exists for the browser embedding, not this binary, but the field is
// still honored so a config file written for both hosts parses here too),
// and which wire codec subcommands default to when --codec isn't given.
type hostConfig struct {
	WorkDir      string `yaml:"work_dir"`
	Platform     string `yaml:"platform"`
	DefaultCodec string `yaml:"default_codec"`
	Locale       string `yaml:"locale"`
}

var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Loom host runtime CLI",
	Long: `loom is a command-line harness around pkg/loom's embedding API:
load a reflected type or IR node from an encoded file, invoke it, format
values through the text/JSON/binary codecs, and drive the structural
patch engine (diff/apply/compose/invert) — all against the same
type-directed value model the evaluator runs on.`,
	Version:           Version,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML host config file")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	config = hostConfig{Platform: "native", DefaultCodec: "text"}
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing config %s: %w", configPath, err)
	}
	return nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
