package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/pkg/loom"
)

var (
	fmtTypePath  string
	fmtInPath    string
	fmtInCodec   string
	fmtOutCodec  string
	fmtWriteTo   string
	fmtPretty    bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "Re-encode an encoded value through a different codec",
	Long: `fmt decodes a value (given its type and an input codec) and re-encodes
it through an output codec, the way dwscript fmt re-renders source through
its printer — except here the "formatting" is a codec change rather than a
layout change, since this module's values carry no concrete surface syntax
of their own.

With --pretty and an output codec of json, the result is indented with
internal/codec's EncodeJSONPretty rather than gjson/sjson's compact form.`,
	RunE: runFmtCmd,
}

func init() {
	fmtCmd.Flags().StringVar(&fmtTypePath, "type", "", "path to the value's encoded type (required)")
	fmtCmd.Flags().StringVar(&fmtInPath, "in", "", "path to the encoded value (defaults to stdin)")
	fmtCmd.Flags().StringVar(&fmtInCodec, "from", "", "codec the input was encoded with")
	fmtCmd.Flags().StringVar(&fmtOutCodec, "to", "", "codec to re-encode into (defaults to --from)")
	fmtCmd.Flags().StringVarP(&fmtWriteTo, "write", "w", "", "write result to this path instead of stdout")
	fmtCmd.Flags().BoolVarP(&fmtPretty, "pretty", "p", false, "pretty-print JSON output")
	_ = fmtCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(fmtCmd)
}

func runFmtCmd(cmd *cobra.Command, _ []string) error {
	inCodec, err := resolveCodec(fmtInCodec)
	if err != nil {
		return err
	}
	outCodec := inCodec
	if fmtOutCodec != "" {
		outCodec, err = resolveCodec(fmtOutCodec)
		if err != nil {
			return err
		}
	}

	typeData, err := os.ReadFile(fmtTypePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", fmtTypePath, err)
	}

	var valueData []byte
	if fmtInPath == "" {
		valueData, err = readAllStdin(cmd)
	} else {
		valueData, err = os.ReadFile(fmtInPath)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	plat, err := resolvePlatform()
	if err != nil {
		return err
	}
	rt := loom.New(plat)

	t, err := rt.LoadType(typeData, inCodec)
	if err != nil {
		return fmt.Errorf("loading type: %w", err)
	}
	defer t.Release()

	v, err := inCodec.Decode(valueData, t)
	if err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}
	defer v.Release()

	var out []byte
	if fmtPretty && outCodec.Name() == "json" {
		pretty, err := codec.EncodeJSONPretty(v, t)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
		out = []byte(pretty)
	} else {
		out, err = outCodec.Encode(v, t)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
	}

	if fmtWriteTo != "" {
		return os.WriteFile(fmtWriteTo, out, 0o644)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func readAllStdin(cmd *cobra.Command) ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	in := cmd.InOrStdin()
	for {
		n, err := in.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	return buf, nil
}
