// Command loom is a thin Cobra-based harness demonstrating pkg/loom's
// embedding API end to end: loading a reflected type and IR node from
// encoded files, invoking the result, formatting values, and exercising
// the patch engine from the command line. It is ambient tooling alongside
// the host API, not part of it.
package main

import (
	"fmt"
	"os"

	"github.com/loomlang/loom/cmd/loom/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
