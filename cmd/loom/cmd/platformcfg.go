package cmd

import (
	"fmt"

	"github.com/loomlang/loom/internal/codec"
	"github.com/loomlang/loom/pkg/platform"
	"github.com/loomlang/loom/pkg/platform/native"
	"github.com/loomlang/loom/pkg/platform/wasm"
)

// resolveCodec picks the codec a subcommand should use: the --codec flag
// if given, else the config file's default_codec, else text.
func resolveCodec(flagValue string) (codec.Codec, error) {
	name := flagValue
	if name == "" {
		name = config.DefaultCodec
	}
	if name == "" {
		name = "text"
	}
	c, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q (want json, binary, or text)", name)
	}
	return c, nil
}

// resolvePlatform constructs the Platform named by the config file, for
// subcommands (run) whose IR might call a registered platform built-in.
func resolvePlatform() (platform.Platform, error) {
	switch config.Platform {
	case "", "native":
		return native.NewNativePlatform(), nil
	case "wasm":
		return wasm.NewWASMPlatform(), nil
	default:
		return nil, fmt.Errorf("unknown platform %q (want native or wasm)", config.Platform)
	}
}
