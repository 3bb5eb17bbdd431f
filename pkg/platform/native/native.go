// Package native implements pkg/platform.Platform on top of a real
// operating system: os/io for the filesystem and console, math/rand for
// randomness, hash/fnv for hashing, and google/uuid for UUID generation.
package native

import (
	"bufio"
	"hash/fnv"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loomlang/loom/pkg/platform"
)

// NativePlatform is the default Platform for a command-line host.
type NativePlatform struct {
	fs      *NativeFileSystem
	console *NativeConsole
	random  *NativeRandom
	hash    *NativeHash
	uuidGen *NativeUUID
}

// NewNativePlatform constructs a Platform backed by the real OS, stdio,
// and standard library randomness/hashing.
func NewNativePlatform() platform.Platform {
	return &NativePlatform{
		fs:      &NativeFileSystem{},
		console: NewNativeConsole(),
		random:  &NativeRandom{src: rand.New(rand.NewSource(time.Now().UnixNano()))},
		hash:    &NativeHash{},
		uuidGen: &NativeUUID{},
	}
}

func (p *NativePlatform) FS() platform.FileSystem      { return p.fs }
func (p *NativePlatform) Console() platform.Console    { return p.console }
func (p *NativePlatform) Random() platform.Random      { return p.random }
func (p *NativePlatform) Hash() platform.Hash          { return p.hash }
func (p *NativePlatform) UUID() platform.UUIDGenerator { return p.uuidGen }
func (p *NativePlatform) Now() time.Time               { return time.Now() }
func (p *NativePlatform) Sleep(d time.Duration)        { time.Sleep(d) }

// NativeFileSystem implements platform.FileSystem over os/io.
type NativeFileSystem struct{}

func (NativeFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (NativeFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}

func (NativeFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (NativeFileSystem) Delete(path string) error {
	return os.Remove(path)
}

func (NativeFileSystem) ListDir(path string) ([]platform.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	out := make([]platform.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, platform.FileInfo{
			Name:  e.Name(),
			Size:  info.Size(),
			IsDir: e.IsDir(),
		})
	}
	return out, nil
}

// NativeConsole implements platform.Console over configurable input/output
// streams, defaulting to os.Stdin/os.Stdout. Tests construct one directly
// with output/input swapped for a buffer or pipe.
type NativeConsole struct {
	output io.Writer
	input  io.Reader
}

// NewNativeConsole constructs a console wired to the real stdio streams.
func NewNativeConsole() *NativeConsole {
	return &NativeConsole{output: os.Stdout, input: os.Stdin}
}

func (c *NativeConsole) Print(s string) {
	io.WriteString(c.output, s)
}

func (c *NativeConsole) PrintLn(s string) {
	io.WriteString(c.output, s+"\n")
}

func (c *NativeConsole) ReadLine() (string, error) {
	reader := bufio.NewReader(c.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// NativeRandom implements platform.Random over math/rand.
type NativeRandom struct {
	src *rand.Rand
}

func (r *NativeRandom) Int63() int64     { return r.src.Int63() }
func (r *NativeRandom) Float64() float64 { return r.src.Float64() }

// NativeHash implements platform.Hash over hash/fnv's 64-bit variant — no
// third-party non-cryptographic hash library appears anywhere in the
// example pack, and FNV-1a is the standard library's documented general-
// purpose hash for exactly this "stable digest of a blob" use case.
type NativeHash struct{}

func (NativeHash) Sum64(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}

// NativeUUID implements platform.UUIDGenerator over google/uuid.
type NativeUUID struct{}

func (NativeUUID) NewV4() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
