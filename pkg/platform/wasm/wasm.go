// Package wasm implements pkg/platform.Platform for a browser/WASM host:
// an in-memory virtual filesystem (no os package available under
// js/wasm), a console backed by a caller-supplied writer and a
// callback-driven line reader (standing in for a JS-side prompt), a
// deterministically seeded math/rand random source, and a clock backed by
// time.Now/time.Sleep.
package wasm

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/loomlang/loom/pkg/platform"
)

// WASMPlatform is the Platform for a browser host.
type WASMPlatform struct {
	fs      *WASMFileSystem
	console *WASMConsole
	random  *WASMRandom
	hash    *WASMHash
	uuidGen *WASMUUID
}

// NewWASMPlatform constructs a Platform with a fresh empty virtual
// filesystem and a console writing to nowhere until wired up.
func NewWASMPlatform() *WASMPlatform {
	return &WASMPlatform{
		fs:      NewWASMFileSystem(),
		console: NewWASMConsole(),
		random:  &WASMRandom{src: rand.New(rand.NewSource(1))},
		hash:    &WASMHash{},
		uuidGen: &WASMUUID{},
	}
}

// NewWASMPlatformWithIO constructs a Platform whose console writes to w.
func NewWASMPlatformWithIO(w io.Writer) *WASMPlatform {
	p := NewWASMPlatform()
	p.console = NewWASMConsoleWithOutput(w)
	return p
}

func (p *WASMPlatform) FS() platform.FileSystem      { return p.fs }
func (p *WASMPlatform) Console() platform.Console    { return p.console }
func (p *WASMPlatform) Random() platform.Random      { return p.random }
func (p *WASMPlatform) Hash() platform.Hash          { return p.hash }
func (p *WASMPlatform) UUID() platform.UUIDGenerator { return p.uuidGen }
func (p *WASMPlatform) Now() time.Time               { return time.Now() }
func (p *WASMPlatform) Sleep(d time.Duration)        { time.Sleep(d) }

// WASMFileSystem is an in-memory virtual filesystem keyed by absolute,
// slash-separated path. Directories are implicit: any path with at least
// one file beneath it is a directory for ListDir's purposes, the same
// convention `internal/interp`'s platform-neutral code would need since
// there is no real inode to stat under js/wasm.
type WASMFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewWASMFileSystem() *WASMFileSystem {
	return &WASMFileSystem{files: make(map[string][]byte)}
}

func (fs *WASMFileSystem) ReadFile(p string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	data, ok := fs.files[p]
	if !ok {
		return nil, fmt.Errorf("wasm: file not found: %s", p)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (fs *WASMFileSystem) WriteFile(p string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	fs.files[p] = cp
	return nil
}

func (fs *WASMFileSystem) Exists(p string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if _, ok := fs.files[p]; ok {
		return true
	}
	return fs.hasChildrenLocked(p)
}

func (fs *WASMFileSystem) Delete(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[p]; !ok {
		return fmt.Errorf("wasm: file not found: %s", p)
	}
	delete(fs.files, p)
	return nil
}

func (fs *WASMFileSystem) hasChildrenLocked(dir string) bool {
	prefix := strings.TrimSuffix(dir, "/") + "/"
	for name := range fs.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (fs *WASMFileSystem) ListDir(dir string) ([]platform.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	prefix := strings.TrimSuffix(dir, "/") + "/"
	if prefix == "//" {
		prefix = "/"
	}

	seen := make(map[string]platform.FileInfo)
	for name, data := range fs.files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if rest == "" {
			continue
		}
		first, more, isDir := rest, "", false
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			first, more, isDir = rest[:idx], rest[idx+1:], true
		}
		_ = more
		if existing, ok := seen[first]; ok {
			if isDir && !existing.IsDir {
				existing.IsDir = true
				seen[first] = existing
			}
			continue
		}
		info := platform.FileInfo{Name: first, IsDir: isDir}
		if !isDir {
			info.Size = int64(len(data))
		}
		seen[first] = info
	}

	out := make([]platform.FileInfo, 0, len(seen))
	for _, info := range seen {
		out = append(out, info)
	}
	return out, nil
}

// WASMConsole implements platform.Console with a caller-supplied output
// writer and an injectable line-read callback, standing in for whatever
// JS-side prompt a real browser host would wire up.
type WASMConsole struct {
	output           io.Writer
	readLineCallback func() (string, error)
}

func NewWASMConsole() *WASMConsole {
	return &WASMConsole{output: io.Discard}
}

func NewWASMConsoleWithOutput(w io.Writer) *WASMConsole {
	return &WASMConsole{output: w}
}

func (c *WASMConsole) Print(s string) {
	io.WriteString(c.output, s)
}

func (c *WASMConsole) PrintLn(s string) {
	io.WriteString(c.output, s+"\n")
}

func (c *WASMConsole) ReadLine() (string, error) {
	if c.readLineCallback == nil {
		return "", fmt.Errorf("wasm: no input source configured")
	}
	return c.readLineCallback()
}

// WASMRandom implements platform.Random over math/rand, seeded
// deterministically since there is no OS entropy source under js/wasm
// without a JS crypto shim, which is out of scope here.
type WASMRandom struct {
	mu  sync.Mutex
	src *rand.Rand
}

func (r *WASMRandom) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Int63()
}

func (r *WASMRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.src.Float64()
}

// WASMHash mirrors native.NativeHash's FNV-1a choice; the algorithm itself
// has no platform dependency, so both implementations share it.
type WASMHash struct{}

func (WASMHash) Sum64(data []byte) uint64 {
	var h uint64 = 14695981039346656037
	for _, b := range data {
		h ^= uint64(b)
		h *= 1099511628211
	}
	return h
}

// WASMUUID implements platform.UUIDGenerator over google/uuid, the same
// library native.NativeUUID uses — UUID generation has no platform
// dependency either.
type WASMUUID struct{}

func (WASMUUID) NewV4() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
