// Package wazeroimpl owns the wazero runtime and the guest code it runs.
// Code is addressed by checksum. Compiled modules live in a bounded LRU and
// are recompiled from the stored bytes after eviction.
package wazeroimpl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"golang.org/x/sys/unix"

	"github.com/XRPLF/wasmhost/types"
)

// ErrCodeNotFound is returned for a checksum the cache has never stored.
var ErrCodeNotFound = errors.New("code not found")

// Cache manages a wazero runtime, compiled modules, and on-disk code storage.
type Cache struct {
	runtime  wazero.Runtime
	compiled wazero.CompilationCache
	modules  *lru.Cache[types.Checksum, wazero.CompiledModule]
	validate Validator

	mu sync.RWMutex
	// raw stores the original wasm bytes
	raw map[types.Checksum][]byte
	// lockfile holds the exclusive lock on baseDir
	lockfile *os.File
	baseDir  string
}

// NewCache creates a runtime limited to cfg's memory pages. With a non-empty
// baseDir, code is persisted under baseDir/code, compiled artifacts under
// baseDir/compiled, and the directory is locked for the life of the cache.
func NewCache(ctx context.Context, cfg types.HostConfig, baseDir string) (*Cache, error) {
	c := &Cache{
		raw:     make(map[types.Checksum][]byte),
		baseDir: baseDir,
	}
	rc := wazero.NewRuntimeConfig().
		WithMemoryLimitPages(cfg.MemoryPages()).
		WithCloseOnContextDone(true)
	if baseDir != "" {
		if err := c.openDir(); err != nil {
			return nil, err
		}
		cc, err := wazero.NewCompilationCacheWithDir(filepath.Join(baseDir, "compiled"))
		if err != nil {
			c.lockfile.Close()
			return nil, fmt.Errorf("could not open compilation cache: %w", err)
		}
		c.compiled = cc
		rc = rc.WithCompilationCache(cc)
	}
	size := cfg.CompileCacheSize
	if size <= 0 {
		size = 1
	}
	modules, err := lru.NewWithEvict(size, c.evicted)
	if err != nil {
		c.release(ctx)
		return nil, err
	}
	c.modules = modules
	c.runtime = wazero.NewRuntimeWithConfig(ctx, rc)
	return c, nil
}

// evicted closes a module once no instantiation holds the read lock. It may
// run with the lock already held, so the close happens on its own goroutine.
func (c *Cache) evicted(_ types.Checksum, m wazero.CompiledModule) {
	go func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		_ = m.Close(context.Background())
	}()
}

func (c *Cache) openDir() error {
	base := c.baseDir
	if strings.Contains(base, ":") && runtime.GOOS != "windows" {
		return fmt.Errorf("invalid base directory: %s", base)
	}
	codeDir := filepath.Join(base, "code")
	if err := os.MkdirAll(codeDir, 0o755); err != nil {
		return fmt.Errorf("could not create code directory: %w", err)
	}
	lf, err := os.OpenFile(filepath.Join(base, "exclusive.lock"), os.O_WRONLY|os.O_CREATE, 0o666)
	if err != nil {
		return fmt.Errorf("could not open exclusive.lock: %w", err)
	}
	if err := unix.Flock(int(lf.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		lf.Close()
		return fmt.Errorf("could not lock exclusive.lock; is another host running? %w", err)
	}
	c.lockfile = lf

	files, err := filepath.Glob(filepath.Join(codeDir, "*.wasm"))
	if err != nil {
		lf.Close()
		return fmt.Errorf("failed scanning code directory: %w", err)
	}
	for _, p := range files {
		sum, err := types.ParseChecksum(strings.TrimSuffix(filepath.Base(p), ".wasm"))
		if err != nil {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			lf.Close()
			return fmt.Errorf("failed reading existing code %s: %w", p, err)
		}
		if types.ComputeChecksum(data) != sum {
			lf.Close()
			return fmt.Errorf("stored code %s does not match its checksum", p)
		}
		c.raw[sum] = data
	}
	return nil
}

// SetValidator installs a check run on every newly stored module.
func (c *Cache) SetValidator(v Validator) {
	c.validate = v
}

// Runtime is the runtime every module is compiled for.
func (c *Cache) Runtime() wazero.Runtime {
	return c.runtime
}

// Store validates and compiles wasm, then keeps it under its checksum.
// Storing the same code twice is a no-op.
func (c *Cache) Store(ctx context.Context, wasm []byte) (types.Checksum, error) {
	sum := types.ComputeChecksum(wasm)
	c.mu.RLock()
	_, known := c.raw[sum]
	c.mu.RUnlock()
	if known {
		return sum, nil
	}

	mod, err := c.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return sum, fmt.Errorf("compile: %w", err)
	}
	if c.validate != nil {
		if err := c.validate(mod); err != nil {
			_ = mod.Close(ctx)
			return sum, err
		}
	}
	if c.baseDir != "" {
		path := filepath.Join(c.baseDir, "code", sum.String()+".wasm")
		if err := os.WriteFile(path, wasm, 0o644); err != nil {
			_ = mod.Close(ctx)
			return sum, fmt.Errorf("failed to write wasm file: %w", err)
		}
	}
	c.insert(ctx, sum, wasm, mod)
	return sum, nil
}

// insert records wasm and its compiled module unless a concurrent Store of
// the same code got there first, in which case mod is closed. It reports
// whether mod was kept.
func (c *Cache) insert(ctx context.Context, sum types.Checksum, wasm []byte, mod wazero.CompiledModule) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.raw[sum]; ok {
		_ = mod.Close(ctx)
		return false
	}
	c.raw[sum] = append([]byte(nil), wasm...)
	c.modules.Add(sum, mod)
	return true
}

// Instantiate compiles sum if it was evicted and instantiates it. The read
// lock keeps an evicted module open until instantiation completes.
func (c *Cache) Instantiate(ctx context.Context, sum types.Checksum, cfg wazero.ModuleConfig) (api.Module, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mod, ok := c.modules.Get(sum)
	if !ok {
		wasm, ok := c.raw[sum]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, sum)
		}
		var err error
		if mod, err = c.runtime.CompileModule(ctx, wasm); err != nil {
			return nil, fmt.Errorf("compile: %w", err)
		}
		c.modules.Add(sum, mod)
	}
	return c.runtime.InstantiateModule(ctx, mod, cfg)
}

// Code returns a copy of the stored wasm bytes.
func (c *Cache) Code(sum types.Checksum) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.raw[sum]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCodeNotFound, sum)
	}
	return append([]byte(nil), data...), nil
}

// Checksums lists the stored code.
func (c *Cache) Checksums() []types.Checksum {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.Checksum, 0, len(c.raw))
	for sum := range c.raw {
		out = append(out, sum)
	}
	return out
}

// Remove drops stored code and its compiled module.
func (c *Cache) Remove(sum types.Checksum) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.raw[sum]; !ok {
		return fmt.Errorf("%w: %s", ErrCodeNotFound, sum)
	}
	if c.baseDir != "" {
		path := filepath.Join(c.baseDir, "code", sum.String()+".wasm")
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove wasm file: %w", err)
		}
	}
	delete(c.raw, sum)
	c.modules.Remove(sum)
	return nil
}

// Close releases the runtime and the directory lock.
func (c *Cache) Close(ctx context.Context) error {
	var err error
	if c.runtime != nil {
		err = c.runtime.Close(ctx)
	}
	c.release(ctx)
	return err
}

func (c *Cache) release(ctx context.Context) {
	if c.compiled != nil {
		_ = c.compiled.Close(ctx)
	}
	if c.lockfile != nil {
		c.lockfile.Close()
	}
}
