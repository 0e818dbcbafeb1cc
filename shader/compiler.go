package shader

import (
	"log/slog"

	"github.com/gogpu/meshbuf"
	"github.com/gogpu/meshbuf/internal/cache"
	"github.com/gogpu/meshbuf/layout"
)

// DefaultCacheSize is the number of compiled modules a Compiler keeps.
const DefaultCacheSize = 64

// Compiler compiles layouts to SPIR-V and caches the result per
// layout key. Meshes sharing a layout share one module.
//
// Compiler is safe for concurrent use.
type Compiler struct {
	cache *cache.Cache[uint64, []byte]
}

// NewCompiler creates a compiler keeping at most size modules
// (DefaultCacheSize if size <= 0).
func NewCompiler(size int) *Compiler {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Compiler{cache: cache.New[uint64, []byte](size)}
}

// Compile returns the SPIR-V module for l, compiling it on first use.
// The returned slice is shared and must not be modified.
func (c *Compiler) Compile(l layout.Layout) ([]byte, error) {
	key := l.Key()
	spirv, hit, err := c.cache.GetOrCreate(key, func() ([]byte, error) {
		return Compile(l)
	})
	if err != nil {
		return nil, err
	}
	meshbuf.Logger().Debug("shader: vertex stage",
		slog.String("layout", l.String()),
		slog.Bool("cached", hit),
		slog.Int("bytes", len(spirv)))
	return spirv, nil
}

// Lookup returns the cached module for l without compiling.
func (c *Compiler) Lookup(l layout.Layout) ([]byte, bool) {
	return c.cache.Get(l.Key())
}

// Preload stores a module compiled elsewhere for l, replacing any cached
// one. Later Compile calls for layouts with the same key return it.
func (c *Compiler) Preload(l layout.Layout, spirv []byte) error {
	if err := checkSPIRV(spirv); err != nil {
		return err
	}
	c.cache.Set(l.Key(), spirv)
	return nil
}

// Forget drops the cached module for l and reports whether one existed.
func (c *Compiler) Forget(l layout.Layout) bool {
	return c.cache.Delete(l.Key())
}

// Reset drops every cached module. Hit and miss counts are kept.
func (c *Compiler) Reset() {
	c.cache.Clear()
}

// Stats returns the hit and miss counts of the module cache.
func (c *Compiler) Stats() (hits, misses uint64) {
	s := c.cache.Stats()
	return s.Hits, s.Misses
}

// Len returns the number of cached modules.
func (c *Compiler) Len() int {
	return c.cache.Len()
}
