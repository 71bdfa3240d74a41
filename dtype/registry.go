package dtype

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/hupe1980/bitgo/internal/cache"
)

// DefaultCacheSize bounds the resolution cache. (name, length, scale)
// keys are effectively unbounded when scale varies, so the cache
// evicts least-recently-resolved dtypes past this size.
const DefaultCacheSize = 1024

type dtypeKey struct {
	name   string
	length int
	scale  float64
}

// Registry maps format names to definitions and memoizes resolved
// Dtypes in a bounded LRU. Resolution is read-mostly, additive and
// idempotent, so concurrent use is safe.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*Definition
	cache *cache.LRU[dtypeKey, *Dtype]
}

// NewRegistry returns a registry pre-populated with the built-in
// formats.
func NewRegistry() *Registry {
	r := &Registry{
		defs:  make(map[string]*Definition),
		cache: cache.NewLRU[dtypeKey, *Dtype](DefaultCacheSize),
	}
	for _, reg := range builtins() {
		if err := r.Register(reg.def, reg.aliases...); err != nil {
			panic(err)
		}
	}
	return r
}

// Default is the registry behind the package-level facade. Additional
// formats may be registered on it at startup.
var Default = NewRegistry()

type registration struct {
	def     *Definition
	aliases []string
}

func builtins() []registration {
	var regs []registration
	regs = append(regs, integerDefs()...)
	regs = append(regs, floatDefs()...)
	regs = append(regs, minifloatDefs()...)
	regs = append(regs, golombDefs()...)
	regs = append(regs, textDefs()...)
	return regs
}

// Register adds a format definition under its name and any aliases.
func (r *Registry) Register(def *Definition, aliases ...string) error {
	if def.Name == "" {
		return fmt.Errorf("dtype: definition needs a name")
	}
	if def.VarLen {
		if def.DecodeVar == nil {
			return fmt.Errorf("dtype: variable-length format %q needs a DecodeVar function", def.Name)
		}
	} else if def.Encode == nil || def.Decode == nil {
		return fmt.Errorf("dtype: format %q needs Encode and Decode functions", def.Name)
	}
	if def.BitsPerItem < 1 {
		def.BitsPerItem = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{def.Name}, aliases...)
	for _, name := range names {
		if _, exists := r.defs[name]; exists {
			return fmt.Errorf("dtype: format %q already registered", name)
		}
	}
	for _, name := range names {
		r.defs[name] = def
	}
	return nil
}

// Get returns the definition registered under name, following aliases.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns every registered name, aliases included, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve binds a format name to a length (in the format's items;
// 0 = unsized or defaulted) and an optional scale (0 = none). Unknown
// names, disallowed lengths and invalid scales fail distinctly.
func (r *Registry) Resolve(name string, length int, scale float64) (*Dtype, error) {
	key := dtypeKey{name: name, length: length, scale: scale}
	if d, ok := r.cache.Get(key); ok {
		return d, nil
	}

	r.mu.RLock()
	def, ok := r.defs[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &ErrUnknownFormat{Name: name}
	}

	if length < 0 {
		return nil, &ErrLength{Name: name, Length: length, Reason: "length must be positive"}
	}
	if def.VarLen && length != 0 {
		return nil, &ErrLength{Name: name, Length: length, Reason: "format takes no length"}
	}
	if scale != 0 {
		if def.Kind != KindFloat || !(scale > 0) || math.IsInf(scale, 0) {
			return nil, &ErrScale{Name: name, Scale: scale}
		}
	}

	d := &Dtype{def: def, length: length, scale: scale}
	switch {
	case def.VarLen:
	case length == 0:
		// A single allowed length doubles as the default; everything
		// else stays unsized until bound to data.
		if def.Lengths.Single != 0 {
			d.bits = def.Lengths.Single
			d.length = def.Lengths.Single / def.BitsPerItem
		}
	default:
		d.bits = length * def.BitsPerItem
		if !def.Lengths.valid(d.bits) {
			return nil, &ErrLength{Name: name, Length: length, Reason: def.Lengths.describe()}
		}
	}

	r.cache.Set(key, d)
	return d, nil
}

// MustResolve is Resolve, panicking on error. For statically known
// formats.
func (r *Registry) MustResolve(name string, length int, scale float64) *Dtype {
	d, err := r.Resolve(name, length, scale)
	if err != nil {
		panic(err)
	}
	return d
}

// CacheStats returns the resolution cache hit/miss counters.
func (r *Registry) CacheStats() (hits, misses int64) {
	return r.cache.Stats()
}
