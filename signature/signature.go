// Package signature scans a memory reader's regions for a byte pattern
// and caches the result, invalidating the cache only when the reader's
// cache hint changes.
package signature

import (
	"sync"

	"memscan/memproc"
	"memscan/pattern"
)

// scan performs one full region-by-region search. Reentrant as long as
// pattern and the reader's underlying memory do not change concurrently
// with the call.
func scan(reader memproc.MemoryReader, p pattern.Pattern) (uintptr, bool) {
	if len(p) == 0 {
		return 0, false
	}
	for _, region := range reader.Regions() {
		data := memproc.ReadBytes(reader, region.Base, int(region.Size))
		if len(data) == 0 {
			continue
		}
		for i := 0; i+len(p) <= len(data); i++ {
			if matchAt(data, i, p) {
				return region.Base + uintptr(i), true
			}
		}
	}
	return 0, false
}

func matchAt(data []byte, i int, p pattern.Pattern) bool {
	for j, el := range p {
		if !el.IsMask && data[i+j] != el.Byte {
			return false
		}
	}
	return true
}

// cacheState is the mutable part shared by Signature and DynamicSignature.
type cacheState struct {
	mu        sync.Mutex
	haveHint  bool
	cacheHint memproc.CacheHint
	address   uintptr
	found     bool
}

func (c *cacheState) scan(reader memproc.Reader, p pattern.Pattern) (uintptr, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	hint := reader.CacheHint()
	if c.haveHint && hint == c.cacheHint {
		return c.address, c.found
	}
	c.address, c.found = scan(reader, p)
	if c.found {
		c.cacheHint = hint
		c.haveHint = true
	} else {
		c.haveHint = false
	}
	return c.address, c.found
}

// Signature scans for a fixed, build-time pattern, caching the address
// keyed on the reader's cache hint. The zero value is ready to use.
type Signature struct {
	pattern pattern.Pattern
	state   cacheState
}

// New builds a Signature around a fixed pattern, typically a package-level
// var initialized from pattern.MustCompile.
func New(p pattern.Pattern) *Signature {
	return &Signature{pattern: p}
}

// Scan returns the address of the first match, reusing the cached result
// when reader's cache hint has not changed since the last successful
// scan. Reentrant.
func (s *Signature) Scan(reader memproc.Reader) (uintptr, bool) {
	return s.state.scan(reader, s.pattern)
}

// DynamicSignature scans for a pattern that can change at runtime. The
// zero value holds an empty pattern and always reports no match until a
// pattern is installed via Reset.
type DynamicSignature struct {
	mu      sync.Mutex
	pattern pattern.Pattern
	state   cacheState
}

// NewDynamic builds a DynamicSignature around an initial dynamic pattern.
func NewDynamic(p *pattern.DynamicPattern) *DynamicSignature {
	d := &DynamicSignature{}
	if p != nil {
		d.pattern = append(pattern.Pattern(nil), p.Elements()...)
	}
	return d
}

// Reset installs a new pattern, dropping any cached address: subsequent
// scans run fresh because the pattern itself, not just the reader, has
// changed.
func (d *DynamicSignature) Reset(p *pattern.DynamicPattern) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pattern = nil
	if p != nil {
		d.pattern = append(pattern.Pattern(nil), p.Elements()...)
	}
	d.state.mu.Lock()
	d.state.haveHint = false
	d.state.address = 0
	d.state.found = false
	d.state.mu.Unlock()
}

// Scan returns the address of the first match of the currently installed
// pattern, or (0, false) when the pattern is empty.
func (d *DynamicSignature) Scan(reader memproc.Reader) (uintptr, bool) {
	d.mu.Lock()
	p := d.pattern
	d.mu.Unlock()
	if len(p) == 0 {
		return 0, false
	}
	return d.state.scan(reader, p)
}
