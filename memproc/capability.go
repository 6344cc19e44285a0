// Package memproc provides the platform-portable process handle: a
// capability set for reading another process's memory, enumerating its
// executable regions, and detecting restart/identity changes, plus the
// concrete cross-platform Process type built on top of it.
package memproc

import "unsafe"

// Region is a half-open, currently executable+readable committed byte
// span in the target address space: [Base, Base+Size).
type Region struct {
	Base uintptr
	Size uintptr
}

// PtrWidth is the width in bytes of a pointer in the target process.
type PtrWidth uintptr

const (
	Width32 PtrWidth = 4
	Width64 PtrWidth = 8
	// WidthNative is only valid when the target is the current
	// process; mixing it with a foreign-width target is undefined.
	WidthNative PtrWidth = PtrWidth(unsafe.Sizeof(uintptr(0)))
)

// CacheHint is an opaque value whose only meaningful operation is
// equality: equal means "same process identity as observed before",
// unequal means the identity changed and any cached derivation must be
// dropped. Zero means "no process held".
type CacheHint int64

// MemoryReader reads bytes from, and enumerates executable regions of,
// a target process. Every method is total: failure is signaled only by
// a false/empty return, never by panic, and every method must be safe
// to call concurrently from multiple goroutines.
type MemoryReader interface {
	// ReadToBuf reads len(buf) bytes starting at addr into buf,
	// returning true only if all bytes were transferred. On false,
	// buf's contents must be treated as garbage.
	ReadToBuf(addr uintptr, buf []byte) bool

	// Regions returns a snapshot of the target's currently
	// executable+readable committed regions, in the platform's
	// natural enumeration order. Returns nil on failure.
	Regions() []Region
}

// CacheHintProvider exposes the current cache hint for a reader.
type CacheHintProvider interface {
	CacheHint() CacheHint
}

// ProcessLifecycle exposes liveness and blocking-wait operations for an
// owned process handle.
type ProcessLifecycle interface {
	// StillAlive reports whether the held process is still the one
	// observed at open time (PID-reuse-safe). False when empty.
	StillAlive() bool
	// WaitUntilExit blocks until the held process exits or
	// InterruptSynchronize is called; returns immediately when empty.
	WaitUntilExit()
	// InterruptSynchronize sets a sticky interrupt flag and wakes all
	// waiters. Idempotent.
	InterruptSynchronize()
}

// Reader combines the two capabilities a Signature or Offsets chain
// needs to operate: memory access plus a cache-invalidation signal.
type Reader interface {
	MemoryReader
	CacheHintProvider
}

// ReadValue reads a trivially-copyable value of type T from addr.
func ReadValue[T any](r MemoryReader, addr uintptr) (T, bool) {
	var v T
	buf := unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
	if !r.ReadToBuf(addr, buf) {
		var zero T
		return zero, false
	}
	return v, true
}

// ReadPointer reads a width-byte pointer at addr and zero-extends it to
// a host-sized address.
func ReadPointer(r MemoryReader, width PtrWidth, addr uintptr) (uintptr, bool) {
	switch width {
	case Width32:
		v, ok := ReadValue[uint32](r, addr)
		return uintptr(v), ok
	case Width64:
		v, ok := ReadValue[uint64](r, addr)
		return uintptr(v), ok
	default:
		v, ok := ReadValue[uintptr](r, addr)
		return v, ok
	}
}

// ReadBytes reads n bytes starting at addr, returning an empty slice on
// failure.
func ReadBytes(r MemoryReader, addr uintptr, n int) []byte {
	buf := make([]byte, n)
	if !r.ReadToBuf(addr, buf) {
		return nil
	}
	return buf
}
