// Package offsets resolves a fixed pointer-chain path through a target
// process's memory: base address, then a sequence of signed byte
// offsets, dereferencing a pointer after every offset but the last.
package offsets

import "memscan/memproc"

// Chain reads a value of type T reached from a base address by walking a
// fixed sequence of offsets, following a pointer of the given width after
// every offset except the last.
type Chain[T any] struct {
	width   memproc.PtrWidth
	offsets []int64
}

// New builds a Chain. An empty offsets list never resolves.
func New[T any](width memproc.PtrWidth, offsets ...int64) *Chain[T] {
	return &Chain[T]{width: width, offsets: append([]int64(nil), offsets...)}
}

// Read walks the chain starting at base, returning the final value and
// true only if every intermediate pointer dereference and the final read
// succeeded.
func (c *Chain[T]) Read(reader memproc.MemoryReader, base uintptr) (T, bool) {
	var zero T
	if len(c.offsets) == 0 {
		return zero, false
	}

	addr := base
	for i, off := range c.offsets {
		addr = applyOffset(addr, off)
		if i == len(c.offsets)-1 {
			return memproc.ReadValue[T](reader, addr)
		}
		ptr, ok := memproc.ReadPointer(reader, c.width, addr)
		if !ok {
			return zero, false
		}
		addr = ptr
	}
	return zero, false
}

func applyOffset(base uintptr, offset int64) uintptr {
	return uintptr(int64(base) + offset)
}

// PtrChain is a Chain that resolves to a raw pointer-sized address,
// useful as an intermediate step before a typed Chain.
type PtrChain = Chain[uintptr]
