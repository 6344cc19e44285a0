package memproc

import (
	"fmt"
	"os"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// processImpl is the narrow, unexported surface a platform backend must
// provide. Process wraps it behind a single cross-platform value type,
// the Go stand-in for the C++ pimpl: Process itself never changes shape
// between platforms, only the processImpl behind it does (see
// process_linux.go / process_windows.go).
type processImpl interface {
	readToBuf(addr uintptr, buf []byte) bool
	regions() []Region
	stillAlive() bool
	reset()
}

// Process is a platform-portable handle to another running process. The
// zero value is empty and safe to use; every read/liveness method on an
// empty Process returns the documented absent/false result rather than
// panicking.
type Process struct {
	abstractProcess
	impl processImpl
	log  *logger.Logger
}

var _ Reader = (*Process)(nil)
var _ ProcessLifecycle = (*Process)(nil)

func emptyLogTag() string {
	return coloransi.Color(coloransi.Red, coloransi.ColorOrange, "process-not-open")
}

func openLogTag(pid int) string {
	return coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid))
}

func newEmptyProcess() *Process {
	p := &Process{log: logger.NewLogger(emptyLogTag())}
	p.abstractProcess.init()
	return p
}

// NewEmpty returns a Process holding no target, equivalent to the zero
// value but with its interrupt channel and logger initialized. Useful
// as the starting handle for a reopen loop (see package daemon).
func NewEmpty() *Process {
	return newEmptyProcess()
}

// OpenCurrentProcess opens the calling process. Intended for self-tests;
// must succeed on any supported platform.
func OpenCurrentProcess() *Process {
	p, ok := OpenPID(os.Getpid())
	if !ok {
		// Opening the current process is specified to never fail.
		panic("memproc: OpenCurrentProcess failed unexpectedly")
	}
	return p
}

// OpenPID opens the process with the given PID, capturing whatever
// restart discriminator the platform exposes. Returns an empty Process
// (ok == false) on failure.
func OpenPID(pid int) (*Process, bool) {
	impl, ok := openImplByPID(pid)
	if !ok {
		return newEmptyProcess(), false
	}
	p := &Process{impl: impl, log: logger.NewLogger(openLogTag(pid))}
	p.abstractProcess.init()
	p.allocateCacheHint()
	return p, true
}

// OpenByName enumerates processes and opens the first whose executable
// basename matches name. "First" is platform-defined and unordered;
// callers needing disambiguation should use package procfind instead.
func OpenByName(name string) (*Process, bool) {
	pid, ok := findPIDByName(name)
	if !ok {
		return newEmptyProcess(), false
	}
	return OpenPID(pid)
}

// Empty reports whether this Process holds no process.
func (p *Process) Empty() bool {
	return p.impl == nil
}

// Reset releases the held process, returning to the empty state.
func (p *Process) Reset() {
	if p.impl != nil {
		p.impl.reset()
		p.impl = nil
	}
	p.clearCacheHint()
	p.log = logger.NewLogger(emptyLogTag())
}

// Close is an alias for Reset that also interrupts any waiters, for use
// as a deterministic teardown point (defer p.Close()).
func (p *Process) Close() {
	p.InterruptSynchronize()
	p.Reset()
}

// Adopt transfers ownership of other's handle and cache hint into p,
// the explicit move-assignment stand-in described in SPEC_FULL.md
// section 4.4: other's waiters are interrupted and other is left empty.
func (p *Process) Adopt(other *Process) {
	if p.impl != nil {
		p.impl.reset()
	}
	p.abstractProcess.adopt(&other.abstractProcess)
	p.impl = other.impl
	other.impl = nil
	p.log = other.log
}

func (p *Process) ReadToBuf(addr uintptr, buf []byte) bool {
	if p.impl == nil {
		return false
	}
	return p.impl.readToBuf(addr, buf)
}

func (p *Process) Regions() []Region {
	if p.impl == nil {
		return nil
	}
	return p.impl.regions()
}

func (p *Process) StillAlive() bool {
	if p.impl == nil {
		return false
	}
	return p.impl.stillAlive()
}

func (p *Process) WaitUntilExit() {
	p.waitUntilExit(p.StillAlive)
}
