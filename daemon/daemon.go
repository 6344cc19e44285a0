// Package daemon provides SingleProcessDaemon, a background reopen-by-name
// proxy for memproc.Process: it keeps retrying to open a named target and
// exposes the same reader/lifecycle capability set, so a caller can treat
// "the target isn't running yet" and "the target restarted" the same way
// it treats "the target is running".
package daemon

import (
	"sync"
	"time"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"

	"memscan/memproc"
)

const pollInterval = 100 * time.Millisecond

// SingleProcessDaemon polls for a process by name, forwarding reads to
// whichever instance is currently open. Forwarded reads are serialized
// behind the same mutex the reopen loop uses, trading a small amount of
// read latency for a guarantee that a read never races a reopen mid-call.
type SingleProcessDaemon struct {
	mu          sync.Mutex
	desiredName string
	process     *memproc.Process

	exitOnce sync.Once
	exit     chan struct{}
	done     chan struct{}

	log *logger.Logger
}

var _ memproc.Reader = (*SingleProcessDaemon)(nil)
var _ memproc.ProcessLifecycle = (*SingleProcessDaemon)(nil)

// New starts a daemon targeting desiredName immediately; pass "" to start
// idle (see SetProcessName).
func New(desiredName string) *SingleProcessDaemon {
	d := &SingleProcessDaemon{
		desiredName: desiredName,
		process:     memproc.NewEmpty(),
		exit:        make(chan struct{}),
		done:        make(chan struct{}),
		log:         logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "single-process-daemon")),
	}
	go d.pollingLoop()
	return d
}

// Close interrupts any blocked waiter, stops the reopen loop, and waits
// for it to exit.
func (d *SingleProcessDaemon) Close() {
	d.exitOnce.Do(func() { close(d.exit) })

	d.mu.Lock()
	p := d.process
	d.mu.Unlock()
	p.InterruptSynchronize()

	<-d.done
}

func (d *SingleProcessDaemon) pollingLoop() {
	defer close(d.done)
	for {
		d.tryOpenAndWait()
		select {
		case <-d.exit:
			return
		case <-time.After(pollInterval):
		}
	}
}

// tryOpenAndWait opens the current desired name, installs it, and blocks
// until it exits (or is interrupted). A blank desired name is a no-op:
// the previously installed process, if any, is left untouched.
func (d *SingleProcessDaemon) tryOpenAndWait() {
	d.mu.Lock()
	name := d.desiredName
	if name == "" {
		d.mu.Unlock()
		return
	}
	select {
	case <-d.exit:
		d.mu.Unlock()
		return
	default:
	}
	p, ok := memproc.OpenByName(name)
	if ok {
		d.log.Infoln("opened", name)
	}
	d.process = p
	d.mu.Unlock()

	p.WaitUntilExit()
}

// SetProcessName changes the target name. Reentrant: safe to call from
// any goroutine at any time, including concurrently with itself.
func (d *SingleProcessDaemon) SetProcessName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.desiredName = name
}

func (d *SingleProcessDaemon) StillAlive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.process.StillAlive()
}

func (d *SingleProcessDaemon) ReadToBuf(addr uintptr, buf []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.process.ReadToBuf(addr, buf)
}

func (d *SingleProcessDaemon) Regions() []memproc.Region {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.process.Regions()
}

func (d *SingleProcessDaemon) CacheHint() memproc.CacheHint {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.process.CacheHint()
}

func (d *SingleProcessDaemon) WaitUntilExit() {
	d.mu.Lock()
	p := d.process
	d.mu.Unlock()
	p.WaitUntilExit()
}

func (d *SingleProcessDaemon) InterruptSynchronize() {
	d.mu.Lock()
	p := d.process
	d.mu.Unlock()
	p.InterruptSynchronize()
}
