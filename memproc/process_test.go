package memproc

import (
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCurrentProcessTwiceYieldsDistinctHints(t *testing.T) {
	p1 := OpenCurrentProcess()
	defer p1.Close()
	p2 := OpenCurrentProcess()
	defer p2.Close()

	assert.True(t, p1.StillAlive())
	assert.True(t, p2.StillAlive())
	assert.NotZero(t, p1.CacheHint())
	assert.NotZero(t, p2.CacheHint())
	assert.NotEqual(t, p1.CacheHint(), p2.CacheHint())
}

func TestEmptyProcessIsNeverAlive(t *testing.T) {
	p, ok := OpenPID(-1)
	require.False(t, ok)
	assert.True(t, p.Empty())
	assert.False(t, p.StillAlive())
	assert.Zero(t, p.CacheHint())
}

func TestResetMakesProcessNotAlive(t *testing.T) {
	p := OpenCurrentProcess()
	require.True(t, p.StillAlive())
	p.Reset()
	assert.False(t, p.StillAlive())
	assert.True(t, p.Empty())
}

func TestReadValueRoundTripsThroughCurrentProcess(t *testing.T) {
	p := OpenCurrentProcess()
	defer p.Close()

	v := 114514
	got, ok := ReadValue[int](p, uintptr(unsafe.Pointer(&v)))
	require.True(t, ok)
	assert.Equal(t, 114514, got)
}

func TestReadPointerRoundTripsThroughCurrentProcess(t *testing.T) {
	p := OpenCurrentProcess()
	defer p.Close()

	x := 7
	q := &x
	got, ok := ReadPointer(p, WidthNative, uintptr(unsafe.Pointer(&q)))
	require.True(t, ok)
	assert.Equal(t, uintptr(unsafe.Pointer(&x)), got)
}

func TestWaitUntilExitUnblocksOnInterrupt(t *testing.T) {
	p := OpenCurrentProcess()
	defer p.Close()

	start := time.Now()
	unblocked := make(chan struct{})
	go func() {
		p.WaitUntilExit()
		close(unblocked)
	}()

	time.Sleep(500 * time.Millisecond)
	p.InterruptSynchronize()

	select {
	case <-unblocked:
	case <-time.After(33 * time.Millisecond):
		t.Fatal("WaitUntilExit did not unblock promptly after interrupt")
	}
	assert.Less(t, time.Since(start), 533*time.Millisecond)
}

func TestRegionsOfCurrentProcessIsNonEmpty(t *testing.T) {
	p := OpenCurrentProcess()
	defer p.Close()

	regions := p.Regions()
	require.NotEmpty(t, regions)
	for _, r := range regions {
		assert.Positive(t, r.Size)
	}
}

func TestAdoptTransfersIdentityAndEmptiesSource(t *testing.T) {
	src := OpenCurrentProcess()
	srcHint := src.CacheHint()

	dst := newEmptyProcess()
	dst.Adopt(src)

	assert.Equal(t, srcHint, dst.CacheHint())
	assert.True(t, dst.StillAlive())
	assert.Zero(t, src.CacheHint())
	assert.True(t, src.Empty())
}
