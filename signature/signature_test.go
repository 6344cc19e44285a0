package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memscan/memproc"
	"memscan/pattern"
)

// fakeReader is an in-memory memproc.Reader backed by a single region,
// used to exercise scan/cache logic without touching any real process.
type fakeReader struct {
	region []byte
	hint   memproc.CacheHint
	reads  int
}

func (f *fakeReader) ReadToBuf(addr uintptr, buf []byte) bool {
	f.reads++
	end := int(addr) + len(buf)
	if end > len(f.region) {
		return false
	}
	copy(buf, f.region[addr:end])
	return true
}

func (f *fakeReader) Regions() []memproc.Region {
	return []memproc.Region{{Base: 0, Size: uintptr(len(f.region))}}
}

func (f *fakeReader) CacheHint() memproc.CacheHint {
	return f.hint
}

func TestSignatureScanFindsMatch(t *testing.T) {
	r := &fakeReader{region: []byte{0x00, 0x11, 0x45, 0x14, 0x99}, hint: 1}
	sig := New(pattern.MustCompile("11 45 14"))

	addr, ok := sig.Scan(r)
	require.True(t, ok)
	assert.Equal(t, uintptr(1), addr)
}

func TestSignatureScanNoMatch(t *testing.T) {
	r := &fakeReader{region: []byte{0x00, 0x01, 0x02}, hint: 1}
	sig := New(pattern.MustCompile("ff ff"))

	_, ok := sig.Scan(r)
	assert.False(t, ok)
}

func TestSignatureScanUsesMask(t *testing.T) {
	r := &fakeReader{region: []byte{0x11, 0x99, 0x14}, hint: 1}
	sig := New(pattern.MustCompile("11 ?? 14"))

	addr, ok := sig.Scan(r)
	require.True(t, ok)
	assert.Equal(t, uintptr(0), addr)
}

func TestSignatureScanIsCachedUntilHintChanges(t *testing.T) {
	r := &fakeReader{region: []byte{0x11, 0x45, 0x14}, hint: 1}
	sig := New(pattern.MustCompile("11 45 14"))

	_, ok := sig.Scan(r)
	require.True(t, ok)
	readsAfterFirst := r.reads

	_, ok = sig.Scan(r)
	require.True(t, ok)
	assert.Equal(t, readsAfterFirst, r.reads, "second scan with unchanged hint must not re-read memory")

	r.hint = 2
	r.region = []byte{0x00, 0x00, 0x00}
	addr, ok := sig.Scan(r)
	assert.False(t, ok)
	assert.Zero(t, addr)
	assert.Greater(t, r.reads, readsAfterFirst, "cache-hint change must trigger a fresh scan")
}

func TestDynamicSignatureEmptyPatternNeverMatches(t *testing.T) {
	r := &fakeReader{region: []byte{0x11, 0x45, 0x14}, hint: 1}
	d := NewDynamic(nil)

	_, ok := d.Scan(r)
	assert.False(t, ok)
}

func TestDynamicSignatureResetDropsCache(t *testing.T) {
	r := &fakeReader{region: []byte{0x11, 0x45, 0x14}, hint: 1}
	p1, err := pattern.New("11 45 14")
	require.NoError(t, err)
	d := NewDynamic(p1)

	addr, ok := d.Scan(r)
	require.True(t, ok)
	assert.Equal(t, uintptr(0), addr)

	p2, err := pattern.New("ff")
	require.NoError(t, err)
	d.Reset(p2)

	r.region = []byte{0xff, 0x00}
	addr, ok = d.Scan(r)
	require.True(t, ok)
	assert.Equal(t, uintptr(0), addr)
}
