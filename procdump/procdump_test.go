package procdump

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memscan/memproc"
)

type fakeReader struct {
	regions []memproc.Region
	data    map[uintptr][]byte
}

func (f *fakeReader) Regions() []memproc.Region { return f.regions }

func (f *fakeReader) ReadToBuf(addr uintptr, buf []byte) bool {
	for _, r := range f.regions {
		if addr < r.Base || addr+uintptr(len(buf)) > r.Base+r.Size {
			continue
		}
		src := f.data[r.Base]
		off := addr - r.Base
		if off+uintptr(len(buf)) > uintptr(len(src)) {
			return false
		}
		copy(buf, src[off:off+uintptr(len(buf))])
		return true
	}
	return false
}

func TestSaveThenLoadRoundTripsReadableRegions(t *testing.T) {
	dir := t.TempDir()

	regionA := memproc.Region{Base: 0x1000, Size: 16}
	regionB := memproc.Region{Base: 0x2000, Size: 8}
	reader := &fakeReader{
		regions: []memproc.Region{regionA, regionB},
		data: map[uintptr][]byte{
			regionA.Base: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			regionB.Base: {0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff, 0x11, 0x22},
		},
	}

	meta := Metadata{PID: 4242, Name: "test-target"}
	require.NoError(t, Save(reader, meta, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded.Metadata)

	require.ElementsMatch(t, reader.Regions(), loaded.Regions())

	for _, r := range reader.Regions() {
		want := make([]byte, r.Size)
		require.True(t, reader.ReadToBuf(r.Base, want))

		got := make([]byte, r.Size)
		require.True(t, loaded.ReadToBuf(r.Base, got))
		assert.Equal(t, want, got)
	}
}

func TestSaveSkipsOversizedRegionsAndLoadFailsToReadThem(t *testing.T) {
	dir := t.TempDir()

	small := memproc.Region{Base: 0x1000, Size: 4}
	huge := memproc.Region{Base: 0x2000, Size: maxRegionBytes + 1}
	reader := &fakeReader{
		regions: []memproc.Region{small, huge},
		data: map[uintptr][]byte{
			small.Base: {1, 2, 3, 4},
		},
	}

	require.NoError(t, Save(reader, Metadata{}, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, loaded.Regions(), 2)

	buf := make([]byte, 4)
	assert.True(t, loaded.ReadToBuf(small.Base, buf))
	assert.False(t, loaded.ReadToBuf(huge.Base, make([]byte, 1)))
}

func TestReadToBufFailsOutsideAnyRegion(t *testing.T) {
	dir := t.TempDir()
	reader := &fakeReader{
		regions: []memproc.Region{{Base: 0x1000, Size: 4}},
		data:    map[uintptr][]byte{0x1000: {1, 2, 3, 4}},
	}
	require.NoError(t, Save(reader, Metadata{}, dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, loaded.ReadToBuf(0x9000, make([]byte, 1)))
}
