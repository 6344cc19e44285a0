package hexdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"memscan/memproc"
)

func TestDumpBytesProducesOneLinePerSixteenBytes(t *testing.T) {
	data := make([]byte, 32)
	out := DumpBytes(data)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
}

func TestDumpWithOffsetShowsStartingAddress(t *testing.T) {
	out := DumpWithOffset([]byte{0x01, 0x02}, 0x1000)
	assert.Contains(t, out, "00001000")
}

func TestHexdumpBasicFlagsPointerInsideRegion(t *testing.T) {
	data := make([]byte, 8)
	data[0], data[1] = 0x00, 0x10 // little-endian 0x1000
	regions := []memproc.Region{{Base: 0x1000, Size: 0x100}}

	out := HexdumpBasic(data, 0, uint(len(data)), regions)
	assert.Contains(t, out, "0x1000")
}

func TestHexdumpBasicOmitsPointerOutsideAnyRegion(t *testing.T) {
	data := make([]byte, 8)
	data[0], data[1] = 0x00, 0x10
	out := HexdumpBasic(data, 0, uint(len(data)), nil)
	assert.NotContains(t, out, "0x1000")
}
