package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustCompile(t *testing.T) {
	p := MustCompile("11 45 14 ??")
	require.Len(t, p, 4)
	assert.Equal(t, Element{Byte: 0x11}, p[0])
	assert.Equal(t, Element{Byte: 0x45}, p[1])
	assert.Equal(t, Element{Byte: 0x14}, p[2])
	assert.Equal(t, Element{IsMask: true}, p[3])
}

func TestMustCompilePanicsOnMalformed(t *testing.T) {
	assert.Panics(t, func() { MustCompile("") })
	assert.Panics(t, func() { MustCompile("1") })
	assert.Panics(t, func() { MustCompile("zz") })
	assert.Panics(t, func() { MustCompile("1? ?") })
}

func TestDynamicPatternNew(t *testing.T) {
	d, err := New("11 45 14")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	d.Append(Element{Byte: 0x00})
	assert.Equal(t, 4, d.Len())

	require.NoError(t, d.Reset("11 45 14 ??"))
	assert.Equal(t, 4, d.Len())
	assert.True(t, d.Elements()[3].IsMask)
}

func TestDynamicPatternRejectsMalformed(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = New("1")
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = New("zz")
	assert.ErrorIs(t, err, ErrInvalidPattern)

	d, err := New("11 45")
	require.NoError(t, err)
	err = d.Reset("bad")
	assert.ErrorIs(t, err, ErrInvalidPattern)
	// Reset failure leaves the previous contents intact.
	assert.Equal(t, 2, d.Len())
}

func TestZeroValueDynamicPatternIsEmptyButLegal(t *testing.T) {
	var d DynamicPattern
	assert.Equal(t, 0, d.Len())
	assert.Nil(t, d.Elements())
}
