package procfind

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByPIDFindsCurrentProcess(t *testing.T) {
	info, ok := ByPID(PID(os.Getpid()))
	require.True(t, ok)
	assert.Equal(t, PID(os.Getpid()), info.PID)
}

func TestByPIDUnknownFails(t *testing.T) {
	_, ok := ByPID(PID(-1))
	assert.False(t, ok)
}

func TestAllIncludesCurrentProcess(t *testing.T) {
	all, err := All()
	require.NoError(t, err)

	found := false
	for _, p := range all {
		if p.PID == PID(os.Getpid()) {
			found = true
			break
		}
	}
	assert.True(t, found)
}

func TestByNameExactMatchExcludesSubstring(t *testing.T) {
	self, ok := ByPID(PID(os.Getpid()))
	require.True(t, ok)
	require.NotEmpty(t, self.Name)

	matches, err := ByName(self.Name)
	require.NoError(t, err)
	for _, m := range matches {
		assert.Equal(t, self.Name, m.Name)
	}

	substringPattern := self.Name[:len(self.Name)-1]
	matches, err = ByName(substringPattern)
	require.NoError(t, err)
	for _, m := range matches {
		assert.NotEqual(t, self.Name, m.Name)
	}
}

func TestByNamePatternRejectsInvalidRegex(t *testing.T) {
	_, err := ByNamePattern("(")
	assert.Error(t, err)
}

func TestChildrenOfCurrentProcessHasNoSelfLoop(t *testing.T) {
	children, err := Children(PID(os.Getpid()))
	require.NoError(t, err)
	for _, c := range children {
		assert.NotEqual(t, PID(os.Getpid()), c.PID)
	}
}
