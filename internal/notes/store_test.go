package notes

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDuplicate(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	saved, err := s.Save("swap battery on 00123456")
	require.NoError(t, err)
	assert.True(t, saved)

	saved, err = s.Save("swap battery on 00123456")
	require.NoError(t, err)
	assert.False(t, saved, "identical note must be rejected")

	saved, err = s.Save("second note")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestDeleteLast(t *testing.T) {
	s := NewStore(t.TempDir(), nil)

	removed, err := s.DeleteLast()
	require.NoError(t, err)
	assert.False(t, removed, "nothing stored yet")

	_, err = s.Save("first")
	require.NoError(t, err)
	_, err = s.Save("second")
	require.NoError(t, err)

	removed, err = s.DeleteLast()
	require.NoError(t, err)
	assert.True(t, removed)

	// "second" is gone, so saving it again succeeds.
	saved, err := s.Save("second")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestDeleteLastRemovesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, nil)

	_, err := s.Save("only note")
	require.NoError(t, err)

	removed, err := s.DeleteLast()
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = os.Stat(s.path())
	assert.True(t, os.IsNotExist(err), "empty note file should be removed")
}
