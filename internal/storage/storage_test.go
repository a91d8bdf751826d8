package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolpass-board-service/internal/logger"
)

func TestLocalStorage_SaveAndRemove(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, logger.New("test"))
	require.NoError(t, err)

	storedName, err := store.Save(strings.NewReader("file body"), "notes.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(storedName, ".pdf"))
	assert.NotEqual(t, "notes.pdf", storedName)

	body, err := os.ReadFile(filepath.Join(dir, storedName))
	require.NoError(t, err)
	assert.Equal(t, "file body", string(body))

	require.NoError(t, store.Remove(storedName))
	_, err = os.Stat(filepath.Join(dir, storedName))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_RemoveMissingIsNoError(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), logger.New("test"))
	require.NoError(t, err)

	assert.NoError(t, store.Remove("never-stored.bin"))
}

func TestLocalStorage_UniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), logger.New("test"))
	require.NoError(t, err)

	first, err := store.Save(strings.NewReader("a"), "same.txt")
	require.NoError(t, err)
	second, err := store.Save(strings.NewReader("b"), "same.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
