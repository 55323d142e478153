//go:build unix

package credstore

import (
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveRestrictsPermissions(t *testing.T) {
	old := syscall.Umask(0)
	defer syscall.Umask(old)

	store := newTestStore(t)
	require.NoError(t, store.Save("y0_AgAAAAAtoken", "7"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// loosen and save again: permissions are re-applied
	require.NoError(t, os.Chmod(store.Path(), 0o644))
	require.NoError(t, store.Save("y0_AgAAAAAtoken", "8"))

	info, err = os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
