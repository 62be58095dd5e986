package bankwest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweepStaleProfiles(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	old := time.Now().Add(-2 * time.Hour)
	mkdir := func(name string, mtime time.Time) string {
		dir := filepath.Join(tmp, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		require.NoError(t, os.Chtimes(dir, mtime, mtime))
		return dir
	}

	stale := mkdir("rod-bankmail-111", old)
	fresh := mkdir("rod-bankmail-222", time.Now())
	foreign := mkdir("rod-other-333", old)

	SweepStaleProfiles(time.Hour, testLogger())

	require.NoDirExists(t, stale)
	require.DirExists(t, fresh)
	require.DirExists(t, foreign)
}

func TestRodPage_CloseBeforeLaunch(t *testing.T) {
	dir, err := os.MkdirTemp(t.TempDir(), profilePattern)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Local State"), []byte("{}"), 0o644))

	p := &rodPage{tmpDir: dir, log: testLogger()}

	require.NoError(t, p.Close())
	require.NoDirExists(t, dir)
	require.NoError(t, p.Close(), "second close is a no-op")
}
