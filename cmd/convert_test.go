package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvertProfileWritesLineOrientedFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.profile")
	require.NoError(t, os.WriteFile(in, []byte("0,1\n10,0.5\n20,1\n"), 0o644))

	require.NoError(t, convertProfile(in, out, 0))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "0 1\n10 0.5\n20 1\n", string(data))
}

func TestConvertProfileAppendsLoopAfter(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.profile")
	require.NoError(t, os.WriteFile(in, []byte("0,1\n"), 0o644))

	require.NoError(t, convertProfile(in, out, 30))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "0 1\nLOOPAFTER 30\n", string(data))
}

func TestConvertProfileRejectsBadValue(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.profile")
	require.NoError(t, os.WriteFile(in, []byte("0,notanumber\n"), 0o644))

	err := convertProfile(in, out, 0)
	require.Error(t, err)
}
