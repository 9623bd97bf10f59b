package filestore_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/judger/internal/filestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZst(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestOpenDecompressesZst(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.in")
	packed := filepath.Join(dir, "a.in.zst")
	require.NoError(t, os.WriteFile(plain, []byte("315941512 -119267504\n"), 0644))
	writeZst(t, packed, "315941512 -119267504\n")

	for _, p := range []string{plain, packed} {
		r, err := filestore.Open(p)
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "315941512 -119267504\n", string(b), p)
	}

	_, err := filestore.Open(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestGetCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ans")
	require.NoError(t, os.WriteFile(p, []byte("1\n"), 0644))

	fs := filestore.New()
	b, err := fs.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(b))
	assert.Equal(t, 1, fs.Len())

	require.NoError(t, os.WriteFile(p, []byte("22\n"), 0644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(p, future, future))
	b, err = fs.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "22\n", string(b))

	require.NoError(t, os.Remove(p))
	_, err = fs.Get(p)
	assert.Error(t, err)
}

func TestLargeFilesAreNotCached(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "big")
	require.NoError(t, os.WriteFile(p, bytes.Repeat([]byte("x"), 100), 0644))

	fs := filestore.New()
	fs.SetMaxEntry(10)
	b, err := fs.Get(p)
	require.NoError(t, err)
	assert.Len(t, b, 100)
	assert.Equal(t, 0, fs.Len())
}

func TestWarm(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.ans", "2.ans", "3.ans.zst"} {
		p := filepath.Join(dir, name)
		if filepath.Ext(p) == ".zst" {
			writeZst(t, p, name)
		} else {
			require.NoError(t, os.WriteFile(p, []byte(name), 0644))
		}
		paths = append(paths, p)
	}

	fs := filestore.New()
	require.NoError(t, fs.Warm(context.Background(), paths))
	assert.Equal(t, 3, fs.Len())

	err := fs.Warm(context.Background(), append(paths, filepath.Join(dir, "nope")))
	assert.Error(t, err)
}

func TestGetSeesReplacedFileWithSameSizeAndMtime(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "ans")
	tmp := filepath.Join(dir, "ans.tmp")
	stamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(p, []byte("1\n"), 0644))
	require.NoError(t, os.Chtimes(p, stamp, stamp))

	fs := filestore.New()
	b, err := fs.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(b))

	require.NoError(t, os.WriteFile(tmp, []byte("2\n"), 0644))
	require.NoError(t, os.Chtimes(tmp, stamp, stamp))
	require.NoError(t, os.Rename(tmp, p))

	b, err = fs.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(b))
}
