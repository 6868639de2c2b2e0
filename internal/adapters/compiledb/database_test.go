package compiledb_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/vimasm/internal/adapters/compiledb"
	"go.trai.ch/vimasm/internal/core/domain"
)

func writeMetadata(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.MetadataFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoad_Lookup(t *testing.T) {
	dir := t.TempDir()
	path := writeMetadata(t, dir, `[
		{"directory": "/build", "file": "/src/a.c", "command": "cc -c /src/a.c -o a.o"},
		{"directory": "/build", "file": "/src/a.c", "command": "cc -O2 -c /src/a.c -o a2.o"},
		{"directory": "/build", "file": "/src/b.c", "arguments": ["cc", "-c", "/src/b.c"], "output": "b.o"}
	]`)

	db, err := compiledb.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, db.Path())
	assert.Equal(t, 3, db.Len())

	rec, err := db.Lookup("/src/a.c")
	require.NoError(t, err)
	assert.Equal(t, "cc -c /src/a.c -o a.o", rec.Command, "first matching record wins")

	rec, err = db.Lookup("/src/b.c")
	require.NoError(t, err)
	assert.Equal(t, domain.BuildRecord{
		Directory: "/build",
		File:      "/src/b.c",
		Arguments: []string{"cc", "-c", "/src/b.c"},
		Output:    "b.o",
	}, rec)

	_, err = db.Lookup("/src/missing.c")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestLoad_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeMetadata(t, dir, `[
		{"directory": "build", "file": "../src/a.c", "command": "cc -c ../src/a.c"},
		{"file": "src/b.c", "command": "cc -c src/b.c"}
	]`)

	db, err := compiledb.Load(path)
	require.NoError(t, err)

	rec, err := db.Lookup(filepath.Join(dir, "src", "a.c"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "build"), rec.Directory)

	rec, err = db.Lookup(filepath.Join(dir, "src", "b.c"))
	require.NoError(t, err)
	assert.Equal(t, dir, rec.Directory)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{name: "empty document", content: "  \n", want: domain.ErrMetadataParseFailed},
		{name: "malformed json", content: `[{"file": `, want: domain.ErrMetadataParseFailed},
		{name: "not an array", content: `{"file": "a.c"}`, want: domain.ErrMetadataParseFailed},
		{name: "record without file", content: `[{"directory": "/build", "command": "cc"}]`, want: domain.ErrMetadataParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeMetadata(t, t.TempDir(), tt.content)
			_, err := compiledb.Load(path)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := compiledb.Load(filepath.Join(t.TempDir(), domain.MetadataFileName))
	require.ErrorIs(t, err, domain.ErrMetadataReadFailed)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := writeMetadata(t, dir, `[{"directory": "/build", "file": "/src/a.c", "command": "cc -c /src/a.c"}]`)

	db, err := compiledb.Load(path)
	require.NoError(t, err)

	writeMetadata(t, dir, `[{"directory": "/build", "file": "/src/b.c", "command": "cc -c /src/b.c"}]`)
	require.NoError(t, db.Reload())

	_, err = db.Lookup("/src/a.c")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
	_, err = db.Lookup("/src/b.c")
	require.NoError(t, err)

	t.Run("keeps records on parse failure", func(t *testing.T) {
		writeMetadata(t, dir, `[{"directory": `)
		require.ErrorIs(t, db.Reload(), domain.ErrMetadataParseFailed)

		_, err := db.Lookup("/src/b.c")
		require.NoError(t, err)
	})
}
