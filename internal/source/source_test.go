package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadWalksDirectoriesForJava(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "b", "B.java"), "class B {}")
	write(t, filepath.Join(dir, "A.java"), "class A {}")
	write(t, filepath.Join(dir, "notes.txt"), "skip me")

	units, diags := Load([]string{dir}, 0)
	assert.Empty(t, diags.Warnings)
	require.Len(t, units, 2)
	assert.Equal(t, "A.java", units[0].Name)
	assert.Equal(t, "B.java", units[1].Name)
	assert.Equal(t, "class A {}", units[0].Text)
}

func TestLoadExplicitFileAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Main.java")
	write(t, p, "class Main {}")

	units, _ := Load([]string{p, dir}, 0)
	assert.Len(t, units, 1)
}

func TestLoadSizeLimitAndMissingPathWarn(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Big.java"), "class Big { /* padding */ }")

	units, diags := Load([]string{dir, filepath.Join(dir, "missing")}, 5)
	assert.Empty(t, units)
	assert.Len(t, diags.Warnings, 3) // too big, missing, none found
}
