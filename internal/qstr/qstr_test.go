package qstr

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hstools/internal/logger"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		clean bool
	}{
		{"style.css?ver=6.7.3", "style.css", true},
		{"style.css.css?ver=1", "style.css", true},
		{"app.js.js?x", "app.js", true},
		{"font.woff2?v=4.7.0", "font.woff2", true},
		{"plain.css", "plain.css", false},
		{"?only", "?only", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanName(tt.name)
			assert.Equal(t, tt.clean, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	var names []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		require.NoError(t, err)
		if !info.IsDir() {
			rel, _ := filepath.Rel(dir, path)
			names = append(names, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(names)
	return names
}

func TestStrip(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"css/style.css?ver=6.7.3",
		"js/app.js.js?ver=2",
		"img/logo.png",
		"index.html",
	)

	report, err := Strip(dir, "", logger.Noop())
	require.NoError(t, err)

	assert.Len(t, report.Renamed, 2)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []string{"css/style.css", "img/logo.png", "index.html", "js/app.js"}, listFiles(t, dir))

	data, err := os.ReadFile(filepath.Join(dir, "css", "style.css"))
	require.NoError(t, err)
	assert.Equal(t, "css/style.css?ver=6.7.3", string(data))
}

func TestStripMatch(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "css/a.css?v=1", "js/b.js?v=1")

	report, err := Strip(dir, "css/**", nil)
	require.NoError(t, err)

	assert.Len(t, report.Renamed, 1)
	assert.Equal(t, []string{"css/a.css", "js/b.js?v=1"}, listFiles(t, dir))
}

func TestStripCollision(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.css", "a.css?ver=2")

	report, err := Strip(dir, "", nil)
	require.NoError(t, err)

	assert.Empty(t, report.Renamed)
	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[0], os.ErrExist)
	assert.Equal(t, filepath.Join(dir, "a.css"), report.Failed[0].To)

	data, err := os.ReadFile(filepath.Join(dir, "a.css"))
	require.NoError(t, err)
	assert.Equal(t, "a.css", string(data))
}

func TestStripErrors(t *testing.T) {
	_, err := Strip(filepath.Join(t.TempDir(), "missing"), "", nil)
	assert.Error(t, err)

	_, err = Strip(t.TempDir(), "[", nil)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = Strip(file, "", nil)
	assert.Error(t, err)
}
