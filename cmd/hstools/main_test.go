package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hstools/internal/config"
	"hstools/internal/resolver"
)

func setEnv(t *testing.T, theme string) {
	t.Helper()
	// keep a stray .env in the package directory from leaking in
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(config.EnvTheme, theme)
	t.Setenv(config.EnvTargetHost, "www.example.com")
	t.Setenv(config.EnvExtractProfile, "")
	t.Setenv(config.EnvLogLevel, "error")
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestAssetURLHTML(t *testing.T) {
	setEnv(t, "mytheme")
	dir := t.TempDir()
	input := filepath.Join(dir, "index.html")
	writeFile(t, input, `<a href="/old/page?x=1">p</a><img src="/images/a.png">`)

	prof := filepath.Join(dir, "profile.yaml")
	writeFile(t, prof, "anchor_rules:\n  - [\"^/old/\", \"/new/\"]\n")

	stdout, _, err := run(t, "html", "asset-url", input, "-p", prof)
	require.NoError(t, err)

	out := readFile(t, filepath.Join(dir, "out.index.html"))
	assert.Equal(t, `<a href="/new/page?x=1">p</a><img src="{{get_asset_url('/mytheme/images/a.png')}}"/>`, out)
	assert.Contains(t, stdout, "a.href: /old/page?x=1 -> /new/page?x=1\n")
	assert.Contains(t, stdout, "img.src: /images/a.png -> {{get_asset_url('/mytheme/images/a.png')}}\n")
}

func TestAssetURLCSS(t *testing.T) {
	setEnv(t, "mytheme")
	dir := t.TempDir()
	input := filepath.Join(dir, "site.css")
	writeFile(t, input, ".a { background: url(../img/a.png) }")
	output := filepath.Join(dir, "rewritten.css")

	_, _, err := run(t, "html", "asset-url", input, "-o", output, "-b", "/css/")
	require.NoError(t, err)

	assert.Equal(t, `.a { background: url("{{get_asset_url('/mytheme/img/a.png')}}") }`, readFile(t, output))
}

func TestAssetURLStdout(t *testing.T) {
	setEnv(t, "t")
	dir := t.TempDir()
	input := filepath.Join(dir, "p.html")
	writeFile(t, input, `<img src="a.png">`)

	stdout, stderr, err := run(t, "html", "asset-url", input, "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, `<img src="{{get_asset_url('/t/a.png')}}"/>`, stdout)
	assert.Contains(t, stderr, "img.src: a.png -> ")
}

func TestAssetURLStats(t *testing.T) {
	setEnv(t, "t")
	dir := t.TempDir()
	input := filepath.Join(dir, "p.html")
	writeFile(t, input, `<img src="https://www.example.com/a.png"><a href="https://other.org/">o</a>`)

	_, stderr, err := run(t, "html", "asset-url", input, "--stats")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Values rewritten: 1")
	assert.Contains(t, stderr, "Target host URLs: 1")
	assert.Contains(t, stderr, "external: 1")
}

func TestAssetURLMissingTheme(t *testing.T) {
	setEnv(t, "")
	dir := t.TempDir()
	input := filepath.Join(dir, "p.html")
	writeFile(t, input, `<a href="/x">x</a>`)

	_, _, err := run(t, "html", "asset-url", input)
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrThemeRequired)
	assert.NoFileExists(t, filepath.Join(dir, "out.p.html"))
}

func TestAssetURLBadProfileFallsBack(t *testing.T) {
	setEnv(t, "t")
	dir := t.TempDir()
	input := filepath.Join(dir, "p.html")
	writeFile(t, input, `<img src="a.png">`)
	prof := filepath.Join(dir, "bad.json")
	writeFile(t, prof, `{"anchor_rules": [["(", "x"]]}`)

	_, _, err := run(t, "html", "asset-url", input, "-p", prof)
	require.NoError(t, err)
	assert.Equal(t, `<img src="{{get_asset_url('/t/a.png')}}"/>`, readFile(t, filepath.Join(dir, "out.p.html")))
}

func TestAssetURLMissingInput(t *testing.T) {
	setEnv(t, "t")
	_, _, err := run(t, "html", "asset-url", filepath.Join(t.TempDir(), "nope.html"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.html")
}

func TestExtract(t *testing.T) {
	setEnv(t, "mytheme")
	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	writeFile(t, input, `<html><body><div id="content"><nav>n</nav><img src="/a.png"></div></body></html>`)
	prof := filepath.Join(dir, "extract.json")
	writeFile(t, prof, `{"extract": {"src": "#content", "drops": ["#content nav"]}}`)
	t.Setenv(config.EnvExtractProfile, prof)

	_, _, err := run(t, "html", "extract", input)
	require.NoError(t, err)

	assert.Equal(t,
		`<div id="content"><img src="{{get_asset_url('/mytheme/a.png')}}"/></div>`,
		readFile(t, filepath.Join(dir, "out.page.html")))
}

func TestExtractSelectorNotFoundWritesInput(t *testing.T) {
	setEnv(t, "mytheme")
	dir := t.TempDir()
	input := filepath.Join(dir, "page.html")
	content := `<div id="other">x</div>`
	writeFile(t, input, content)
	prof := filepath.Join(dir, "extract.json")
	writeFile(t, prof, `{"src": "#content"}`)

	_, _, err := run(t, "html", "extract", input, "-p", prof)
	require.NoError(t, err)
	assert.Equal(t, content, readFile(t, filepath.Join(dir, "out.page.html")))
}

func TestExtractRejectsNonHTML(t *testing.T) {
	setEnv(t, "t")
	_, _, err := run(t, "html", "extract", "site.css")
	assert.Error(t, err)
}

func TestStripQstr(t *testing.T) {
	setEnv(t, "")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "css", "style.css?ver=6.7.3"), "x")

	stdout, _, err := run(t, "html", "strip-qstr", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "style.css?ver=6.7.3 -> ")
	assert.FileExists(t, filepath.Join(dir, "css", "style.css"))
}

func TestHSURL(t *testing.T) {
	setEnv(t, "mytheme")

	stdout, _, err := run(t, "html", "hs-url", "images/logo.png")
	require.NoError(t, err)
	assert.Equal(t, "{{get_asset_url('/mytheme/images/logo.png')}}\n", stdout)

	setEnv(t, "")
	_, _, err = run(t, "html", "hs-url", "images/logo.png")
	assert.ErrorIs(t, err, resolver.ErrThemeRequired)
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("site", "out.index.html"), defaultOutputPath(filepath.Join("site", "index.html")))
}
