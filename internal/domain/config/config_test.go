package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "blogsmith/internal/domain/errors"
)

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func TestLoad_DefaultsWhenNothingIsSet(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(LoadOptions{
		ConfigFile: filepath.Join(dir, "missing.yaml"),
		EnvFile:    filepath.Join(dir, "missing.env"),
		Lookup:     noEnv,
	})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_LayerPrecedence(t *testing.T) {
	dir := t.TempDir()
	yml := write(t, dir, "site.yaml", `
site:
  title: From File
  author: File Author
build:
  build_dir: out
`)
	env := write(t, dir, ".env", "SITE_AUTHOR=Dotenv Author\nBUILD_DIR=public\n")

	cfg, err := Load(LoadOptions{
		ConfigFile: yml,
		EnvFile:    env,
		Lookup:     mapEnv(map[string]string{"BUILD_DIR": "site"}),
	})
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.Site.Title)
	assert.Equal(t, "Dotenv Author", cfg.Site.Author)
	assert.Equal(t, "site", cfg.Build.BuildDir)
	assert.Equal(t, "posts", cfg.Build.SourceDir, "untouched keys keep defaults")
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "site.toml", `
[site]
title = "Toml Blog"
site_url = "https://blog.example.org"

[build]
source_dir = "content"
`)
	cfg, err := Load(LoadOptions{ConfigFile: p, Lookup: noEnv})
	require.NoError(t, err)
	assert.Equal(t, "Toml Blog", cfg.Site.Title)
	assert.Equal(t, "https://blog.example.org/", cfg.Site.BaseURL())
	assert.Equal(t, "content", cfg.Build.SourceDir)
}

func TestLoad_BadFile(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "site.yaml", "site: [unclosed")
	_, err := Load(LoadOptions{ConfigFile: p, Lookup: noEnv})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode config")
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(LoadOptions{Lookup: mapEnv(map[string]string{
		"SITE_HTTP_URL": "example.com",
		"BUILD_DIR":     ".",
	})})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerr.ErrInvalid)

	var ve domainerr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Items, 2)
	assert.Contains(t, err.Error(), "SITE_HTTP_URL")
	assert.Contains(t, err.Error(), "BUILD_DIR")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Site.Title = "  "
	cfg.Build.BuildDir = "/"
	cfg.Build.AssetsDir = ""
	err := cfg.Validate()
	require.Error(t, err)
	for _, key := range []string{"SITE_TITLE", "BUILD_DIR", "ASSETS_DIR"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestBaseURL(t *testing.T) {
	for in, want := range map[string]string{
		"https://example.com":    "https://example.com/",
		"https://example.com/":   "https://example.com/",
		"https://example.com//":  "https://example.com/",
		" https://example.com/a": "https://example.com/a/",
	} {
		assert.Equal(t, want, SiteConfig{SiteURL: in}.BaseURL(), in)
	}
}

func TestEnvKeys(t *testing.T) {
	keys := EnvKeys()
	assert.Contains(t, keys, "SITE_HTTP_URL")
	assert.Contains(t, keys, "BUILD_DIR")
	assert.Len(t, keys, 11)
}

func TestValidate_BuildDirMustNotContainInputs(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Config)
		input string
	}{
		{"source inside", func(c *Config) { c.Build.SourceDir = "site/posts" }, "SOURCE_DIR"},
		{"source equal", func(c *Config) { c.Build.SourceDir = "./site" }, "SOURCE_DIR"},
		{"assets inside", func(c *Config) { c.Build.AssetsDir = "site/assets" }, "ASSETS_DIR"},
		{"theme inside", func(c *Config) { c.Build.ThemeDir = "site/theme" }, "THEME_DIR"},
		{"manifest inside", func(c *Config) { c.Build.ManifestPath = "site/.state/manifest.db" }, "MANIFEST_PATH"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Build.BuildDir = "site"
			tc.mut(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, domainerr.ErrInvalid)
			assert.Contains(t, err.Error(), "BUILD_DIR: must not contain "+tc.input)
		})
	}
}

func TestValidate_SiblingDirsAreFine(t *testing.T) {
	cfg := Default()
	cfg.Build.BuildDir = "site"
	cfg.Build.SourceDir = "site-posts"
	cfg.Build.AssetsDir = "../assets"
	cfg.Build.ThemeDir = "theme"
	require.NoError(t, cfg.Validate())

	// the build dir may live inside the source tree; discovery is not recursive
	cfg.Build.SourceDir = "."
	cfg.Build.BuildDir = "public"
	cfg.Build.AssetsDir = "assets"
	require.NoError(t, cfg.Validate())
}

func TestWithin(t *testing.T) {
	assert.True(t, within("a", "a"))
	assert.True(t, within("a", "a/b/c"))
	assert.True(t, within("/x/a", "/x/a/../a/b"))
	assert.False(t, within("a", "ab"))
	assert.False(t, within("a/b", "a"))
	assert.False(t, within("a", "..a"))
}
