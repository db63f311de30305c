package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	domainerr "blogsmith/internal/domain/errors"
)

type Config struct {
	Site  SiteConfig  `yaml:"site" toml:"site"`
	Build BuildConfig `yaml:"build" toml:"build"`
}

type SiteConfig struct {
	Title           string `yaml:"title" toml:"title"`
	Description     string `yaml:"description" toml:"description"`
	LongDescription string `yaml:"long_description" toml:"long_description"`
	SiteURL         string `yaml:"site_url" toml:"site_url"`
	Author          string `yaml:"author" toml:"author"`
	Language        string `yaml:"language" toml:"language"`
}

type BuildConfig struct {
	SourceDir    string `yaml:"source_dir" toml:"source_dir"`
	BuildDir     string `yaml:"build_dir" toml:"build_dir"`
	AssetsDir    string `yaml:"assets_dir" toml:"assets_dir"`
	ThemeDir     string `yaml:"theme_dir" toml:"theme_dir"`
	ManifestPath string `yaml:"manifest_path" toml:"manifest_path"`
}

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:           "blogsmith",
			Description:     "A chronological blog",
			LongDescription: "A chronological blog built from date-named markdown posts.",
			SiteURL:         "http://localhost:8000/",
			Language:        "en",
		},
		Build: BuildConfig{
			SourceDir:    "posts",
			BuildDir:     "build",
			AssetsDir:    "assets",
			ThemeDir:     "",
			ManifestPath: filepath.Join(".blogsmith", "manifest.db"),
		},
	}
}

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("SITE_TITLE", "must not be empty")
	}

	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("SITE_HTTP_URL", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("SITE_HTTP_URL", "must be a valid absolute URL")
	}

	if strings.TrimSpace(c.Build.SourceDir) == "" {
		ve.Add("SOURCE_DIR", "must not be empty")
	}
	if bd := strings.TrimSpace(c.Build.BuildDir); bd == "" {
		ve.Add("BUILD_DIR", "must not be empty")
	} else if filepath.Clean(bd) == "." || filepath.Clean(bd) == "/" {
		ve.Add("BUILD_DIR", "must not be the working directory or filesystem root")
	} else {
		// the build directory is replaced wholesale on every build
		for _, in := range []struct{ key, path string }{
			{"SOURCE_DIR", c.Build.SourceDir},
			{"ASSETS_DIR", c.Build.AssetsDir},
			{"THEME_DIR", c.Build.ThemeDir},
			{"MANIFEST_PATH", c.Build.ManifestPath},
		} {
			if strings.TrimSpace(in.path) != "" && within(bd, in.path) {
				ve.Add("BUILD_DIR", "must not contain "+in.key+" ("+in.path+")")
			}
		}
	}
	if strings.TrimSpace(c.Build.AssetsDir) == "" {
		ve.Add("ASSETS_DIR", "must not be empty")
	}

	if ve.HasAny() {
		return ve
	}
	return nil
}

// within reports whether path is dir or lies below it, comparing absolute paths.
func within(dir, path string) bool {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// BaseURL returns the site URL with exactly one trailing slash.
func (s SiteConfig) BaseURL() string {
	return strings.TrimRight(strings.TrimSpace(s.SiteURL), "/") + "/"
}

// envBindings maps environment keys onto config fields.
var envBindings = []struct {
	key   string
	field func(*Config) *string
}{
	{"BUILD_DIR", func(c *Config) *string { return &c.Build.BuildDir }},
	{"SOURCE_DIR", func(c *Config) *string { return &c.Build.SourceDir }},
	{"ASSETS_DIR", func(c *Config) *string { return &c.Build.AssetsDir }},
	{"THEME_DIR", func(c *Config) *string { return &c.Build.ThemeDir }},
	{"MANIFEST_PATH", func(c *Config) *string { return &c.Build.ManifestPath }},
	{"SITE_TITLE", func(c *Config) *string { return &c.Site.Title }},
	{"SITE_DESCRIPTION", func(c *Config) *string { return &c.Site.Description }},
	{"SITE_LONG_DESCRIPTION", func(c *Config) *string { return &c.Site.LongDescription }},
	{"SITE_HTTP_URL", func(c *Config) *string { return &c.Site.SiteURL }},
	{"SITE_AUTHOR", func(c *Config) *string { return &c.Site.Author }},
	{"SITE_LANGUAGE", func(c *Config) *string { return &c.Site.Language }},
}

// ApplyEnv overrides fields for every key lookup reports as set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for _, b := range envBindings {
		if v, ok := lookup(b.key); ok {
			*b.field(c) = v
		}
	}
}

// EnvKeys lists the recognised environment keys.
func EnvKeys() []string {
	keys := make([]string, 0, len(envBindings))
	for _, b := range envBindings {
		keys = append(keys, b.key)
	}
	return keys
}

type LoadOptions struct {
	// ConfigFile is a yaml or toml file; missing is fine.
	ConfigFile string
	// EnvFile is a dotenv file; missing is fine.
	EnvFile string
	// Lookup reads the process environment; nil means os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load layers defaults, config file, dotenv file and environment, then validates.
func Load(opt LoadOptions) (Config, error) {
	cfg := Default()

	if opt.ConfigFile != "" {
		if err := decodeFile(opt.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}

	if opt.EnvFile != "" {
		vars, err := godotenv.Read(opt.EnvFile)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read env file %s: %w", opt.EnvFile, err)
		}
		cfg.ApplyEnv(func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		})
	}

	lookup := opt.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg.ApplyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// fields present in the file override defaults, others keep Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}
