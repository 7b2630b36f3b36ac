package project

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"vlalign/internal/format"
)

// DefaultExtensions are the file extensions formatted when a directory is
// given on the command line.
var DefaultExtensions = []string{".v", ".sv", ".vh", ".svh"}

// Config is the decoded .vlalign.toml.
type Config struct {
	Path string `toml:"-"`
	Root string `toml:"-"`

	Format FormatSection `toml:"format"`
	Files  FilesSection  `toml:"files"`
	Cache  CacheSection  `toml:"cache"`
}

type FormatSection struct {
	CondenseBlankLines bool `toml:"condense_blank_lines"`
	AlignEndOfLine     bool `toml:"align_end_of_line"`
}

type FilesSection struct {
	Extensions []string `toml:"extensions"`
	// Exclude holds filepath.Match patterns checked against the base name
	// and the root-relative path of each collected file.
	Exclude []string `toml:"exclude"`
}

type CacheSection struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	opt := format.DefaultOptions()
	return Config{
		Format: FormatSection{
			CondenseBlankLines: opt.CondenseBlankLines,
			AlignEndOfLine:     opt.AlignEndOfLine,
		},
		Files: FilesSection{Extensions: slices.Clone(DefaultExtensions)},
	}
}

// FormatOptions converts the [format] section into engine options.
func (c Config) FormatOptions() format.Options {
	return format.Options{
		CondenseBlankLines: c.Format.CondenseBlankLines,
		AlignEndOfLine:     c.Format.AlignEndOfLine,
	}
}

// Excluded reports whether path matches one of the [files].exclude patterns.
func (c Config) Excluded(path string) bool {
	if len(c.Files.Exclude) == 0 {
		return false
	}
	candidates := []string{filepath.Base(path)}
	if c.Root != "" {
		if rel, err := filepath.Rel(c.Root, path); err == nil {
			candidates = append(candidates, filepath.ToSlash(rel))
		}
	}
	for _, pat := range c.Files.Exclude {
		for _, cand := range candidates {
			if ok, err := filepath.Match(pat, cand); err == nil && ok {
				return true
			}
		}
	}
	return false
}

// Load finds .vlalign.toml starting at startDir and decodes it. When no
// file exists the defaults are returned with found == false.
func Load(startDir string) (cfg Config, found bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err = LoadFile(path)
	if err != nil {
		return Default(), true, err
	}
	return cfg, true, nil
}

// LoadFile decodes the given file on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("files", "extensions") {
		if len(cfg.Files.Extensions) == 0 {
			return Config{}, fmt.Errorf("%s: [files].extensions must not be empty", path)
		}
		for _, ext := range cfg.Files.Extensions {
			if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
				return Config{}, fmt.Errorf("%s: [files].extensions: bad extension %q", path, ext)
			}
		}
	}
	for _, pat := range cfg.Files.Exclude {
		if _, err := filepath.Match(pat, ""); err != nil {
			return Config{}, fmt.Errorf("%s: [files].exclude: bad pattern %q: %w", path, pat, err)
		}
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cfg.Root, cfg.Cache.Dir)
	}
	return cfg, nil
}
