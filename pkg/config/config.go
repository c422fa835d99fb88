// Package config loads the optional tarpack configuration file.
//
// The file lives at $XDG_CONFIG_HOME/tarpack/config.toml and provides
// defaults for the command-line flags; flags always win over file
// values. A missing file is not an error.
package config

import (
	"io/fs"
	"path/filepath"

	stderrors "errors"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"

	"github.com/arthur-debert/tarpack/pkg/errors"
	"github.com/arthur-debert/tarpack/pkg/logging"
)

// File is the on-disk configuration.
type File struct {
	// Remove enables remove-after-archive by default.
	Remove bool `toml:"remove"`

	// DryRun makes every run a dry run unless overridden.
	DryRun bool `toml:"dry_run"`

	// Exclude lists directory base names that are never archived.
	Exclude []string `toml:"exclude"`
}

// DefaultPath returns the location of the configuration file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "tarpack", "config.toml")
}

// Load reads the configuration from its default location on fsys.
func Load(fsys afero.Fs) (*File, error) {
	return LoadPath(fsys, DefaultPath())
}

// LoadPath reads the configuration from path. A missing file yields the
// zero configuration; an unreadable or unparsable file is fatal.
func LoadPath(fsys afero.Fs, path string) (*File, error) {
	logger := logging.GetLogger("config")

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("No configuration file, using defaults")
			return &File{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}

	var cfg File
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
	}

	logger.Debug().Str("path", path).Msg("Loaded configuration file")
	return &cfg, nil
}
