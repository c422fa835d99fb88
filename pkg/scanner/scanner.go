// Package scanner discovers the immediate subdirectories of a target
// directory and derives the archive name for each one.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/tarpack/pkg/errors"
	"github.com/arthur-debert/tarpack/pkg/logging"
)

// ArchiveSuffix is appended to a directory's base name to form its
// archive name.
const ArchiveSuffix = ".tar"

// Scan lists the direct children of root (one level, non-recursive) and
// returns a mapping from archive name ("<dirname>.tar") to the directory's
// path. Non-directory entries are skipped. Symbolic links are followed: a
// link that resolves to a directory is included, matching how the
// filesystem classifies it on access. Entries whose base name appears in
// exclude are skipped.
//
// Scanning is read-only. A listing failure is fatal to the run and is
// reported as ErrScanFailed.
func Scan(fsys afero.Fs, root string, exclude []string) (map[string]string, error) {
	logger := logging.GetLogger("scanner")
	logger.Debug().Str("root", root).Msg("Scanning target directory")

	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScanFailed, "cannot list %s", root)
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	targets := make(map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(root, name)

		if _, excluded := skip[name]; excluded {
			logger.Debug().Str("path", path).Msg("Excluded by configuration")
			continue
		}

		isDir := entry.IsDir()
		if !isDir && entry.Mode()&os.ModeSymlink != 0 {
			// ReadDir does not follow links, so resolve the target.
			if info, statErr := fsys.Stat(path); statErr == nil && info.IsDir() {
				isDir = true
			}
		}
		if !isDir {
			logger.Trace().Str("path", path).Msg("Skipping non-directory entry")
			continue
		}

		logger.Debug().Str("path", path).Msg("Found directory")
		targets[name+ArchiveSuffix] = path
	}

	logger.Info().Int("count", len(targets)).Str("root", root).Msg("Scan complete")
	return targets, nil
}
