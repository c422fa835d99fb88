// Package archive builds tar containers from directory trees.
package archive

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arthur-debert/tarpack/pkg/errors"
	"github.com/arthur-debert/tarpack/pkg/logging"
)

// Builder writes the full recursive contents of a source directory into
// a tar-format container file. Implementations perform no removal;
// removal is sequenced after a successful build by the pipeline.
type Builder interface {
	// Build creates (or truncates) dest and appends src recursively.
	// Entry names inside the archive are rooted at src's base name, so
	// extracting at src's parent reproduces src. A failed build may
	// leave a partially written dest behind; it is not cleaned up.
	Build(src, dest string) error
}

type tarBuilder struct {
	fs afero.Fs
}

// NewBuilder returns a Builder that archives trees from fsys using the
// standard tar format, preserving mode bits and modification times.
func NewBuilder(fsys afero.Fs) Builder {
	return &tarBuilder{fs: fsys}
}

func (b *tarBuilder) Build(src, dest string) error {
	logger := logging.GetLogger("archive")
	logger.Debug().Str("src", src).Str("dest", dest).Msg("Building archive")

	out, err := b.fs.Create(dest)
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveCreate, "cannot create archive %s", dest)
	}

	walkRoot := b.resolveRoot(src)
	base := filepath.Base(filepath.Clean(src))

	tw := tar.NewWriter(out)
	err = afero.Walk(b.fs, walkRoot, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		return b.writeEntry(tw, walkRoot, base, path, info)
	})

	if err == nil {
		err = tw.Close()
	} else {
		_ = tw.Close()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrArchiveWrite, "archiving %s", src)
	}

	logger.Info().Str("src", src).Str("dest", dest).Msg("Archive created")
	return nil
}

// writeEntry appends one walked entry to the tar stream. Names are
// slash-separated and rooted at the source directory's base name.
func (b *tarBuilder) writeEntry(tw *tar.Writer, walkRoot, base, path string, info os.FileInfo) error {
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil {
		return err
	}
	name := base
	if rel != "." {
		name = filepath.ToSlash(filepath.Join(base, rel))
	}

	link := ""
	if info.Mode()&os.ModeSymlink != 0 {
		reader, ok := b.fs.(afero.LinkReader)
		if !ok {
			// Backing filesystem cannot resolve links; skip the entry.
			return nil
		}
		if link, err = reader.ReadlinkIfPossible(path); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := b.fs.Open(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// resolveRoot dereferences src when it is itself a symlink so the walk
// descends into the link's target. Archive entry names still use the
// link's own base name.
func (b *tarBuilder) resolveRoot(src string) string {
	lstater, ok := b.fs.(afero.Lstater)
	if !ok {
		return src
	}
	info, usedLstat, err := lstater.LstatIfPossible(src)
	if err != nil || !usedLstat || info.Mode()&os.ModeSymlink == 0 {
		return src
	}
	reader, ok := b.fs.(afero.LinkReader)
	if !ok {
		return src
	}
	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return src
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(src), target)
	}
	return target
}
