// Package pipeline drives the archive-and-remove sequence for every
// discovered directory: dry-run reporting, archive construction, then
// optional removal.
package pipeline

import (
	"io"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/tarpack/pkg/archive"
	"github.com/arthur-debert/tarpack/pkg/logging"
	"github.com/arthur-debert/tarpack/pkg/remover"
	"github.com/arthur-debert/tarpack/pkg/style"
	"github.com/arthur-debert/tarpack/pkg/types"
)

// Pipeline processes scan results sequentially. One entry's
// archive-then-remove sequence fully completes (or fatally aborts the
// run) before the next begins; there is no parallelism.
type Pipeline struct {
	cfg      types.RunConfig
	builder  archive.Builder
	remover  *remover.Supervisor
	printers *style.Printers
}

// New creates a Pipeline. User-facing report lines go to out.
func New(cfg types.RunConfig, builder archive.Builder, sup *remover.Supervisor, out io.Writer) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		builder:  builder,
		remover:  sup,
		printers: style.NewPrinters(out),
	}
}

// Run processes each (archiveName, sourcePath) pair from targets in
// sorted name order. An archive failure aborts the run; a removal
// failure of the unrecoverable kind is logged and contained so the
// already-created archive survives, and the run continues.
func (p *Pipeline) Run(targets map[string]string) (Stats, error) {
	logger := logging.GetLogger("pipeline")
	stats := Stats{Total: len(targets)}

	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		src := targets[name]
		dest := filepath.Join(p.cfg.Root, name)

		if p.cfg.DryRun {
			p.reportDryRun(name, src)
			stats.Planned++
			continue
		}

		logger.Info().Str("src", src).Str("archive", dest).Msg("Archiving directory")
		if err := p.builder.Build(src, dest); err != nil {
			// Fatal to the run: no removal for this entry, no
			// further entries.
			return stats, err
		}
		stats.Archived++
		p.printers.Success.Printfln("Archived %s -> %s", src, name)

		if !p.cfg.Remove {
			logger.Debug().Str("src", src).Msg("Keeping source directory")
			continue
		}

		if err := p.remover.Remove(src); err != nil {
			// Contained: the archive is preserved as evidence of
			// partial success and the run moves on.
			logger.Error().Err(err).Str("src", src).Msg("Removal abandoned")
			p.printers.Warning.Printfln("Left %s in place: %v", src, err)
			stats.FailedRemovals++
			continue
		}
		stats.Removed++
		p.printers.Success.Printfln("Removed %s", src)
	}

	p.reportSummary(stats)
	return stats, nil
}

func (p *Pipeline) reportDryRun(name, src string) {
	p.printers.Info.Printfln("Would archive %s -> %s", src, name)
	if p.cfg.Remove {
		p.printers.Info.Printfln("Would remove %s", src)
	} else {
		p.printers.Info.Printfln("Would NOT remove %s", src)
	}
}

func (p *Pipeline) reportSummary(stats Stats) {
	if p.cfg.DryRun {
		p.printers.Info.Printfln("Dry run: %d directories would be archived", stats.Planned)
		return
	}
	p.printers.Info.Println(stats.String())
}
