// Package cli wires the tarpack command line. Everything here is flag
// parsing and dependency assembly; the work happens in pkg/scanner,
// pkg/archive, pkg/remover and pkg/pipeline.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/tarpack/internal/version"
	"github.com/arthur-debert/tarpack/pkg/archive"
	"github.com/arthur-debert/tarpack/pkg/config"
	"github.com/arthur-debert/tarpack/pkg/errors"
	"github.com/arthur-debert/tarpack/pkg/logging"
	"github.com/arthur-debert/tarpack/pkg/pipeline"
	"github.com/arthur-debert/tarpack/pkg/remover"
	"github.com/arthur-debert/tarpack/pkg/scanner"
	"github.com/arthur-debert/tarpack/pkg/types"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var (
		verbosity  int
		removeFlag bool
		dryRun     bool
		exclude    []string
	)

	rootCmd := &cobra.Command{
		Use:   "tarpack [target-dir]",
		Short: "Archive every subdirectory into its own tar file",
		Long: `tarpack archives each immediate subdirectory of a target directory into
a standalone tar file named after the subdirectory, next to it. With
--remove the source directory is deleted once its archive has been
written; removal retries busy and permission errors after you resolve
them and press Enter.

The target directory defaults to the current working directory.`,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging based on verbosity
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchive(cmd, args, types.RunConfig{
				Remove:    removeFlag,
				DryRun:    dryRun,
				Verbosity: verbosity,
				Exclude:   exclude,
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	// Global flags
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.Flags().BoolVarP(&removeFlag, "remove", "r", false, "Remove each directory after it has been archived")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "List directories that would be archived without creating archives")
	rootCmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Directory name to skip (repeatable)")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tarpack version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
		},
	}
}

// runArchive resolves the run configuration and drives the pipeline.
func runArchive(cmd *cobra.Command, args []string, flags types.RunConfig) error {
	fsys := afero.NewOsFs()

	fileCfg, err := config.Load(fsys)
	if err != nil {
		return err
	}

	root, err := resolveRoot(fsys, args)
	if err != nil {
		return err
	}

	cfg := types.RunConfig{
		Root:      root,
		Remove:    flags.Remove || fileCfg.Remove,
		DryRun:    flags.DryRun || fileCfg.DryRun,
		Verbosity: flags.Verbosity,
		Exclude:   append(fileCfg.Exclude, flags.Exclude...),
	}
	log.Debug().
		Str("root", cfg.Root).
		Bool("remove", cfg.Remove).
		Bool("dryRun", cfg.DryRun).
		Msg("Run configuration resolved")

	targets, err := scanner.Scan(fsys, cfg.Root, cfg.Exclude)
	if err != nil {
		return err
	}

	sup := remover.New(fsys, remover.Interactive(cmd.InOrStdin(), cmd.OutOrStdout()))
	p := pipeline.New(cfg, archive.NewBuilder(fsys), sup, cmd.OutOrStdout())

	_, err = p.Run(targets)
	return err
}

// resolveRoot picks the target directory. An explicitly supplied path
// must exist; without one the current working directory is used.
func resolveRoot(fsys afero.Fs, args []string) (string, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInvalidInput, "cannot determine working directory")
		}
		return wd, nil
	}

	target := filepath.Clean(args[0])
	info, err := fsys.Stat(target)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTargetNotFound, "target directory does not exist: %s", args[0])
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrInvalidInput, "target is not a directory: %s", args[0])
	}
	return target, nil
}
