// Package types holds the shared value types for tarpack operations.
package types

// RunConfig is the immutable per-run configuration. It is fully resolved
// before any filesystem work starts and is only ever read afterwards.
type RunConfig struct {
	// Root is the resolved target directory whose immediate
	// subdirectories get archived.
	Root string

	// Remove deletes each source directory after its archive
	// has been written successfully.
	Remove bool

	// DryRun reports intended actions without touching the filesystem.
	DryRun bool

	// Verbosity is the -v count (0 WARN, 1 INFO, 2 DEBUG, 3+ TRACE).
	Verbosity int

	// Exclude lists base names of directories to skip during scanning.
	Exclude []string
}
