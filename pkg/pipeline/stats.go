package pipeline

import "fmt"

// Stats aggregates the outcome of one run.
type Stats struct {
	// Total is the number of discovered directories.
	Total int
	// Archived counts successfully written archives.
	Archived int
	// Removed counts source directories deleted after archiving.
	Removed int
	// Planned counts dry-run entries that would have been archived.
	Planned int
	// FailedRemovals counts directories left in place after an
	// unrecoverable removal error. Their archives still exist.
	FailedRemovals int
}

func (s Stats) String() string {
	return fmt.Sprintf("Done: %d archived, %d removed, %d removal failures",
		s.Archived, s.Removed, s.FailedRemovals)
}
