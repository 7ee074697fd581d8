package model

// OutcomeStatus is the terminal classification of one item's processing.
type OutcomeStatus int

const (
	// OutcomeSkipped means a file matching the naming convention already
	// existed and no transfer was attempted.
	OutcomeSkipped OutcomeStatus = iota

	// OutcomeDownloaded means the transfer completed. Path carries the
	// resolved on-disk location, or "" when the produced file could not
	// be located afterwards (tagging is then skipped with a warning, but
	// the item still counts as downloaded).
	OutcomeDownloaded

	// OutcomeFailed means the transfer did not complete; Err carries the
	// reason.
	OutcomeFailed
)

// Outcome is produced exactly once per item and never mutated.
type Outcome struct {
	Status OutcomeStatus
	Path   string
	Err    error
}

// Skipped returns a pre-existing-file outcome.
func Skipped() Outcome {
	return Outcome{Status: OutcomeSkipped}
}

// Downloaded returns a successful outcome with the resolved path.
// path may be empty when the produced file could not be located.
func Downloaded(path string) Outcome {
	return Outcome{Status: OutcomeDownloaded, Path: path}
}

// Failed returns a failure outcome carrying err.
func Failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}

// Summary accumulates per-item outcomes over a batch run. Its counters
// are written only by the batch aggregator; at completion
// Downloaded+Skipped+Errors equals the resource's TotalCount.
type Summary struct {
	Downloaded int
	Skipped    int
	Errors     int
}

// Record counts one outcome.
func (s *Summary) Record(o Outcome) {
	switch o.Status {
	case OutcomeSkipped:
		s.Skipped++
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeFailed:
		s.Errors++
	}
}

// Total is the number of items accounted for so far.
func (s *Summary) Total() int {
	return s.Downloaded + s.Skipped + s.Errors
}
