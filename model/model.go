package model

// Candidate is one proposed file content extracted from the source, to be
// reviewed against the version currently on disk.
type Candidate struct {
	Path    string
	Content string
}

// Summary holds the results of a run for display.
type Summary struct {
	Applied []string
	Skipped []string
	Failed  []string
	Message string
}
