package model

// TestStatus is the outcome recorded for a log file
type TestStatus string

const (
	TestStatusPassed TestStatus = "passed"
	TestStatusFailed TestStatus = "failed"
)

// TestRecord represents a single log file turned into a test result
type TestRecord struct {
	// Base name of the log file
	Name string
	// Outcome derived from Content
	Status TestStatus
	// Log text with terminal escape sequences removed
	Content string
	// Path of the log file as discovered
	Path string
}
