package domain

import "context"

// ReportArchiver uploads a finished report file to object storage and
// returns the storage key it was written under.
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, report *RunReport, path string) (string, error)
}
