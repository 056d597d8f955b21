// Package journal keeps a durable record of upload sessions.
//
// Every finished session becomes a row in the uploads table; completed
// uploads additionally update stored_files, which holds the latest upload of
// each path. Both writes happen in one transaction. The journal is optional:
// the server only opens it when a database DSN is configured, and a failed
// journal write never fails the upload itself.
package journal

import "time"

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Entry is one upload session.
type Entry struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	TargetDir string `json:"target_dir"`
	// Path is the stored file relative to the storage root, empty when the
	// destination was never resolved.
	Path       string    `json:"path"`
	Bytes      int64     `json:"bytes"`
	Checksum   string    `json:"checksum,omitempty"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
