package domain

import "time"

// Todo is a single todo record. ID, CreatedAt and UpdatedAt are owned by storage
// and the service layer; timestamps carry seconds resolution.
type Todo struct {
	ID          int64
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoUpdateParams holds the full replacement state written by an update.
// CreatedAt is never part of an update.
type TodoUpdateParams struct {
	Title       string
	Description string
	Completed   bool
	UpdatedAt   time.Time
}

// UnixSeconds truncates t to whole seconds in UTC, the resolution todos are stored with.
func UnixSeconds(t time.Time) time.Time {
	return time.Unix(t.Unix(), 0).UTC()
}
