package note

import "time"

// Note is a dated journal entry. Date is the day the note belongs to, not the
// moment it was written.
type Note struct {
	ID      string
	Date    time.Time
	Title   string
	Content string
	Tags    []string
	Shared  bool
}
