package domain

import "time"

// TaskReport is the metadata of a rendered task document. TaskTitle is the
// title at render time; the payload lives in a separate store.
type TaskReport struct {
	ID            string
	TaskID        string
	TaskTitle     string
	CreatedBy     string
	CreatedByName string
	CreatedAt     time.Time
}
