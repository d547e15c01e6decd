package domain

import "time"

type Note struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"note"`
}

type Event struct {
	UID     string
	Summary string
	Start   time.Time
	End     time.Time
	Path    string
}

type Reminder struct {
	ID      string
	Message string
	DueAt   time.Time
}
