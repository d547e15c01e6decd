package domain

import "time"

type Intent string

const (
	IntentTimer     Intent = "timer"
	IntentNote      Intent = "note"
	IntentEvent     Intent = "event"
	IntentChat      Intent = "chat"
	IntentInterrupt Intent = "interrupt"
)

// TextCommandPrefix is the marker used to indicate text commands (vs audio)
const TextCommandPrefix = "__TEXT__:"

type Command struct {
	Intent  Intent
	RawText string

	// Timer fields. Delay is zero when no duration could be recognised.
	Amount  int
	Unit    string
	Delay   time.Duration
	Message string
}
