package application

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

var DefaultInterruptWords = []string{"stop", "cancel"}

var (
	timerPattern    = regexp.MustCompile(`\b(timer|remind\w*)\b`)
	notePattern     = regexp.MustCompile(`\b(note|notes|remember)\b`)
	eventPattern    = regexp.MustCompile(`\b(event|events|schedule|calendar)\b`)
	durationPattern = regexp.MustCompile(`(\d+)\s*(seconds|second|minutes|minute|hours|hour)`)
	messagePattern  = regexp.MustCompile(`\bto (.+)$`)
)

const defaultReminderMessage = "your reminder"

// Router classifies an utterance into a command. It holds no state besides
// the interrupt vocabulary and is safe for concurrent use.
type Router struct {
	interruptWords map[string]struct{}
}

func NewRouter(interruptWords []string) *Router {
	if len(interruptWords) == 0 {
		interruptWords = DefaultInterruptWords
	}
	words := make(map[string]struct{}, len(interruptWords))
	for _, w := range interruptWords {
		words[normalize(w)] = struct{}{}
	}
	return &Router{interruptWords: words}
}

func (r *Router) IsInterrupt(text string) bool {
	_, ok := r.interruptWords[normalize(text)]
	return ok
}

func (r *Router) Route(text string) domain.Command {
	lower := strings.ToLower(strings.TrimSpace(text))
	cmd := domain.Command{RawText: text}

	switch {
	case r.IsInterrupt(lower):
		cmd.Intent = domain.IntentInterrupt
	case timerPattern.MatchString(lower):
		cmd.Intent = domain.IntentTimer
		parseTimer(lower, &cmd)
	case notePattern.MatchString(lower):
		cmd.Intent = domain.IntentNote
	case eventPattern.MatchString(lower):
		cmd.Intent = domain.IntentEvent
	default:
		cmd.Intent = domain.IntentChat
	}

	return cmd
}

func parseTimer(lower string, cmd *domain.Command) {
	m := durationPattern.FindStringSubmatch(lower)
	if m == nil {
		return
	}

	amount, err := strconv.Atoi(m[1])
	if err != nil || amount <= 0 {
		return
	}

	unit := time.Second
	switch {
	case strings.HasPrefix(m[2], "minute"):
		unit = time.Minute
	case strings.HasPrefix(m[2], "hour"):
		unit = time.Hour
	}
	if int64(amount) > math.MaxInt64/int64(unit) {
		return
	}

	cmd.Amount = amount
	cmd.Unit = m[2]
	cmd.Delay = time.Duration(amount) * unit
	cmd.Message = defaultReminderMessage

	if mm := messagePattern.FindStringSubmatch(lower); mm != nil {
		if msg := strings.TrimSpace(mm[1]); msg != "" {
			cmd.Message = strings.TrimRight(msg, ".!?")
		}
	}
}

// normalize lower-cases and strips the punctuation STT engines like to add
// around single-word utterances ("Stop.").
func normalize(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), " .,!?;:\"'")
}
