package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"voice-assistant/internal/domain"
)

const defaultDrainTimeout = 30 * time.Second

const (
	replyNoteSaved       = "Note saved."
	replyNoteFailed      = "Sorry, I couldn't save that note."
	replyTimerUsage      = "Tell me like: remind me in 5 minutes to check the oven."
	replyEventNoTime     = "I couldn't understand the time. Try: schedule meeting tomorrow at 3 pm."
	replyEventFailed     = "Sorry, I couldn't save that event."
	replyChatUnavailable = "Sorry, I couldn't reach the chat service."
)

type Dependencies struct {
	Audio        AudioSource
	STT          SpeechToText
	Router       *Router
	Conversation *Conversation
	Notes        NoteStore
	Calendar     Calendar
	Dates        TimeParser
	Reminders    *Scheduler
	Speaker      *Speaker
	Notifier     Notifier
	WakeWord     string
	// DrainTimeout bounds how long Run waits for queued speech once the
	// source is exhausted. Zero means 30 seconds.
	DrainTimeout time.Duration
	Logger       *slog.Logger
}

type Assistant struct {
	audio        AudioSource
	stt          SpeechToText
	router       *Router
	conversation *Conversation
	notes        NoteStore
	calendar     Calendar
	dates        TimeParser
	reminders    *Scheduler
	speaker      *Speaker
	notifier     Notifier
	wakeWord     *regexp.Regexp
	drainTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewAssistant(deps Dependencies) *Assistant {
	a := &Assistant{
		audio:        deps.Audio,
		stt:          deps.STT,
		router:       deps.Router,
		conversation: deps.Conversation,
		notes:        deps.Notes,
		calendar:     deps.Calendar,
		dates:        deps.Dates,
		reminders:    deps.Reminders,
		speaker:      deps.Speaker,
		notifier:     deps.Notifier,
		wakeWord:     wakeWordPattern(deps.WakeWord),
		drainTimeout: deps.DrainTimeout,
		logger:       deps.Logger,
		now:          time.Now,
	}
	if a.stt == nil {
		a.stt = &NoopSTT{}
	}
	if a.router == nil {
		a.router = NewRouter(nil)
	}
	if a.notifier == nil {
		a.notifier = &NoopNotifier{}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.drainTimeout <= 0 {
		a.drainTimeout = defaultDrainTimeout
	}
	return a
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()

	if a.speaker != nil {
		go a.speaker.Run(ctx)
	}
	if a.reminders != nil {
		defer a.reminders.Stop()
	}

	a.logger.Info("assistant ready, listening for commands")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOneCommand(ctx); err != nil {
				if errors.Is(err, ErrSourceClosed) {
					a.logger.Info("audio source closed")
					a.drainSpeech(ctx)
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				a.logger.Error("processing command", "error", err)
			}
		}
	}
}

func (a *Assistant) processOneCommand(ctx context.Context) error {
	audioData, err := a.audio.NextCommand(ctx)
	if err != nil {
		return fmt.Errorf("getting audio: %w", err)
	}

	if len(audioData) == 0 {
		return nil
	}

	var text string

	if directText, isText := isTextCommand(audioData); isText {
		a.logger.Info("received text command directly", "text", directText)
		text = directText
	} else {
		a.logger.Info("received audio", "bytes", len(audioData))

		text, err = a.stt.Transcribe(ctx, audioData)
		if err != nil {
			return fmt.Errorf("transcribing: %w", err)
		}

		a.logger.Info("transcribed", "text", text)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if !a.router.IsInterrupt(text) {
		var heard bool
		if text, heard = a.stripWakeWord(text); !heard {
			a.logger.Debug("wake word not heard, ignoring", "text", text)
			return nil
		}
	}

	reply, handleErr := a.Handle(ctx, text)
	if reply != "" {
		a.logger.Info("assistant reply", "text", reply)
		if a.speaker != nil {
			a.speaker.Say(reply)
		}
		if err := a.notifier.Notify(ctx, reply); err != nil {
			a.logger.Error("notifying reply", "error", err)
		}
	}

	if handleErr != nil {
		return fmt.Errorf("handling %q: %w", text, handleErr)
	}
	return nil
}

// Handle executes one utterance and returns the reply to speak. On failure the
// reply is an apology suitable for the user and err carries the cause.
func (a *Assistant) Handle(ctx context.Context, text string) (string, error) {
	cmd := a.router.Route(text)

	a.logger.Debug("routed", "intent", cmd.Intent, "text", text)

	switch cmd.Intent {
	case domain.IntentInterrupt:
		if a.speaker != nil {
			a.speaker.Interrupt()
		}
		return "", nil

	case domain.IntentTimer:
		if cmd.Delay <= 0 || a.reminders == nil {
			return replyTimerUsage, nil
		}
		a.reminders.Schedule(ctx, cmd.Message, cmd.Delay)
		return fmt.Sprintf("Okay, I will remind you in %d %s.", cmd.Amount, cmd.Unit), nil

	case domain.IntentNote:
		if _, err := a.notes.Add(ctx, text); err != nil {
			return replyNoteFailed, fmt.Errorf("saving note: %w", err)
		}
		return replyNoteSaved, nil

	case domain.IntentEvent:
		start, ok, err := a.dates.Parse(text, a.now())
		if err != nil {
			return replyEventNoTime, fmt.Errorf("parsing event time: %w", err)
		}
		if !ok {
			return replyEventNoTime, nil
		}
		event, err := a.calendar.AddEvent(ctx, text, start)
		if err != nil {
			return replyEventFailed, fmt.Errorf("saving event: %w", err)
		}
		return fmt.Sprintf("Event saved to %s", event.Path), nil

	default:
		reply, err := a.conversation.Ask(ctx, text)
		if err != nil {
			return replyChatUnavailable, err
		}
		return reply, nil
	}
}

func (a *Assistant) stripWakeWord(text string) (string, bool) {
	if a.wakeWord == nil {
		return text, true
	}
	loc := a.wakeWord.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	rest := strings.Trim(text[loc[1]:], " ,.!?")
	return rest, rest != ""
}

// wakeWordPattern matches the wake word case-insensitively on the original
// text, as a whole word where its edges are word characters.
func wakeWordPattern(word string) *regexp.Regexp {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}
	expr := regexp.QuoteMeta(word)
	if isWordByte(word[0]) {
		expr = `\b` + expr
	}
	if isWordByte(word[len(word)-1]) {
		expr += `\b`
	}
	return regexp.MustCompile(`(?i)` + expr)
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isTextCommand(data []byte) (string, bool) {
	if len(data) > len(domain.TextCommandPrefix) && string(data[:len(domain.TextCommandPrefix)]) == domain.TextCommandPrefix {
		return string(data[len(domain.TextCommandPrefix):]), true
	}
	return "", false
}

func (a *Assistant) drainSpeech(ctx context.Context) {
	if a.speaker == nil {
		return
	}
	drainCtx, cancel := context.WithTimeout(ctx, a.drainTimeout)
	defer cancel()
	if err := a.speaker.Wait(drainCtx); err != nil {
		a.logger.Warn("pending speech not finished", "error", err)
	}
}
