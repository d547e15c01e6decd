package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"voice-assistant/internal/domain"
)

const (
	DefaultDir      = "calendar"
	DefaultDuration = 30 * time.Minute

	productID = "-//voice-assistant//EN"
)

// Writer stores each event as its own .ics file so that it can be imported
// into any calendar application individually.
type Writer struct {
	dir      string
	duration time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewWriter(dir string, duration time.Duration, logger *slog.Logger) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Writer{dir: dir, duration: duration, logger: logger, now: time.Now}
}

func (w *Writer) AddEvent(_ context.Context, summary string, start time.Time) (*domain.Event, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating calendar dir: %w", err)
	}

	event := &domain.Event{
		UID:     uuid.NewString(),
		Summary: summary,
		Start:   start,
		End:     start.Add(w.duration),
	}
	event.Path = filepath.Join(w.dir, fmt.Sprintf("event_%s.ics", event.UID))

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	vevent := cal.AddEvent(event.UID)
	vevent.SetDtStampTime(w.now())
	vevent.SetStartAt(event.Start)
	vevent.SetEndAt(event.End)
	vevent.SetSummary(event.Summary)

	if err := os.WriteFile(event.Path, []byte(cal.Serialize()), 0644); err != nil {
		return nil, fmt.Errorf("writing event: %w", err)
	}

	w.logger.Info("event saved", "path", event.Path, "start", event.Start)
	return event, nil
}

func (w *Writer) ListEvents(_ context.Context) ([]domain.Event, error) {
	paths, err := filepath.Glob(filepath.Join(w.dir, "*.ics"))
	if err != nil {
		return nil, fmt.Errorf("listing calendar dir: %w", err)
	}

	var events []domain.Event
	for _, path := range paths {
		parsed, err := readEvents(path)
		if err != nil {
			w.logger.Warn("skipping unreadable calendar file", "path", path, "error", err)
			continue
		}
		events = append(events, parsed...)
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	return events, nil
}

func readEvents(path string) ([]domain.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cal, err := ics.ParseCalendar(f)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	var events []domain.Event
	for _, ve := range cal.Events() {
		start, err := ve.GetStartAt()
		if err != nil {
			return nil, fmt.Errorf("event %s start: %w", ve.Id(), err)
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end = start
		}

		var summary string
		if p := ve.GetProperty(ics.ComponentPropertySummary); p != nil {
			summary = p.Value
		}

		events = append(events, domain.Event{
			UID:     ve.Id(),
			Summary: summary,
			Start:   start,
			End:     end,
			Path:    path,
		})
	}

	return events, nil
}
