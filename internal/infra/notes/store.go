package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voice-assistant/internal/domain"
)

const DefaultFile = "assistant_notes.json"

// JSONStore keeps notes as a single indented JSON array. Writes go through a
// temp file and rename so a crash never leaves a half-written file behind.
type JSONStore struct {
	path   string
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	if path == "" {
		path = DefaultFile
	}
	return &JSONStore{path: path, logger: logger, now: time.Now}
}

func (s *JSONStore) Path() string {
	return s.path
}

func (s *JSONStore) Add(_ context.Context, text string) (domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	notes, err := s.load()
	if err != nil {
		return domain.Note{}, err
	}

	note := domain.Note{Timestamp: s.now(), Text: text}
	notes = append(notes, note)

	if err := s.write(notes); err != nil {
		return domain.Note{}, err
	}

	s.logger.Info("note saved", "path", s.path, "count", len(notes))
	return note, nil
}

func (s *JSONStore) List(_ context.Context) ([]domain.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONStore) load() ([]domain.Note, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading notes: %w", err)
	}

	var notes []domain.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		backup := s.path + ".corrupt"
		s.logger.Warn("notes file unreadable, starting a new one", "path", s.path, "backup", backup, "error", err)
		if err := os.Rename(s.path, backup); err != nil {
			return nil, fmt.Errorf("moving corrupt notes aside: %w", err)
		}
		return nil, nil
	}

	return notes, nil
}

func (s *JSONStore) write(notes []domain.Note) error {
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding notes: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating notes dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing notes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing notes: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing notes: %w", err)
	}

	return nil
}
