package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"voice-assistant/internal/domain"
)

const rescanInterval = 2 * time.Second

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".m4a":  true,
	".webm": true,
}

// FileSource treats a directory as an inbox: audio files are transcribed,
// .txt files are read as text commands. Each file is consumed once and
// renamed with a .processed suffix.
type FileSource struct {
	dir    string
	logger *slog.Logger

	mu        sync.Mutex
	processed map[string]bool
	watcher   *fsnotify.Watcher
	pending   chan struct{}
}

func NewFileSource(dir string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		dir:       dir,
		logger:    logger,
		processed: make(map[string]bool),
		pending:   make(chan struct{}, 1),
	}
}

func (f *FileSource) Name() string {
	return "file"
}

func (f *FileSource) Start(ctx context.Context) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating inbox dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %s: %w", f.dir, err)
	}

	f.mu.Lock()
	f.watcher = watcher
	f.mu.Unlock()

	go f.watch(ctx, watcher)
	f.signal()

	f.logger.Info("watching inbox directory", "dir", f.dir)
	return nil
}

func (f *FileSource) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	f.watcher = nil
	return err
}

func (f *FileSource) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename) {
				f.signal()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("inbox watcher error", "error", err)
		}
	}
}

func (f *FileSource) signal() {
	select {
	case f.pending <- struct{}{}:
	default:
	}
}

func (f *FileSource) NextCommand(ctx context.Context) ([]byte, error) {
	ticker := time.NewTicker(rescanInterval)
	defer ticker.Stop()

	for {
		data, err := f.checkForNewFile()
		if err != nil {
			return nil, err
		}
		if data != nil {
			return data, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-f.pending:
		case <-ticker.C:
		}
	}
}

func (f *FileSource) checkForNewFile() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("reading dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		isText := ext == ".txt"
		if !isText && !audioExtensions[ext] {
			continue
		}

		path := filepath.Join(f.dir, entry.Name())
		if f.processed[path] {
			continue
		}

		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading file %s: %w", path, err)
		}

		f.processed[path] = true
		if err := os.Rename(path, path+".processed"); err != nil {
			f.logger.Warn("could not mark file processed", "path", path, "error", err)
		}

		if isText {
			text := strings.TrimSpace(string(data))
			if text == "" {
				continue
			}
			f.logger.Info("read text command from file", "path", path)
			return []byte(domain.TextCommandPrefix + text), nil
		}

		if len(data) == 0 {
			continue
		}
		f.logger.Info("read audio command from file", "path", path, "bytes", len(data))
		return data, nil
	}

	return nil, nil
}
