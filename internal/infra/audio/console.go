package audio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"voice-assistant/internal/application"
	"voice-assistant/internal/domain"
)

// ConsoleSource reads one text command per line. It is the keyboard
// counterpart of the microphone and the input of the chat command.
type ConsoleSource struct {
	in     io.Reader
	out    io.Writer
	prompt string

	once  sync.Once
	lines chan string
	err   error
}

func NewConsoleSource(in io.Reader, out io.Writer, prompt string) *ConsoleSource {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = io.Discard
	}
	return &ConsoleSource{
		in:     in,
		out:    out,
		prompt: prompt,
		lines:  make(chan string),
	}
}

func (c *ConsoleSource) Name() string {
	return "console"
}

func (c *ConsoleSource) Start(_ context.Context) error {
	c.once.Do(func() {
		go c.scan()
	})
	return nil
}

func (c *ConsoleSource) Stop() error {
	return nil
}

func (c *ConsoleSource) scan() {
	defer close(c.lines)
	scanner := bufio.NewScanner(c.in)
	for scanner.Scan() {
		c.lines <- scanner.Text()
	}
	c.err = scanner.Err()
}

func (c *ConsoleSource) NextCommand(ctx context.Context) ([]byte, error) {
	for {
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line, ok := <-c.lines:
			if !ok {
				if c.err != nil {
					return nil, fmt.Errorf("reading console: %w", c.err)
				}
				return nil, application.ErrSourceClosed
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			return []byte(domain.TextCommandPrefix + line), nil
		}
	}
}

// Notify prints replies so the console doubles as a notifier.
func (c *ConsoleSource) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintf(c.out, "assistant> %s\n", message)
	return err
}
