package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voice-assistant/internal/infra/calendar"
	"voice-assistant/internal/infra/dateparse"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect or add calendar events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events written to the calendar directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		writer := calendar.NewWriter(cfg.Calendar.Dir, cfg.Calendar.EventDuration, logger)
		events, err := writer.ListEvents(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "no events")
			return nil
		}
		for _, e := range events {
			fmt.Fprintf(out, "%s  %s  (%s)\n", e.Start.Local().Format(time.DateTime), e.Summary, e.Path)
		}
		return nil
	},
}

var eventsAddCmd = &cobra.Command{
	Use:     "add <text>",
	Short:   "Create an event from a natural-language description",
	Example: `  assistant events add "dentist next friday at 10am"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		start, ok, err := dateparse.NewParser().Parse(text, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no date or time found in %q", text)
		}

		writer := calendar.NewWriter(cfg.Calendar.Dir, cfg.Calendar.EventDuration, logger)
		event, err := writer.AddEvent(cmd.Context(), text, start)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Event saved to %s (%s)\n", event.Path, event.Start.Local().Format(time.DateTime))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsAddCmd)
}
