package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"voice-assistant/internal/infra/notes"
)

var notesJSON bool

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Inspect or add saved notes",
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved notes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notes.NewJSONStore(cfg.Notes.File, logger)
		list, err := store.List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if notesJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(list)
		}

		if len(list) == 0 {
			fmt.Fprintln(out, "no notes")
			return nil
		}
		for _, n := range list {
			fmt.Fprintf(out, "%s  %s\n", n.Timestamp.Local().Format(time.DateTime), n.Text)
		}
		return nil
	},
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Save a note",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := notes.NewJSONStore(cfg.Notes.File, logger)
		if _, err := store.Add(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Note saved to %s\n", store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.AddCommand(notesListCmd, notesAddCmd)
	notesListCmd.Flags().BoolVar(&notesJSON, "json", false, "output in JSON format")
}
