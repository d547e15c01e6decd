package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/audio"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Speak text once through the configured TTS chain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tts, err := buildTTS(cfg, logger)
		if err != nil {
			return err
		}

		player := buildPlayer(cfg)
		speaker := application.NewSpeaker(tts, player, logger)
		if err := speaker.SpeakNow(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}

		if fp, ok := player.(*audio.FilePlayer); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", fp.Path())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sayCmd)
}
