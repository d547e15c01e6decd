package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"voice-assistant/internal/infra/audio"
)

var chatMute bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Type commands instead of speaking them",
	Long: `chat reads one command per line from stdin and runs it exactly as a
spoken command would be run. Replies are printed and, unless --mute is set,
also spoken.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		cfg.Audio.Source = "console"
		// Typed input never needs transcription.
		cfg.STT.Engines = nil
		player := buildPlayer(cfg)
		if chatMute {
			player = audio.DiscardPlayer{}
		}

		source := audio.NewConsoleSource(cmd.InOrStdin(), cmd.OutOrStdout(), "you> ")
		assistant, err := buildAssistant(ctx, cfg, source, player, logger)
		if err != nil {
			return err
		}

		if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatMute, "mute", false, "print replies without speaking them")
}
