package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runSource string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Listen for commands and answer them until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		name := cfg.Audio.Source
		if runSource != "" {
			name = runSource
		}
		cfg.Audio.Source = name

		source, err := buildSource(cfg, name, os.Stdin, os.Stdout, logger)
		if err != nil {
			return err
		}

		assistant, err := buildAssistant(ctx, cfg, source, buildPlayer(cfg), logger)
		if err != nil {
			return err
		}

		logger.Info("starting voice assistant",
			"audio_source", name,
			"chat_provider", cfg.Assistant.ChatProvider,
			"stt", cfg.STT.Engines,
			"tts", cfg.TTS.Engines,
		)

		if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("shutting down")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&runSource, "source", "s", "", "command source: microphone, http, file or console (overrides config)")
}
