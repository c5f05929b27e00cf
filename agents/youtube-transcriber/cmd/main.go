package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	youtubetranscriber "yt-transcriber/agents/youtube-transcriber"
	"yt-transcriber/shared/config"
	"yt-transcriber/shared/logging"
	"yt-transcriber/shared/runner"
)

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println("YouTube Video Transcription Tool")
	fmt.Println("--------------------------------")

	cfg, err := config.Load()
	if err != nil {
		youtubetranscriber.PrintFailure(os.Stdout, err)
		return 1
	}

	logger := logging.New(cfg.LogLevel).With().Str("run_id", uuid.NewString()).Logger()

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := youtubetranscriber.NewTranscriberAgent(cfg, logger, os.Stdin, os.Stdout)
	r := runner.New(logger, agent)

	if err := r.RunOnce(ctx); err != nil {
		youtubetranscriber.PrintFailure(os.Stdout, err)
		return 1
	}

	fmt.Println("\nTranscription completed successfully!")
	return 0
}
