package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/reelcut/reelcut/internal/logging"
	"github.com/reelcut/reelcut/internal/media"
	"github.com/reelcut/reelcut/internal/reels"
	"github.com/reelcut/reelcut/internal/sentiment"
	"github.com/reelcut/reelcut/internal/transcribe"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "reelcut <input.mp4>",
		Short:        "Cut sentiment-ranked highlight reels from a local video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().String("out", "out", "Output directory")
	root.Flags().Int("top", reels.DefaultTopN, "Segments per reel")
	root.Flags().BoolP("verbose", "v", false, "Verbose logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	topN, _ := cmd.Flags().GetInt("top")
	verbose, _ := cmd.Flags().GetBool("verbose")

	logging.Init(verbose)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return errors.New("OPENAI_API_KEY is required (set it in .env)")
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absIn); err != nil {
		return fmt.Errorf("input video: %w", err)
	}

	videoTool, err := media.NewTool()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	if duration, err := videoTool.ProbeDuration(ctx, absIn); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "input: %s (%.1fs)\n", absIn, duration)
	}

	workDir, err := os.MkdirTemp("", "reelcut-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(workDir)

	generator := reels.NewGenerator(
		videoTool,
		transcribe.NewClient(apiKey),
		sentiment.NewOpenAIClassifier(apiKey),
		topN,
		workDir,
	)

	result, err := generator.Generate(ctx, absIn, outDir)
	if err != nil {
		return err
	}

	failed := 0
	for _, reel := range result.Reels {
		switch {
		case reel.Err != nil:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "reel %d failed: %v\n", reel.Index, reel.Err)
		case reel.Path != "":
			fmt.Fprintf(cmd.OutOrStdout(), "reel %d: %s (%d segments)\n", reel.Index, reel.Path, len(reel.Segments))
		}
	}
	if failed == len(result.Reels) {
		return errors.New("no reels could be generated")
	}
	return nil
}
