// Command epub2audio converts an EPUB book into an audiobook: one MP3 per
// chapter plus an optional merged recording. Re-running the command resumes
// where a previous run stopped, since existing chapter files are skipped.
//
// Usage:
//
//	epub2audio [flags] book.epub
//
// Credentials come from the environment (OPENAI_API_KEY or
// ELEVENLABS_API_KEY); a .env file in the working directory is loaded when
// present. Merging requires ffmpeg on PATH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/simp-lee/epub2audio/internal/audio"
	"github.com/simp-lee/epub2audio/internal/pipeline"
	"github.com/simp-lee/epub2audio/internal/tts"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		voice      = flag.String("voice", "alloy", "voice identifier for the synthesis engine")
		outputDir  = flag.String("output", "./output", "base output directory")
		rate       = flag.String("rate", "+0%", "speech rate adjustment, e.g. +15% or -5%")
		engineName = flag.String("engine", "openai", "synthesis engine: openai or elevenlabs")
		noMerge    = flag.Bool("no-merge", false, "keep per-chapter files only, skip the merged recording")
		reportPath = flag.String("report", "", "write a JSON run report to this path")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] book.epub\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	epubPath := flag.Arg(0)

	if _, err := tts.ParseRate(*rate); err != nil {
		fmt.Fprintf(os.Stderr, "epub2audio: %v\n", err)
		return 2
	}

	// Optional; credentials may come from the real environment instead.
	_ = godotenv.Load()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "epub2audio: init logging: %v\n", err)
		return 1
	}
	defer log.Sync()

	engine, err := tts.NewEngine(*engineName)
	if err != nil {
		log.Error("engine setup failed", zap.Error(err))
		return 1
	}

	p := pipeline.New(engine, audio.NewFFmpegMerger(), log, pipeline.Config{
		OutputDir: *outputDir,
		Voice:     *voice,
		Rate:      *rate,
		Merge:     !*noMerge,
	})

	report, err := p.Run(context.Background(), epubPath)
	if err != nil {
		log.Error("conversion aborted", zap.Error(err))
		return 1
	}

	if *reportPath != "" {
		if err := report.WriteFile(*reportPath); err != nil {
			log.Error("report not written", zap.Error(err))
		}
	}

	// Per-chapter failures are recorded in the report, not turned into a
	// non-zero exit: the partial output is valid and a re-run fills the gaps.
	log.Info(report.Summary())
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}
