package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"batchedit/internal/batch"
	"batchedit/internal/imagegen"
	"batchedit/internal/infra"
	"batchedit/internal/storage"
)

func main() {
	dir := flag.String("dir", ".", "directory of images to edit")
	out := flag.String("out", "edited", "output directory for edited images and the archive")
	instruction := flag.String("instruction", "", "edit instruction applied to every image")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		if errors.Is(err, infra.ErrMissingCredential) {
			fmt.Fprintln(os.Stderr, "missing credential: set DASHSCOPE_API_KEY")
			os.Exit(1)
		}
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if *instruction == "" {
		fmt.Fprintln(os.Stderr, "usage: batchedit -dir <images> -out <dir> -instruction <text>")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := batch.NewSession()
	if err := loadDirectory(session, *dir, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to load images")
	}
	if session.Len() == 0 {
		logger.Fatal().Str("dir", *dir).Msg("no usable images found")
	}

	editor := imagegen.NewClient(imagegen.Options{
		APIKey:         cfg.DashScopeAPIKey,
		BaseURL:        cfg.QwenBaseURL,
		Model:          cfg.QwenEditModel,
		Watermark:      cfg.QwenWatermark,
		Logger:         &logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	runner := batch.NewRunner(editor, imagegen.RetryPolicy{
		MaxAttempts: cfg.EditMaxAttempts,
		Delay:       cfg.EditRetryDelay,
	}, logger)
	runner.OnProgress(func(completed, total int) {
		logger.Info().Int("completed", completed).Int("total", total).Msg("progress")
	})

	results, err := runner.Run(ctx, session, *instruction)
	if err != nil {
		logger.Fatal().Err(err).Msg("batch run refused")
	}

	store, err := storage.NewFileStore(*out)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare output directory")
	}
	writeResults(ctx, store, results, logger)

	summary := batch.Summarize(results)
	logger.Info().
		Int("total", summary.Total).
		Int("succeeded", summary.Succeeded).
		Int("failed", summary.Failed).
		Int64("output_bytes", summary.OutputBytes).
		Msg("batch finished")
	if summary.Succeeded == 0 {
		os.Exit(1)
	}
}

func loadDirectory(session *batch.Session, dir string, logger infra.Logger) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			logger.Warn().Str("file", entry.Name()).Err(err).Msg("skipping unreadable file")
			continue
		}
		img, err := batch.Validate(entry.Name(), data)
		if err != nil {
			var rej *batch.RejectionError
			if errors.As(err, &rej) {
				logger.Warn().Str("file", entry.Name()).Str("reason", string(rej.Kind)).Msg(rej.Message)
				continue
			}
			return err
		}
		if _, status := session.Add(img); status == batch.AddSkippedFull {
			logger.Warn().Str("file", entry.Name()).Msgf("session full, only the first %d images are kept", batch.MaxSessionImages)
		}
	}
	return nil
}

func writeResults(ctx context.Context, store *storage.FileStore, results []batch.Result, logger infra.Logger) {
	index := 0
	for _, res := range results {
		if !res.Success {
			logger.Warn().
				Str("file", res.Filename).
				Str("kind", string(res.Kind)).
				Msg(res.Message)
			continue
		}
		index++
		key := batch.ArchiveEntryName(index, res.Filename)
		if _, err := store.Write(ctx, key, res.EditedBytes); err != nil {
			logger.Error().Str("file", res.Filename).Err(err).Msg("failed to write edited image")
		}
	}

	archive, err := batch.BuildArchive(results)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build archive")
		return
	}
	key := fmt.Sprintf("batch_edited_%d.zip", time.Now().Unix())
	if _, err := store.Write(ctx, key, archive); err != nil {
		logger.Error().Err(err).Msg("failed to write archive")
		return
	}
	logger.Info().Str("archive", filepath.Join(store.BasePath(), key)).Msg("archive written")
}
