package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"batchedit/internal/batch"
	"batchedit/internal/http/handlers"
	"batchedit/internal/http/httpapi"
	"batchedit/internal/imagegen"
	"batchedit/internal/infra"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		if errors.Is(err, infra.ErrMissingCredential) {
			fmt.Fprintln(os.Stderr, "missing credential: set DASHSCOPE_API_KEY before starting the service")
			os.Exit(1)
		}
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

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

	app := handlers.NewApp(logger, runner)
	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		EditRateLimit:  cfg.EditRateLimit,
		EditRateWindow: cfg.EditRateWindow,
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", editor.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
