package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"docsummarizer/internal/app"
	"docsummarizer/internal/bot"
	"docsummarizer/internal/config"
	"docsummarizer/internal/web"
)

func main() {
	os.Exit(run())
}

func run() int {
	log := app.NewLogger(os.Stdout, slog.LevelInfo)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return 1
	}

	log = app.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(log)

	p, closePipeline, err := app.NewPipeline(ctx, cfg, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize pipeline",
			"error", err,
			"provider", cfg.Provider)

		return 1
	}
	defer closePipeline()

	if err = serve(ctx, cfg, p, log); err != nil {
		log.ErrorContext(ctx, "Failed to serve",
			"error", err,
			"httpAddr", cfg.HTTPAddr,
			"botEnabled", cfg.TelegramToken != "")

		return 1
	}

	return 0
}

// serve runs the web server and/or the bot until ctx is done or one of them
// fails.
func serve(ctx context.Context, cfg config.Config, runner web.Runner, log *slog.Logger) error {
	if cfg.HTTPAddr == "" && cfg.TelegramToken == "" {
		return errors.New("nothing to run, set HTTP_ADDR or TELEGRAM_TOKEN")
	}

	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if cfg.HTTPAddr != "" {
		srv, err := web.NewServer(web.Options{
			Addr:               cfg.HTTPAddr,
			MaxUploadBytes:     cfg.MaxUploadBytes,
			UploadDir:          cfg.UploadDir,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		}, runner, log)
		if err != nil {
			return fmt.Errorf("create HTTP server: %w", err)
		}

		wg.Go(func() {
			if runErr := srv.Start(ctx); runErr != nil {
				errCh <- fmt.Errorf("run HTTP server: %w", runErr)
			}
		})
	}

	var botInst *bot.Bot

	if cfg.TelegramToken != "" {
		var err error

		botInst, err = bot.New(cfg.TelegramToken, runner, bot.Options{
			AllowedUsers:   cfg.AllowedUsers,
			UploadDir:      cfg.UploadDir,
			MaxUploadBytes: cfg.MaxUploadBytes,
		}, log)
		if err != nil {
			cancel()
			wg.Wait()

			return fmt.Errorf("create bot: %w", err)
		}

		wg.Go(func() {
			botInst.Start(ctx)
		})
		log.InfoContext(ctx, "Bot is initialized",
			"allowedUsersCount", len(cfg.AllowedUsers),
			"updateTimeoutSeconds", bot.BotUpdateTimeout)
	}

	var err error

	select {
	case <-ctx.Done():
		log.InfoContext(ctx, "Shutdown signal is received",
			"error", context.Cause(ctx))
	case err = <-errCh:
	}
	cancel()

	wg.Wait()

	if botInst != nil {
		botInst.Stop()
		log.InfoContext(ctx, "Bot is stopped",
			"uptimeSeconds", time.Since(start).Seconds())
	}

	log.InfoContext(ctx, "Exiting...",
		"uptimeSeconds", time.Since(start).Seconds())

	return err
}
