package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"repostudio/app/api"
	"repostudio/app/cfg"
	"repostudio/app/channels"
	"repostudio/app/database"
	"repostudio/app/httpx"
	"repostudio/app/llm"
	"repostudio/app/reddit"
	"repostudio/app/tasks"
	"repostudio/app/x"
)

func main() {
	appCfg, args, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)

	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}

	slog.Info("Starting repostudio", "version", appCfg.Version, "command", command)

	db, err := database.NewConnection(appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName, appCfg.DBSSLMode)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "schema_version", version, "dirty", dirty)

	if command == "migrate" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "harvest":
		runTask(ctx, newHarvestTask(appCfg, loadChannels(appCfg), db))
	case "engagement":
		runTask(ctx, newEngagementTask(appCfg, db))
	case "serve":
		runServe(ctx, appCfg, db)
	default:
		slog.Error("Unknown command", "command", command)
		os.Exit(1)
	}
}

func loadChannels(appCfg *cfg.Cfg) []channels.Channel {
	chs, err := channels.Load(appCfg.ChannelsFile, appCfg.PageSize)
	if err != nil {
		slog.Error("Failed to load channels", "file", appCfg.ChannelsFile, "error", err)
		os.Exit(1)
	}
	return chs
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func newHarvestTask(appCfg *cfg.Cfg, chs []channels.Channel, db *database.DB) tasks.TaskInterface {
	paced := httpx.NewClient(appCfg.UserAgent,
		time.Duration(appCfg.SourcePaceMS)*time.Millisecond,
		time.Duration(appCfg.RequestTimeoutSec)*time.Second)
	source := reddit.NewClient(reddit.Credentials{
		ClientID:     appCfg.RedditClientID,
		ClientSecret: appCfg.RedditClientSecret,
	}, paced)

	return tasks.NewHarvestSourcesTask(chs, source, database.NewSourceItemRepo(db))
}

func newEngagementTask(appCfg *cfg.Cfg, db *database.DB) tasks.TaskInterface {
	paced := httpx.NewClient(appCfg.UserAgent,
		time.Duration(appCfg.EngagementPaceMS)*time.Millisecond,
		time.Duration(appCfg.RequestTimeoutSec)*time.Second)
	engagement := x.NewClient(appCfg.XBearerToken, paced)

	return tasks.NewSyncEngagementTask(engagement,
		database.NewDraftRepo(db), database.NewMetricRepo(db))
}

func runTask(ctx context.Context, task tasks.TaskInterface) {
	if err := task.Execute(ctx); err != nil {
		slog.Error("Task failed", "task", task.GetType(), "error", err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context, appCfg *cfg.Cfg, db *database.DB) {
	itemRepo := database.NewSourceItemRepo(db)
	draftRepo := database.NewDraftRepo(db)
	metricRepo := database.NewMetricRepo(db)
	insightRepo := database.NewInsightRepo(db)
	generator := llm.NewClient(appCfg.AnthropicAPIKey, appCfg.AnthropicModel)

	handler := api.NewHandler(itemRepo, draftRepo, metricRepo, insightRepo, generator)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Built-in interval harvesting is opt-in; external cron remains the
	// usual trigger for the single-run commands.
	if appCfg.SchedulerInterval > 0 {
		chs := loadChannels(appCfg)
		scheduler := tasks.NewScheduler(
			time.Duration(appCfg.SchedulerInterval)*time.Second,
			func() []tasks.TaskInterface {
				return []tasks.TaskInterface{
					newHarvestTask(appCfg, chs, db),
					newEngagementTask(appCfg, db),
				}
			})
		scheduler.Start()
		defer scheduler.Stop()
		slog.Info("Scheduler started", "interval", appCfg.SchedulerInterval)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Received shutdown signal")
	case err := <-serverErrChan:
		slog.Error("HTTP server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
