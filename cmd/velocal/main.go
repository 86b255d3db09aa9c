package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"velocal/internal/config"
	"velocal/internal/feed"
	appLog "velocal/internal/log"
	"velocal/internal/schedule"
	"velocal/internal/scrape"
	"velocal/internal/web"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	listen     string
	once       bool
	verbose    bool
}

func main() {
	appLog.Info("velocal starting", "version", "0.1.0")

	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides config file listen if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"source_url", conf.SourceURL,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"weeks_ahead", conf.WeeksAhead,
		"include_notes", conf.IncludeNotes,
		"once", flags.once,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	scraper := scrape.NewScraper(conf.SourceURL, conf.CacheDir, time.Duration(conf.FetchTimeoutSec)*time.Second)

	if flags.once {
		if err := runOnce(ctx, conf, scraper); err != nil {
			appLog.Error("single-shot run failed", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(conf, scraper)

	// Background refresh keeps the schedule cache warm so HTTP requests
	// rarely pay the headless-browser fetch cost.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		if err := server.Refresh(ctx); err != nil {
			appLog.Error("scheduled refresh failed", err)
		}
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLog.Error("http server shutdown failed", err)
		}
	}()

	appLog.Info("starting HTTP server", "listen", "http://"+conf.Listen)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Error("http server failed", err)
		os.Exit(1)
	}

	appLog.Info("velocal exiting")
}

// runOnce performs a single scrape + generate + serialize cycle and writes
// the calendar document to stdout.
func runOnce(ctx context.Context, conf *config.Config, scraper *scrape.Scraper) error {
	sched, err := scraper.Scrape(ctx)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		loc = time.Local
	}

	events := schedule.GenerateEvents(sched, schedule.GenerateOptions{
		Reference:    time.Now().In(loc),
		IncludeNotes: conf.IncludeNotes,
		WeeksAhead:   conf.WeeksAhead,
	})

	body := feed.BuildCalendar(events, feed.CalendarOptions{Name: conf.CalendarName})
	_, err = fmt.Fprint(os.Stdout, body)
	return err
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/velocal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Scrape once, write the ICS document to stdout and exit")
	flag.BoolVar(&cfg.verbose, "verbose", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
