package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/temanyl/keybridge/internal/config"
	"github.com/temanyl/keybridge/internal/logger"
	"github.com/temanyl/keybridge/internal/monitor"
	"github.com/temanyl/keybridge/internal/scores"
	"github.com/temanyl/keybridge/internal/telemetry"
	"github.com/temanyl/keybridge/internal/transport"
	"github.com/temanyl/keybridge/internal/weather"
)

func main() {
	configPath := pflag.String("config", "config.yaml", "path to the config file")
	datetimeArg := pflag.String("datetime", "", "fixed date/time to display instead of the wall clock (e.g. \"2025-10-31 23:30\")")
	pflag.Parse()

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Init logger
	logger.Init(cfg.Logging)
	log.Logger = log.With().Str("session_id", uuid.NewString()).Logger()
	log.Info().Msg("starting keybridge")

	var clockOverride *time.Time
	if *datetimeArg != "" {
		t, err := parseDateTime(*datetimeArg)
		if err != nil {
			log.Fatal().Err(err).Str("datetime", *datetimeArg).Msg("invalid --datetime")
		}
		clockOverride = &t
		log.Info().Time("datetime", t).Msg("clock override active, periodic time sync disabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// OS signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	//------------------------------------------
	// TRANSPORT SESSION
	//------------------------------------------
	sess := transport.NewSession(
		&transport.HID{VendorID: cfg.HID.VendorID, ProductID: cfg.HID.ProductID},
		transport.SessionConfig{
			Match: transport.Match{
				VendorID:  cfg.HID.VendorID,
				ProductID: cfg.HID.ProductID,
				UsagePage: cfg.HID.UsagePage,
				Usage:     cfg.HID.Usage,
			},
			ReconnectEvery: time.Duration(cfg.Session.ReconnectSeconds) * time.Second,
			LivenessEvery:  time.Duration(cfg.Session.LivenessSeconds) * time.Second,
			ReadTimeout:    time.Duration(cfg.Session.ReadTimeoutMs) * time.Millisecond,
		},
	)

	//------------------------------------------
	// LEADERBOARD
	//------------------------------------------
	board := scores.Load(cfg.Scores.Path)
	if n := len(board.Entries()); n > 0 {
		log.Info().Int("entries", n).Str("path", cfg.Scores.Path).Msg("score table loaded")
	}

	//------------------------------------------
	// SESSION LOOP
	//------------------------------------------
	var wx monitor.WeatherSource
	if cfg.Weather.Enabled {
		wx = weather.NewClient(cfg.Weather.Latitude, cfg.Weather.Longitude)
	}

	mon := monitor.New(sess, board, monitor.Config{
		Volume:  telemetry.SystemVolume{},
		Media:   telemetry.SystemMedia{},
		Weather: wx,
		Cadences: monitor.Cadences{
			Media:    time.Duration(cfg.Cadence.MediaSeconds) * time.Second,
			DateTime: time.Duration(cfg.Cadence.DateTimeSeconds) * time.Second,
			Weather:  time.Duration(cfg.Cadence.WeatherSeconds) * time.Second,
		},
		ClockOverride: clockOverride,
		Tick:          time.Duration(cfg.Session.TickMs) * time.Millisecond,
	})
	go mon.Run(ctx)

	//------------------------------------------
	// WAIT FOR SHUTDOWN SIGNAL
	//------------------------------------------
	sig := <-sigChan
	log.Warn().Str("signal", sig.String()).Msg("shutdown signal received")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	mon.Shutdown(shutdownCtx)

	log.Info().Msg("keybridge stopped cleanly")
}

// parseDateTime accepts a date with optional time of day.
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", "2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date/time %q", s)
}
