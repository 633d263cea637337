// Package main implements the Orbit Calculation Container entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/orbital-control/occ/internal/api"
	"github.com/orbital-control/occ/internal/audit"
	"github.com/orbital-control/occ/internal/config"
	"github.com/orbital-control/occ/internal/orbit"
	"github.com/orbital-control/occ/internal/ratelimit"
)

const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "occ",
	Short: "Orbit Calculation Container: two-body Keplerian orbit parameters over HTTP",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var (
	calcSemiMajorAxis float64
	calcEccentricity  float64
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute orbit parameters without the HTTP layer",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := orbit.Period(calcSemiMajorAxis, orbit.EarthMu)
		if err != nil {
			return err
		}

		fmt.Printf("Periapsis distance: %.2f km\n", orbit.Periapsis(calcSemiMajorAxis, calcEccentricity))
		fmt.Printf("Apoapsis distance: %.2f km\n", orbit.Apoapsis(calcSemiMajorAxis, calcEccentricity))
		fmt.Printf("Orbital period: %.2f minutes\n", period/60)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("occ v%s\n", Version)
	},
}

func init() {
	calcCmd.Flags().Float64Var(&calcSemiMajorAxis, "semi-major-axis", 7000, "semi-major axis in kilometers")
	calcCmd.Flags().Float64Var(&calcEccentricity, "eccentricity", 0.01, "orbital eccentricity")
	rootCmd.AddCommand(serveCmd, calcCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %w", err)
	}
	log.SetLevel(level)
	log.WithField("version", Version).Info("starting orbit calculation container")

	auditLogger, err := audit.NewLogger(cfg.AuditDir)
	if err != nil {
		return fmt.Errorf("failed to initialize audit logger: %w", err)
	}

	calculator := orbit.NewCalculator()
	calculator.SetAuditSink(auditLogger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := []api.Option{
		api.WithLogger(log),
		api.WithCORSOrigins(cfg.CORSAllowedOrigins),
	}

	if cfg.RateLimitEnabled {
		store := ratelimit.NewStore(cfg.RateLimitRPS, cfg.RateLimitBurst)
		store.StartJanitor(ctx)

		mwOpts := ratelimit.Options{Store: store}
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
			defer func() { _ = rdb.Close() }()

			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			_, err := rdb.Ping(pingCtx).Result()
			pingCancel()
			if err != nil {
				return fmt.Errorf("redis stats ping failed: %w", err)
			}
			mwOpts.Stats = ratelimit.NewRedisStats(rdb)
			log.WithField("addr", cfg.RedisAddr).Info("redis request stats enabled")
		}

		opts = append(opts, api.WithRateLimit(ratelimit.Middleware(mwOpts)))
		log.WithFields(logrus.Fields{
			"rps":   cfg.RateLimitRPS,
			"burst": cfg.RateLimitBurst,
		}).Info("rate limiting enabled")
	}

	server := api.NewServer(calculator, cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout, opts...)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.ListenAddr); err != nil {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()
	log.WithField("addr", cfg.ListenAddr).Info("HTTP server listening")

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		log.WithError(err).Error("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	stopErr := server.Stop(shutdownCtx)
	if stopErr != nil {
		log.WithError(stopErr).Error("failed to stop HTTP server")
	}

	// Close after the drain so in-flight computations still get audited.
	if err := auditLogger.Close(); err != nil {
		log.WithError(err).Warn("failed to close audit logger")
	}

	if stopErr != nil {
		return stopErr
	}

	log.Info("shutdown complete")
	return nil
}
