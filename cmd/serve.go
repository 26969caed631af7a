package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sherine-k/elevaid/pkg/config"
	"github.com/sherine-k/elevaid/pkg/detection"
	"github.com/sherine-k/elevaid/pkg/logger"
	"github.com/sherine-k/elevaid/pkg/server"
	"github.com/sherine-k/elevaid/pkg/simulation"
	"github.com/spf13/cobra"
)

var (
	addr        string
	detectorURL string
	envFile     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dispatch simulator over HTTP",
	Long: `Starts an HTTP service exposing the queue and journey time calculations,
a stateful demo session with a server-sent event stream of both simulations,
and the video upload that forwards to the wheelchair detector.

Scenarios with a schedule in the configuration file are replayed automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&envFile, "env-file", "", "Dotenv file with ELEVAID_* server overrides")
	serveCmd.Flags().StringVar(&detectorURL, "detector-url", "", "Wheelchair detector endpoint (overrides server.detectorURL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if envFile != "" {
		if err := config.ApplyEnvFile(cfg, envFile); err != nil {
			return err
		}
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if detectorURL != "" {
		cfg.Server.DetectorURL = detectorURL
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.GetLogger()
	srv := server.New(server.Options{
		Config: cfg,
		Session: simulation.NewSession(simulation.SessionOptions{
			FloorCount: cfg.FloorCount,
			Timing:     cfg.Timing,
			Logger:     log,
		}),
		Detector:   detection.NewClient(cfg.Server.DetectorURL, cfg.Server.DetectorTimeout),
		Logger:     log,
		RunContext: ctx,
	})

	if cfg.Server.DetectorURL == "" {
		log.Warn().Msg("no detector configured, video uploads will be rejected")
	}

	scheduler := server.NewCron()
	n, err := srv.Schedule(scheduler, cfg.Scenarios)
	if err != nil {
		return fmt.Errorf("failed to schedule scenarios: %w", err)
	}
	if n > 0 {
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()
	}

	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
