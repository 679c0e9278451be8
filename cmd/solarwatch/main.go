package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solarwatch/config"
	"solarwatch/internal/api"
	"solarwatch/internal/efficiency"
	"solarwatch/internal/engine"
	"solarwatch/internal/impact"
	"solarwatch/internal/monitor"
	"solarwatch/internal/mqtt"
	"solarwatch/internal/report"
	"solarwatch/internal/storage"
	"solarwatch/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "solarwatch",
		Short: "Solar array maintenance monitor",
		Long:  "Ingests solar telemetry, detects maintenance issues, and reports environmental impact",
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEngine(cfg *config.Config) *engine.Engine {
	tracker := efficiency.NewTracker(efficiency.TrackerConfig{
		RatedWatts:    cfg.Panel.RatedWatts,
		AverageWindow: cfg.Engine.AverageWindow,
		MinSamples:    cfg.Engine.MinSamples,
	})
	return engine.New(engine.Config{
		Tracker:              tracker,
		DegradationThreshold: cfg.Engine.DegradationThreshold,
		TemperatureThreshold: cfg.Engine.TemperatureThreshold,
		AlertRetention:       cfg.Engine.AlertRetention,
	})
}

func openStore(cfg *config.Config) (storage.Store, func(), error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return storage.NewMemoryStore(), func() {}, nil
	case "sqlite":
		db, err := storage.NewDatabase(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		log.Printf("Database opened at %s", cfg.Storage.Path)
		if cfg.Storage.Retention > 0 {
			if err := db.CleanOldReadings(cfg.Storage.Retention); err != nil {
				log.Printf("Warning: failed to clean old readings: %v", err)
			}
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func runCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "run [telemetry.csv]",
		Short: "Process a batch of telemetry readings",
		Long:  "Read telemetry from a CSV file (or stdin), evaluate maintenance rules, and print the reports",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			var in io.Reader = os.Stdin
			if len(args) == 1 {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open telemetry file: %w", err)
				}
				defer file.Close()
				in = file
			}

			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			m := monitor.New(monitor.Config{
				Store:           store,
				Engine:          newEngine(cfg),
				Impact:          impact.NewAccumulator(cfg.Impact.CO2PerKWh, cfg.Impact.TreesPerKWh),
				HoursPerReading: cfg.Impact.HoursPerReading,
			})

			source := telemetry.NewCSVSource(in)
			processed := 0
			for limit <= 0 || processed < limit {
				reading, err := source.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return fmt.Errorf("invalid telemetry input: %w", err)
				}
				if _, err := m.Ingest(reading); err != nil {
					return err
				}
				processed++
				if verbose {
					log.Printf("Ingested: Power=%.0fW, Irradiance=%.0fW/m2, Temp=%.1f°C",
						reading.PowerProduced, reading.Irradiance, reading.Temperature)
				}
			}

			log.Printf("Processed %d readings", processed)
			return writeReports(cfg, m.ActiveAlerts(), m.Impact())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of readings to process (0 = all)")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the monitoring service",
		Long:  "Start the HTTP API and the MQTT publisher for interactive ingestion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{
				Broker:      cfg.MQTT.Broker,
				ClientID:    cfg.MQTT.ClientID,
				Username:    cfg.MQTT.Username,
				Password:    cfg.MQTT.Password,
				TopicPrefix: cfg.MQTT.TopicPrefix,
				Enabled:     cfg.MQTT.Enabled,
			})
			if err != nil {
				log.Printf("Warning: MQTT connection failed: %v", err)
			} else if cfg.MQTT.Enabled {
				log.Printf("MQTT connected to %s", cfg.MQTT.Broker)
				defer publisher.Close()
			}

			m := monitor.New(monitor.Config{
				Store:           store,
				Engine:          newEngine(cfg),
				Impact:          impact.NewAccumulator(cfg.Impact.CO2PerKWh, cfg.Impact.TreesPerKWh),
				Publisher:       publisher,
				HoursPerReading: cfg.Impact.HoursPerReading,
			})

			if !cfg.API.Enabled {
				return fmt.Errorf("serve requires api.enabled")
			}

			server := api.NewServer(api.ServerConfig{
				Port:    cfg.API.Port,
				Monitor: m,
			})

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Printf("API server error: %v", err)
				}
			}()

			log.Println("Solarwatch started. Press Ctrl+C to stop.")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan
			log.Println("Shutting down...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Stop(ctx)
		},
	}
}

func reportCmd() *cobra.Command {
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Regenerate reports from stored readings",
		Long:  "Replay persisted readings through the maintenance rules and render the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := storage.NewDatabase(cfg.Storage.Path)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()

			now := time.Now()
			from := time.Unix(0, 0)
			if since > 0 {
				from = now.Add(-since)
			}

			readings, err := db.Range(from, now)
			if err != nil {
				return fmt.Errorf("failed to query readings: %w", err)
			}

			eng := newEngine(cfg)
			acc := impact.NewAccumulator(cfg.Impact.CO2PerKWh, cfg.Impact.TreesPerKWh)
			for _, reading := range readings {
				acc.AddEnergy(reading.PowerProduced, cfg.Impact.HoursPerReading)
				eng.Evaluate(reading, now)
			}

			log.Printf("Replayed %d readings", len(readings))
			summary := report.Summary{
				TotalEnergyKWh:  acc.TotalEnergyKWh(),
				CO2AvoidedKg:    acc.CO2Avoided(),
				TreeEquivalents: acc.TreeEquivalents(),
			}
			return writeReports(cfg, eng.Active(), summary)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "only replay readings newer than this (0 = all)")
	return cmd
}

func writeReports(cfg *config.Config, alerts []engine.Alert, summary report.Summary) error {
	reporter := report.NewReporter(os.Stdout)
	if err := reporter.WriteAlerts(alerts); err != nil {
		return err
	}
	if err := reporter.WriteImpact(summary); err != nil {
		return err
	}

	if err := report.WriteHTML(cfg.Report.OutputPath, summary); err != nil {
		return fmt.Errorf("failed to write visualization: %w", err)
	}
	log.Printf("Generated visualization: %s", cfg.Report.OutputPath)
	return nil
}
