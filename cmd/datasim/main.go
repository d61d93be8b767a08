package main

import (
	"fmt"
	"os"

	"github.com/learnpath/datasim/internal/config"
	"github.com/learnpath/datasim/internal/events"
	"github.com/learnpath/datasim/internal/utils"
	"github.com/learnpath/datasim/pkg"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "datasim",
		Short: "Learning platform behavior data simulator",
		Long: `datasim generates realistic student learning telemetry for an online
learning platform: sessions, lesson progress, quiz attempts and the
fine-grained interaction logs behind them, driven by behavioral personas.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newMigrateCmd(),
		newImportCmd(),
		newGenerateCmd(),
		newReportCmd(),
		newExportCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("datasim version %s\n", version)
		},
	}
}

// setup wires the pieces every database-touching command needs.
func setup() (*config.Config, *gorm.DB, utils.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, db, logger, nil
}

// newPublisher returns a Kafka publisher when brokers are configured and
// nil otherwise; run events are simply skipped without brokers.
func newPublisher(cfg *config.Config, logger utils.Logger) (events.EventPublisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return nil, nil
	}
	return events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.RunEventsTopic,
		Logger:       utils.ToSlogLogger(logger),
	})
}
