package main

import (
	"github.com/gin-gonic/gin"
	"github.com/learnpath/datasim/internal/catalog"
	"github.com/learnpath/datasim/internal/handlers"
	"github.com/learnpath/datasim/internal/simulation"
	"github.com/learnpath/datasim/internal/sink"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for triggering generation runs",
		Long: `Serve exposes the generator over HTTP:

  POST /api/v1/runs       trigger a generation run
  GET  /api/v1/runs/last  summary of the most recent run
  GET  /health            liveness check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logger, err := setup()
			if err != nil {
				return err
			}
			if cfg.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			cat, err := catalog.Load(cmd.Context(), db)
			if err != nil {
				return err
			}

			publisher, err := newPublisher(cfg, logger)
			if err != nil {
				return err
			}
			if publisher != nil {
				defer publisher.Close()
			}

			generator := simulation.NewGenerator(cat, sink.NewGormSink(db), publisher, logger)
			router := handlers.SetupRouter(generator, logger)

			logger.Info("http server listening", "port", cfg.Port)
			return router.Run(":" + cfg.Port)
		},
	}
}
