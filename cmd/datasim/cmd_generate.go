package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/learnpath/datasim/internal/catalog"
	"github.com/learnpath/datasim/internal/persona"
	"github.com/learnpath/datasim/internal/simulation"
	"github.com/learnpath/datasim/internal/sink"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		users   int
		start   string
		end     string
		seed    int64
		clear   bool
		weights []int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate persona-driven learning behavior data",
		Long: `Generate fabricates a cohort of students, assigns each a behavioral
persona and replays their study activity across the simulation window,
writing sessions, activities, lesson progress, quiz attempts and
interaction logs to the database.

Examples:
  datasim generate
  datasim generate --users 50 --start 2025-11-01 --end 2026-01-01 --seed 42
  datasim generate --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, logger, err := setup()
			if err != nil {
				return err
			}

			opts := simulation.Options{
				Start:         cfg.SimStart,
				End:           cfg.SimEnd,
				UserCount:     cfg.UserCount,
				Seed:          cfg.Seed,
				ClearExisting: clear,
			}
			if users > 0 {
				opts.UserCount = users
			}
			if seed != 0 {
				opts.Seed = seed
			}
			if start != "" {
				if opts.Start, err = time.Parse(time.DateOnly, start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}
			if end != "" {
				if opts.End, err = time.Parse(time.DateOnly, end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}
			if len(weights) > 0 {
				if len(weights) != 4 {
					return fmt.Errorf("--weights needs 4 values (diligent,average,struggling,dropout), got %d", len(weights))
				}
				opts.Weights = persona.Distribution{
					Diligent:   weights[0],
					Average:    weights[1],
					Struggling: weights[2],
					Dropout:    weights[3],
				}
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
			summary, err := generator.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fmt.Printf("run %s completed in %s (seed %d, %d users)\n",
				summary.RunID, summary.Duration.Round(time.Millisecond), summary.Seed, summary.UserCount)

			tables := make([]string, 0, len(summary.Counts))
			for t := range summary.Counts {
				tables = append(tables, t)
			}
			sort.Strings(tables)
			for _, t := range tables {
				fmt.Printf("  %-24s %d\n", t, summary.Counts[t])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&users, "users", 0, "Number of users to generate (default from config)")
	cmd.Flags().StringVar(&start, "start", "", "Simulation window start, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "Simulation window end, YYYY-MM-DD")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 draws one from the clock)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear previously generated behavior data first")
	cmd.Flags().IntSliceVar(&weights, "weights", nil, "Persona weights as diligent,average,struggling,dropout (default 20,40,25,15)")
	return cmd
}
