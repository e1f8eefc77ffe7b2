package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/pdrpinto/gridastar/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type benchSummary struct {
	Searches    int     `json:"searches"`
	Workers     int     `json:"workers"`
	Found       int     `json:"found"`
	Unreachable int     `json:"unreachable"`
	AvgExpanded float64 `json:"avg_expanded"`
	AvgCost     float64 `json:"avg_cost"`
	FirstSeed   int64   `json:"first_seed"`
	ElapsedMs   int64   `json:"elapsed_ms"`
}

func newBenchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run many independent searches in parallel",
		Long: `Generate a batch of random grids and search them all concurrently.

Grid i uses seed first+i, so a run can be repeated with --seed.

Examples:
  gridastar bench --count 200 --workers 8
  gridastar bench --seed 1 --metrics-file bench.prom`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			count, _ := cmd.Flags().GetInt("count")
			workers, _ := cmd.Flags().GetInt("workers")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")
			jsonOut, _ := cmd.Flags().GetBool("json")
			if count <= 0 {
				return fmt.Errorf("count must be positive, got %d", count)
			}

			first := cfg.Grid.Seed
			if cmd.Flags().Changed("seed") {
				first, _ = cmd.Flags().GetInt64("seed")
			}
			if first == 0 {
				first = time.Now().UnixNano()
			}

			jobs := make([]gridastar.Job, count)
			for i := range jobs {
				mc := cfg.MazeConfig()
				mc.Seed = first + int64(i)
				res, err := maze.Generate(mc)
				if err != nil {
					return fmt.Errorf("generating grid %d: %w", i, err)
				}
				jobs[i] = gridastar.Job{Grid: res.Grid, Start: res.Start, Goal: res.Goal}
			}

			if workers <= 0 {
				workers = runtime.NumCPU()
			}
			opts := append(cfg.SearchOptions(),
				gridastar.WithLogger(newLogger(cmd, cfg)),
				gridastar.WithWorkers(workers),
			)

			began := time.Now()
			results, err := gridastar.SolveAll(cmd.Context(), jobs, opts...)
			if err != nil {
				return err
			}
			elapsed := time.Since(began)

			reg := prometheus.NewRegistry()
			rec := metrics.New(reg)
			summary := benchSummary{Searches: count, Workers: workers, FirstSeed: first, ElapsedMs: elapsed.Milliseconds()}
			var expanded, cost int
			for _, res := range results {
				rec.ObserveResult(res)
				expanded += res.ExpandedNodes
				if res.Found {
					summary.Found++
					cost += res.Cost
				} else {
					summary.Unreachable++
				}
			}
			summary.AvgExpanded = float64(expanded) / float64(count)
			if summary.Found > 0 {
				summary.AvgCost = float64(cost) / float64(summary.Found)
			}

			if metricsFile != "" {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("writing metrics: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				return json.NewEncoder(out).Encode(summary)
			}
			fmt.Fprintf(out, "%-14s %d\n", "searches", summary.Searches)
			fmt.Fprintf(out, "%-14s %d\n", "workers", summary.Workers)
			fmt.Fprintf(out, "%-14s %d\n", "found", summary.Found)
			fmt.Fprintf(out, "%-14s %d\n", "unreachable", summary.Unreachable)
			fmt.Fprintf(out, "%-14s %.1f\n", "avg expanded", summary.AvgExpanded)
			fmt.Fprintf(out, "%-14s %.1f\n", "avg cost", summary.AvgCost)
			fmt.Fprintf(out, "%-14s %d\n", "first seed", summary.FirstSeed)
			fmt.Fprintf(out, "%-14s %s\n", "elapsed", elapsed.Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().Int("count", 100, "Number of grids to search")
	cmd.Flags().Int("workers", 0, "Concurrent searches (default: number of CPUs)")
	cmd.Flags().Int64("seed", 0, "Seed of the first grid")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file")
	return cmd
}
