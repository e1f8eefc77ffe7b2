package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/config"
	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/pdrpinto/gridastar/internal/render"
	"github.com/spf13/cobra"
)

type solveOutput struct {
	Found    bool             `json:"found"`
	Cost     int              `json:"cost"`
	Steps    int              `json:"steps"`
	Expanded int              `json:"expanded"`
	Seed     int64            `json:"seed,omitempty"`
	Path     []gridastar.Cell `json:"path,omitempty"`
}

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run one search without the terminal UI",
		Long: `Run one search to completion and print the outcome.

The grid comes from --grid (text format: '#' blocked, '.' open, 'S' start,
'G' goal) or is generated from the config. With --frames every step is
printed as a text frame.`,
		Example: `  gridastar solve --grid maze.txt --frames
  gridastar solve --seed 42 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("seed") {
					cfg.Grid.Seed, _ = cmd.Flags().GetInt64("seed")
				}
			})
			if err != nil {
				return err
			}
			gridPath, _ := cmd.Flags().GetString("grid")
			frames, _ := cmd.Flags().GetBool("frames")
			jsonOut, _ := cmd.Flags().GetBool("json")

			scene, seed, err := loadScene(gridPath, cfg)
			if err != nil {
				return err
			}
			opts := append(cfg.SearchOptions(), gridastar.WithLogger(newLogger(cmd, cfg)))

			out := cmd.OutOrStdout()
			var res gridastar.Result
			if frames {
				res, err = solveWithFrames(out, scene, opts)
			} else {
				res, err = gridastar.Solve(cmd.Context(), scene.Grid, scene.Start, scene.Goal, opts...)
			}
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(solveOutput{
					Found:    res.Found,
					Cost:     res.Cost,
					Steps:    res.Steps,
					Expanded: res.ExpandedNodes,
					Seed:     seed,
					Path:     res.Path,
				})
			}
			if res.Found {
				fmt.Fprintf(out, "Path found! Length: %d steps.\n", res.Cost)
			} else {
				fmt.Fprintln(out, "Goal is unreachable.")
			}
			fmt.Fprintf(out, "steps=%d expanded=%d\n", res.Steps, res.ExpandedNodes)
			return nil
		},
	}

	cmd.Flags().String("grid", "", "Read the grid from a text file instead of generating one")
	cmd.Flags().Bool("frames", false, "Print a frame after every step")
	cmd.Flags().Int64("seed", 0, "Seed for the generated grid")
	return cmd
}

// loadScene reads a text grid from path, or generates one from cfg when
// path is empty. The seed is zero for text grids.
func loadScene(path string, cfg *config.Config) (render.Scene, int64, error) {
	if path == "" {
		res, err := maze.Generate(cfg.MazeConfig())
		if err != nil {
			return render.Scene{}, 0, fmt.Errorf("generating grid: %w", err)
		}
		return render.Scene{Grid: res.Grid, Start: res.Start, Goal: res.Goal}, res.Seed, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return render.Scene{}, 0, fmt.Errorf("opening grid: %w", err)
	}
	defer f.Close()

	layout, err := gridastar.ParseGrid(f)
	if err != nil {
		return render.Scene{}, 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	scene := render.Scene{
		Grid: layout.Grid,
		Goal: gridastar.Cell{Row: layout.Grid.Rows() - 1, Col: layout.Grid.Cols() - 1},
	}
	if layout.Start != nil {
		scene.Start = *layout.Start
	}
	if layout.Goal != nil {
		scene.Goal = *layout.Goal
	}
	return scene, 0, nil
}

func solveWithFrames(w io.Writer, scene render.Scene, opts []gridastar.Option) (gridastar.Result, error) {
	stepper, err := gridastar.NewStepper(scene.Grid, scene.Start, scene.Goal, opts...)
	if err != nil {
		return gridastar.Result{}, err
	}
	fmt.Fprintln(w, render.Frame(scene, nil))
	for !stepper.Done() {
		r, err := stepper.Advance()
		if err != nil {
			return gridastar.Result{}, err
		}
		fmt.Fprintln(w, render.Status(r))
		fmt.Fprintln(w, render.Frame(scene, &r))
	}

	res := gridastar.Result{
		Path:          stepper.Path(),
		Steps:         stepper.Steps(),
		ExpandedNodes: stepper.Expanded(),
		Found:         stepper.State() == gridastar.StateSucceeded,
	}
	if res.Found {
		res.Cost = len(res.Path) - 1
	}
	return res, nil
}
