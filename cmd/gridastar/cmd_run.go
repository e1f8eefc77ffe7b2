package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pdrpinto/gridastar"
	"github.com/pdrpinto/gridastar/internal/config"
	"github.com/pdrpinto/gridastar/internal/logging"
	"github.com/pdrpinto/gridastar/internal/maze"
	"github.com/pdrpinto/gridastar/internal/render"
	"github.com/pdrpinto/gridastar/internal/sound"
	"github.com/spf13/cobra"
)

const helpLine = "q/esc quit  space pause  n step  r new grid"

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate a search in the terminal",
		Long: `Animate a search in the terminal, one step per frame.

Keys: q or Esc quits, space pauses, n takes a single step while paused,
r generates a new grid. The outcome is printed after the screen closes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("fps") {
					cfg.Animation.FPS, _ = cmd.Flags().GetInt("fps")
				}
				if cmd.Flags().Changed("sound") {
					cfg.Animation.Sound, _ = cmd.Flags().GetBool("sound")
				}
			})
			if err != nil {
				return err
			}
			gridPath, _ := cmd.Flags().GetString("grid")

			// The screen owns the terminal, so logs only go to a file.
			logPath, _ := cmd.Flags().GetString("log-file")
			logger := logging.Discard()
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
				if err != nil {
					return fmt.Errorf("opening log file: %w", err)
				}
				defer f.Close()
				logger = logging.NewLogger(cfg.Logging.Level, f)
			}

			scene, _, err := loadScene(gridPath, cfg)
			if err != nil {
				return err
			}

			var chime sound.Chime = sound.Silent{}
			if cfg.Animation.Sound {
				sp, err := sound.NewSpeaker()
				if err != nil {
					// Non-fatal, the animation runs without sound
					logger.Warn("audio initialization failed", "error", err)
				} else {
					chime = sp
				}
			}
			defer chime.Close()

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			if err := screen.Init(); err != nil {
				return err
			}

			a, err := newAnimation(screen, scene, cfg, logger, chime)
			if err != nil {
				screen.Fini()
				return err
			}
			// A text grid cannot be regenerated.
			a.canRegenerate = gridPath == ""
			a.loop(time.Second / time.Duration(cfg.Animation.FPS))
			screen.Fini()

			if a.last != nil {
				fmt.Fprintln(cmd.OutOrStdout(), render.Outcome(*a.last))
			}
			return nil
		},
	}

	cmd.Flags().String("grid", "", "Read the grid from a text file instead of generating one")
	cmd.Flags().Int("fps", 0, "Search steps per second")
	cmd.Flags().Bool("sound", false, "Play a tone when the search finishes")
	cmd.Flags().String("log-file", "", "Write logs to this file")
	return cmd
}

// animation drives one Stepper from terminal events and a frame ticker.
type animation struct {
	screen  tcell.Screen
	painter *render.Painter
	cfg     *config.Config
	log     *slog.Logger
	chime   sound.Chime

	scene   render.Scene
	stepper *gridastar.Stepper
	last    *gridastar.StepReport
	paused  bool

	canRegenerate bool
}

func newAnimation(screen tcell.Screen, scene render.Scene, cfg *config.Config, logger *slog.Logger, chime sound.Chime) (*animation, error) {
	a := &animation{
		screen:  screen,
		painter: render.NewPainter(screen, scene),
		cfg:     cfg,
		log:     logger,
		chime:   chime,
	}
	if err := a.reset(scene); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *animation) reset(scene render.Scene) error {
	opts := append(a.cfg.SearchOptions(), gridastar.WithLogger(a.log))
	stepper, err := gridastar.NewStepper(scene.Grid, scene.Start, scene.Goal, opts...)
	if err != nil {
		return err
	}
	a.scene = scene
	a.stepper = stepper
	a.last = nil
	a.painter.SetScene(scene)
	return nil
}

// regenerate swaps in a fresh random grid. A configured seed would
// reproduce the same grid, so it is cleared.
func (a *animation) regenerate() {
	if !a.canRegenerate {
		return
	}
	mc := a.cfg.MazeConfig()
	mc.Seed = 0
	res, err := maze.Generate(mc)
	if err != nil {
		a.log.Error("regenerating grid", "error", err)
		return
	}
	a.log.Debug("new grid", "seed", res.Seed)
	if err := a.reset(render.Scene{Grid: res.Grid, Start: res.Start, Goal: res.Goal}); err != nil {
		a.log.Error("restarting search", "error", err)
	}
}

// step advances once and plays the chime on the finishing step.
func (a *animation) step() {
	if a.stepper.Done() {
		return
	}
	r, err := a.stepper.Advance()
	if err != nil {
		a.log.Error("advance failed", "error", err)
		return
	}
	a.last = &r
	if r.Done() {
		a.log.Info("search finished", "outcome", r.State, "steps", r.Step, "visited", len(r.Visited))
		sound.Outcome(a.chime, r.Found())
	}
}

// handleKey applies one key press and reports whether to quit.
func (a *animation) handleKey(key tcell.Key, ch rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		switch ch {
		case 'q':
			return true
		case ' ':
			a.paused = !a.paused
		case 'n':
			a.paused = true
			a.step()
		case 'r':
			a.regenerate()
		}
	}
	return false
}

func (a *animation) tick() {
	if !a.paused {
		a.step()
	}
}

func (a *animation) draw() {
	status := "ready"
	if a.last != nil {
		status = render.Status(*a.last)
		if a.last.Done() {
			status += "  " + render.Outcome(*a.last)
		}
	}
	if a.paused {
		status += "  [paused]"
	}
	a.painter.Draw(a.last, status, helpLine)
}

func (a *animation) loop(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	a.draw()
	for {
		select {
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if a.handleKey(ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				a.screen.Sync()
			}
			a.draw()
		case <-ticker.C:
			a.tick()
			a.draw()
		}
	}
}
