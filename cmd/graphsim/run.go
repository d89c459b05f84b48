package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/cache"
	"github.com/zephyrtronium/formula/internal/field"
	"github.com/zephyrtronium/formula/internal/presets"
)

var runCmd = &cobra.Command{
	Use:   "run [flags]",
	Short: "Animate a grid of points and print where they end up.",
	Long: `Spawn a grid of points and move them every tick by evaluating the x, y, and z
formulas. Errors from evaluation are logged and leave the affected coordinate
unchanged. Interrupting stops the simulation early.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := field.NewGrid(getUint(cmd, "nx"), getUint(cmd, "ny"), getUint(cmd, "nz"), getUint(cmd, "spacing"))
		if err != nil {
			return err
		}
		rate := getFloat(cmd, "rate")
		if rate <= 0 {
			return fmt.Errorf("tick rate (%g) must be positive", rate)
		}
		dur, err := cmd.Flags().GetDuration("duration")
		if err != nil {
			return err
		}

		fl := field.Spawn(g, cache.New(64))
		if name := getString(cmd, "preset"); name != "" {
			p, err := lookupPreset(cmd, name)
			if err != nil {
				return err
			}
			log.Infof("using preset %s", p.Name)
			setAxes(fl, p.X, p.Y, p.Z)
		}
		for _, axis := range [...]field.Axis{field.AxisX, field.AxisY, field.AxisZ} {
			if cmd.Flags().Changed(axis.String()) {
				fl.SetFormula(axis, getString(cmd, axis.String()))
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ticks := simulate(ctx, fl, time.Duration(float64(time.Second)/rate), dur)
		log.Infof("%d ticks over %d points", ticks, fl.Len())
		printPoints(cmd.OutOrStdout(), fl.Points(), width())
		return nil
	},
}

func init() {
	runCmd.Flags().Uint("nx", uint(field.DefaultGrid.NX), "number of points along x")
	runCmd.Flags().Uint("ny", uint(field.DefaultGrid.NY), "number of points along y")
	runCmd.Flags().Uint("nz", uint(field.DefaultGrid.NZ), "number of points along z")
	runCmd.Flags().Uint("spacing", uint(field.DefaultGrid.Spacing), "distance between points")
	runCmd.Flags().Float64("rate", 60, "ticks per second")
	runCmd.Flags().Duration("duration", 5*time.Second, "simulation length")
	runCmd.Flags().String("x", field.DefaultX, "x formula")
	runCmd.Flags().String("y", field.DefaultY, "y formula")
	runCmd.Flags().String("z", field.DefaultZ, "z formula")
	runCmd.Flags().String("preset", "", "named preset to load before applying --x, --y, --z")
}

// lookupPreset resolves a preset, opening the database only for names that
// aren't builtin.
func lookupPreset(cmd *cobra.Command, name string) (presets.Preset, error) {
	if p, ok := presets.Builtins[name]; ok && !cmd.Flags().Changed("db") {
		return p, nil
	}
	s, err := openStore(cmd)
	if err != nil {
		return presets.Preset{}, err
	}
	defer s.Close()
	return presets.Lookup(s, name)
}

func setAxes(fl *field.Field, x, y, z string) {
	fl.SetFormula(field.AxisX, x)
	fl.SetFormula(field.AxisY, y)
	fl.SetFormula(field.AxisZ, z)
}

// simulate ticks fl every step until dur elapses or ctx is done, and returns
// the number of ticks. Each tick sees the time since the simulation started.
func simulate(ctx context.Context, fl *field.Field, step, dur time.Duration) int {
	start := time.Now()
	deadline := time.NewTimer(dur)
	defer deadline.Stop()
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	n := 0
	var last error
	for {
		select {
		case <-ctx.Done():
			log.Warn("interrupted")
			return n
		case <-deadline.C:
			return n
		case now := <-ticker.C:
			r := fl.Tick(float32(now.Sub(start).Seconds()))
			n++
			switch {
			case r.Err != nil && (last == nil || r.Err.Error() != last.Error()):
				log.WithFields(log.Fields{"tick": n, "failures": r.Failures}).Error(r.Err)
			case r.Err == nil && last != nil:
				log.WithField("tick", n).Info("formulas recovered")
			}
			last = r.Err
		}
	}
}

// width returns the width of the terminal on stdout, or 80.
func width() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// printPoints writes positions in as many columns as fit in width.
func printPoints(w io.Writer, pts []formula.Vec3, width int) {
	cells := make([]string, len(pts))
	cw := 0
	for i, p := range pts {
		cells[i] = fmt.Sprintf("(%.4g, %.4g, %.4g)", p.X, p.Y, p.Z)
		cw = max(cw, len(cells[i]))
	}
	cols := max(1, (width+2)/(cw+2))
	var b strings.Builder
	for i, c := range cells {
		b.WriteString(c)
		if (i+1)%cols == 0 || i == len(cells)-1 {
			b.WriteByte('\n')
		} else {
			b.WriteString(strings.Repeat(" ", cw-len(c)+2))
		}
	}
	io.WriteString(w, b.String())
}
