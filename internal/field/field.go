// Package field animates a grid of points by evaluating one formula per axis
// every tick.
package field

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/cache"
)

// Axis names one of the three formula slots.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) valid() bool {
	return a >= AxisX && a <= AxisZ
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis converts "x", "y", or "z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "x":
		return AxisX, nil
	case "y":
		return AxisY, nil
	case "z":
		return AxisZ, nil
	default:
		return 0, fmt.Errorf("unknown axis %q", s)
	}
}

// Default formulas for each axis.
const (
	DefaultX = "x"
	DefaultY = "sin(x - time) * 10"
	DefaultZ = "z"
)

// Grid describes the points to spawn.
type Grid struct {
	NX, NY, NZ int
	// Spacing is the distance between neighboring points on each axis.
	Spacing int
}

// DefaultGrid is a 25 by 1 by 25 grid with spacing 12.
var DefaultGrid = Grid{NX: 25, NY: 1, NZ: 25, Spacing: 12}

// Limits on grid size.
const (
	MaxPoints  = 1 << 20
	MaxSpacing = 1 << 16
)

// NewGrid checks grid dimensions given as unsigned values, e.g. from command
// line flags, and converts them to a Grid.
func NewGrid(nx, ny, nz, spacing uint) (Grid, error) {
	for _, n := range [...]uint{nx, ny, nz} {
		if n > MaxPoints {
			return Grid{}, fmt.Errorf("grid dimension %d exceeds %d points", n, MaxPoints)
		}
	}
	n := nx
	for _, m := range [...]uint{ny, nz} {
		if m != 0 && n > MaxPoints/m {
			return Grid{}, fmt.Errorf("grid of %d by %d by %d exceeds %d points", nx, ny, nz, MaxPoints)
		}
		n *= m
	}
	if spacing > MaxSpacing {
		return Grid{}, fmt.Errorf("spacing %d exceeds %d", spacing, MaxSpacing)
	}
	return Grid{NX: int(nx), NY: int(ny), NZ: int(nz), Spacing: int(spacing)}, nil
}

type point struct {
	pos, orig formula.Vec3
}

// Field is a set of points and the formulas that move them. Formulas may be
// replaced concurrently with ticks.
type Field struct {
	// mu guards the formula slots and the pending reset.
	mu    sync.RWMutex
	src   [3]string
	f     [3]formula.Formula
	reset bool

	// pmu guards the points and the evaluation context.
	pmu sync.Mutex
	pts []point
	ctx *formula.Context

	cache *cache.Cache
}

// Spawn creates a field with points laid out on g. Points are centered on the
// origin using integer arithmetic, so odd counts are shifted by half a step.
// The formulas start as DefaultX, DefaultY, and DefaultZ. If c is nil, the
// field uses its own cache.
func Spawn(g Grid, c *cache.Cache) *Field {
	if c == nil {
		c = cache.New(0)
	}
	fl := &Field{
		pts:   make([]point, 0, g.NX*g.NY*g.NZ),
		ctx:   formula.NewContext(),
		cache: c,
	}
	for i := 0; i < g.NX; i++ {
		for j := 0; j < g.NY; j++ {
			for k := 0; k < g.NZ; k++ {
				p := formula.Vec3{
					X: coord(i, g.NX, g.Spacing),
					Y: coord(j, g.NY, g.Spacing),
					Z: coord(k, g.NZ, g.Spacing),
				}
				fl.pts = append(fl.pts, point{pos: p, orig: p})
			}
		}
	}
	fl.setAll(DefaultX, DefaultY, DefaultZ)
	log.Debugf("spawned %d points", len(fl.pts))
	return fl
}

func coord(i, n, spacing int) float32 {
	return float32(i*spacing - (spacing*n)/2)
}

// SetFormula compiles src and replaces the formula for axis. The formula is
// installed even if it fails to parse; the parse error is returned and every
// following tick reports it for that axis.
func (fl *Field) SetFormula(axis Axis, src string) error {
	if !axis.valid() {
		return fmt.Errorf("unknown axis %v", axis)
	}
	f := fl.cache.GetOrCompile(src, formula.Compile)
	fl.mu.Lock()
	fl.src[axis] = src
	fl.f[axis] = f
	fl.mu.Unlock()
	if err := f.Err(); err != nil {
		log.Warnf("%v formula %q: %v", axis, src, err)
		return err
	}
	log.Debugf("%v formula set to %v", axis, f)
	return nil
}

// Formula returns the source text of the formula for axis, or the empty
// string if axis is not AxisX, AxisY, or AxisZ.
func (fl *Field) Formula(axis Axis) string {
	if !axis.valid() {
		return ""
	}
	fl.mu.RLock()
	defer fl.mu.RUnlock()
	return fl.src[axis]
}

func (fl *Field) setAll(x, y, z string) {
	fl.SetFormula(AxisX, x)
	fl.SetFormula(AxisY, y)
	fl.SetFormula(AxisZ, z)
}

// Reset replaces the formulas with x, y, and z and returns every point to
// where it spawned on the next tick.
func (fl *Field) Reset() {
	fl.setAll("x", "y", "z")
	fl.mu.Lock()
	fl.reset = true
	fl.mu.Unlock()
	log.Debug("reset requested")
}

// Report summarizes one tick.
type Report struct {
	// Err is the last error from any evaluation in the tick, or nil.
	Err error
	// Evals is the number of formula evaluations.
	Evals int
	// Failures is the number of evaluations that returned an error.
	Failures int
	// Reset is true if the tick restored original positions instead of
	// evaluating.
	Reset bool
}

// Tick moves every point. time is the number of seconds since the simulation
// started. For each point, the x formula is evaluated and written first, then
// y sees the new x, then z sees both. A coordinate whose formula fails is left
// unchanged.
func (fl *Field) Tick(time float32) Report {
	fl.mu.Lock()
	fs := fl.f
	reset := fl.reset
	fl.reset = false
	fl.mu.Unlock()

	fl.pmu.Lock()
	defer fl.pmu.Unlock()
	if reset {
		for i := range fl.pts {
			fl.pts[i].pos = fl.pts[i].orig
		}
		return Report{Reset: true}
	}
	var r Report
	for i := range fl.pts {
		p := &fl.pts[i].pos
		for axis, dst := range [...]*float32{&p.X, &p.Y, &p.Z} {
			v, err := fl.ctx.Eval(fs[axis], formula.Env{Time: time, Point: *p})
			r.Evals++
			if err != nil {
				r.Err = err
				r.Failures++
				continue
			}
			*dst = v
		}
	}
	if r.Err != nil {
		log.WithFields(log.Fields{"time": time, "failures": r.Failures}).Debug(r.Err)
	}
	return r
}

// Points returns a copy of the current point positions.
func (fl *Field) Points() []formula.Vec3 {
	fl.pmu.Lock()
	defer fl.pmu.Unlock()
	r := make([]formula.Vec3, len(fl.pts))
	for i, p := range fl.pts {
		r[i] = p.pos
	}
	return r
}

// Len returns the number of points.
func (fl *Field) Len() int {
	fl.pmu.Lock()
	defer fl.pmu.Unlock()
	return len(fl.pts)
}
