package turtle

import (
	"fmt"
	"math"
)

const degreesToRadians = 2 * math.Pi / 360

// Turtle is the drawing agent.
//
// Path, PathColor and PathWidth are parallel: segment i is drawn with
// PathColor[i] and PathWidth[i]. Every method keeps the three the same length.
type Turtle struct {
	Position  Point     `json:"position"`
	Angle     float32   `json:"angle"`
	PenUp     bool      `json:"pen_up"`
	PenColor  Color     `json:"pen_color"`
	PenWidth  float32   `json:"pen_width"`
	Path      [][]Point `json:"path"`
	PathColor []Color   `json:"path_color"`
	PathWidth []float32 `json:"path_width"`

	// History is the user-facing diagnostic log
	History []string `json:"history"`

	// epoch counts how many times History was emptied
	epoch uint64
	opts  Options
}

// New creates a turtle from opts with one empty segment in the starting pen.
func New(opts Options) *Turtle {
	t := &Turtle{
		Position: opts.Position,
		Angle:    opts.Angle,
		PenColor: opts.PenColor,
		PenWidth: opts.PenWidth,
		opts:     opts,
	}
	t.startSegment()
	return t
}

// Reset replaces the turtle with a freshly initialized one, history included.
func (t *Turtle) Reset() {
	epoch := t.epoch + 1
	*t = *New(t.opts)
	t.epoch = epoch
}

// Restore replaces the turtle's state with a copy of saved. The starting
// options of t are kept, so a later Reset returns to t's start rather than
// saved's.
func (t *Turtle) Restore(saved *Turtle) {
	epoch := t.epoch + 1
	opts := t.opts
	*t = *saved.Clone()
	t.epoch = epoch
	t.opts = opts
	if len(t.Path) == 0 {
		t.startSegment()
	}
}

// startSegment opens a new empty segment in the current pen.
func (t *Turtle) startSegment() {
	t.Path = append(t.Path, []Point{})
	t.PathColor = append(t.PathColor, t.PenColor)
	t.PathWidth = append(t.PathWidth, t.PenWidth)
}

// Forward moves the turtle dist units along its heading. With the pen down
// the start and end points are appended to the current segment.
func (t *Turtle) Forward(dist float64) error {
	if !isFinite(dist) {
		return fmt.Errorf("forward %v: %w", dist, ErrNotFinite)
	}

	angle := float64(t.Angle)
	xOff := float32(dist * math.Sin(angle))
	yOff := float32(dist * math.Cos(angle))

	from := t.Position
	to := Point{X: from.X - xOff, Y: from.Y - yOff}
	if !isFinite32(xOff) || !isFinite32(yOff) || !isFinite32(to.X) || !isFinite32(to.Y) {
		return fmt.Errorf("forward %v: %w", dist, ErrNotFinite)
	}
	t.Position = to

	if !t.PenUp {
		if len(t.Path) == 0 {
			t.startSegment()
		}
		last := len(t.Path) - 1
		t.Path[last] = append(t.Path[last], from, t.Position)
	}
	return nil
}

// RotateRight turns the turtle clockwise by degrees.
func (t *Turtle) RotateRight(degrees float64) error {
	if !isFinite(degrees) {
		return fmt.Errorf("right %v: %w", degrees, ErrNotFinite)
	}
	angle := t.Angle - float32(degrees*degreesToRadians)
	if !isFinite32(angle) {
		return fmt.Errorf("right %v: %w", degrees, ErrNotFinite)
	}
	t.Angle = angle
	return nil
}

// RotateLeft turns the turtle counter-clockwise by degrees. The heading is
// moved by a full turn minus the rotation, which is the same direction as
// adding the rotation modulo 2π.
func (t *Turtle) RotateLeft(degrees float64) error {
	if !isFinite(degrees) {
		return fmt.Errorf("left %v: %w", degrees, ErrNotFinite)
	}
	angle := t.Angle - float32(2*math.Pi-degrees*degreesToRadians)
	if !isFinite32(angle) {
		return fmt.Errorf("left %v: %w", degrees, ErrNotFinite)
	}
	t.Angle = angle
	return nil
}

// SetPenColor changes the pen color and starts a new segment.
func (t *Turtle) SetPenColor(c Color) {
	t.PenColor = c
	t.startSegment()
}

// SetPenWidth changes the pen width and starts a new segment.
func (t *Turtle) SetPenWidth(width float64) error {
	w := float32(width)
	if !isFinite(width) || !isFinite32(w) {
		return fmt.Errorf("penwidth %v: %w", width, ErrNotFinite)
	}
	t.PenWidth = w
	t.startSegment()
	return nil
}

// LiftPen lifts the pen. Later moves reposition without drawing.
func (t *Turtle) LiftPen() {
	t.PenUp = true
}

// LowerPen lowers the pen and starts a new segment if the path has any.
func (t *Turtle) LowerPen() {
	t.PenUp = false
	if len(t.Path) > 0 {
		t.startSegment()
	}
}

// Log appends a line to the diagnostic log.
func (t *Turtle) Log(line string) {
	t.History = append(t.History, line)
}

// Logf appends a formatted line to the diagnostic log.
func (t *Turtle) Logf(format string, args ...any) {
	t.Log(fmt.Sprintf(format, args...))
}

// ClearHistory empties the diagnostic log.
func (t *Turtle) ClearHistory() {
	t.History = nil
	t.epoch++
}

// HistoryEpoch changes every time the diagnostic log is emptied, by
// ClearHistory, Reset or Restore. Two equal epochs mean the log has only
// grown in between.
func (t *Turtle) HistoryEpoch() uint64 {
	return t.epoch
}

// Heading returns the heading in degrees normalized to [0, 360).
func (t *Turtle) Heading() float64 {
	deg := math.Mod(float64(t.Angle)/degreesToRadians, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Segments returns the number of path segments.
func (t *Turtle) Segments() int {
	return len(t.Path)
}

// Points returns the total number of points across all segments.
func (t *Turtle) Points() int {
	n := 0
	for _, seg := range t.Path {
		n += len(seg)
	}
	return n
}

// Clone returns a deep copy that shares no slices with t.
func (t *Turtle) Clone() *Turtle {
	c := *t
	c.Path = make([][]Point, len(t.Path))
	for i, seg := range t.Path {
		c.Path[i] = make([]Point, len(seg))
		copy(c.Path[i], seg)
	}
	c.PathColor = append([]Color(nil), t.PathColor...)
	c.PathWidth = append([]float32(nil), t.PathWidth...)
	c.History = append([]string(nil), t.History...)
	return &c
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// isFinite32 catches values that were finite as float64 but overflowed
// when narrowed.
func isFinite32(f float32) bool {
	return isFinite(float64(f))
}
