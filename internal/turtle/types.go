// Package turtle holds the drawing agent: its pose, its pen and the path it
// has drawn so far. Hosts read the path segments for rendering; only the
// interpreter mutates a Turtle.
package turtle

import (
	"errors"
	"fmt"
)

// ErrNotFinite is returned by operations given a NaN or infinite argument.
var ErrNotFinite = errors.New("value is not a finite number")

// Point is a position on the drawing plane.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// NewPoint returns the point (x, y).
func NewPoint(x, y float32) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Color is an RGBA pen color, 0-255 per channel.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Black is the default pen color.
var Black = Color{R: 0, G: 0, B: 0, A: 255}

// NewColor returns the color with the given channels.
func NewColor(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex renders the color as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Options holds the initial state a Turtle starts from and returns to on
// Reset.
type Options struct {
	// Position is the starting position
	Position Point

	// Angle is the starting heading in radians
	Angle float32

	// PenColor is the starting pen color
	PenColor Color

	// PenWidth is the starting pen width
	PenWidth float32
}

// DefaultOptions returns Options with the turtle at the origin, heading 0,
// drawing with a black pen of width 1.
func DefaultOptions() Options {
	return Options{
		Position: Point{},
		Angle:    0,
		PenColor: Black,
		PenWidth: 1,
	}
}
