// Package geometry implements the axis-aligned box math, decoration hit
// regions and rotation transform used to place and hit-test views over a
// multi-output layout.
package geometry

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Box is an axis-aligned rectangle in layout or surface-local coordinates,
// depending on context.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies within the box, inclusive of its
// edges.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// CenterX and CenterY return the box's center point.
func (b Box) CenterX() float64 { return b.X + b.Width/2 }
func (b Box) CenterY() float64 { return b.Y + b.Height/2 }

// Intersects reports whether b and other overlap by any positive area,
// touching edges excluded.
func (b Box) Intersects(other Box) bool {
	return b.X < other.X+other.Width && other.X < b.X+b.Width &&
		b.Y < other.Y+other.Height && other.Y < b.Y+b.Height
}

// Decoration holds a view's server-side decoration metrics.
type Decoration struct {
	BorderWidth    float64
	TitlebarHeight float64
	Decorated      bool
}

// ViewBox returns the interior box of a view: its committed position and
// size, with no decoration applied.
func ViewBox(x, y float64, width, height uint32) Box {
	return Box{X: x, Y: y, Width: float64(width), Height: float64(height)}
}

// DecoBox expands the interior box to include decorations, iff the view is
// decorated: left/right grow by BorderWidth, top by
// BorderWidth+TitlebarHeight, bottom by BorderWidth.
func DecoBox(inner Box, deco Decoration) Box {
	if !deco.Decorated {
		return inner
	}
	return Box{
		X:      inner.X - deco.BorderWidth,
		Y:      inner.Y - (deco.BorderWidth + deco.TitlebarHeight),
		Width:  inner.Width + deco.BorderWidth*2,
		Height: inner.Height + deco.BorderWidth*2 + deco.TitlebarHeight,
	}
}

// DecoPart is a bitmask classifying which decoration region a surface-local
// point falls within. Multiple bits may be set simultaneously near a
// corner; this module doesn't classify corners specially, matching the
// original implementation it is grounded on.
type DecoPart int

const DecoNone DecoPart = 0

const (
	DecoTitlebar DecoPart = 1 << iota
	DecoLeft
	DecoRight
	DecoTop
	DecoBottom
)

// ClassifyDecoPart classifies a surface-local point (sx, sy) — origin at
// the top-left of the client surface, y growing downward — against the
// decoration regions around a surface of size (sw, sh).
func ClassifyDecoPart(deco Decoration, sw, sh, sx, sy float64) DecoPart {
	if !deco.Decorated {
		return DecoNone
	}

	bw := deco.BorderWidth
	th := deco.TitlebarHeight

	if sx > 0 && sx < sw && sy < 0 && sy > -th {
		return DecoTitlebar
	}

	var parts DecoPart
	if sy >= -(th+bw) && sy <= sh+bw {
		if sx < 0 && sx > -bw {
			parts |= DecoLeft
		} else if sx > sw && sx < sw+bw {
			parts |= DecoRight
		}
	}
	if sx >= -bw && sx <= sw+bw {
		if sy > sh && sy <= sh+bw {
			parts |= DecoBottom
		} else if sy >= -(th+bw) && sy < 0 {
			parts |= DecoTop
		}
	}

	// Corners are deliberately left unclassified: a point near a corner
	// may set an edge bit from each axis at once.
	return parts
}

// RotatePoint rotates (sx, sy) by radians around the center of a box of
// size (w, h), using the forward transform the renderer applies to the
// view. Hit-testing must rotate the incoming point by this same
// convention to stay consistent with how the view is actually drawn.
func RotatePoint(sx, sy, w, h, radians float64) (rx, ry float64) {
	if radians == 0 {
		return sx, sy
	}
	ox := sx - w/2
	oy := sy - h/2
	cos, sin := math.Cos(radians), math.Sin(radians)
	nx := cos*ox - sin*oy
	ny := cos*oy + sin*ox
	return nx + w/2, ny + h/2
}

// Clamp restricts v to the closed interval [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

