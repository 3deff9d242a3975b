package path

import "fmt"

// CapStyle determines the shape at the ends of an open stroke.
type CapStyle int8

// Cap styles.
const (
	CapButt      CapStyle = iota // cut off square at the end point
	CapRound                     // half circle around the end point
	CapSquare                    // extends by half the width beyond the end point
	CapZeroWidth                 // width runs down to zero at the end point
)

var capNames = [...]string{"butt", "round", "square", "zero-width"}

func (c CapStyle) String() string {
	if c >= 0 && int(c) < len(capNames) {
		return capNames[c]
	}
	return fmt.Sprintf("cap(%d)", int(c))
}

func parseCap(s string) CapStyle {
	for i, n := range capNames {
		if n == s {
			return CapStyle(i)
		}
	}
	return CapButt
}

// JoinStyle determines the shape on the outer side of a corner.
type JoinStyle int8

// Join styles.
const (
	JoinMiter JoinStyle = iota // extend the edges until they meet
	JoinRound                  // circular arc around the corner
	JoinBevel                  // straight line between the edge ends
)

var joinNames = [...]string{"miter", "round", "bevel"}

func (j JoinStyle) String() string {
	if j >= 0 && int(j) < len(joinNames) {
		return joinNames[j]
	}
	return fmt.Sprintf("join(%d)", int(j))
}

func parseJoin(s string) JoinStyle {
	for i, n := range joinNames {
		if n == s {
			return JoinStyle(i)
		}
	}
	return JoinMiter
}

// LineStyle holds the stroke parameters of a path. A line style may be shared
// by several paths.
type LineStyle struct {
	Width      float64   // stroke width where no weight node says otherwise
	Cap        CapStyle  // cap at the start of an open path
	EndCap     CapStyle  // cap at the end of an open path
	Join       JoinStyle // corner join
	MiterLimit float64   // maximum miter length, in multiples of the half width; 0 uses the miter factor
}

// DefaultLineStyle returns a line style of width 1 with butt caps and miter joins.
func DefaultLineStyle() *LineStyle {
	return &LineStyle{Width: 1, Cap: CapButt, EndCap: CapButt, Join: JoinMiter}
}

func (ls *LineStyle) String() string {
	return fmt.Sprintf("style(w=%g, cap=%s/%s, join=%s)", ls.Width, ls.Cap, ls.EndCap, ls.Join)
}

// ShapeBrush defines the cross-section of a stroke. Min and max are the
// distances of the bottom and top edge from the centerline, as fractions of
// the stroke width.
type ShapeBrush interface {
	MinMax() (min, max float64)
}

// Profile is a ShapeBrush with a fixed cross-section.
type Profile struct {
	Min, Max float64
}

// MinMax implements ShapeBrush.
func (p Profile) MinMax() (float64, float64) {
	return p.Min, p.Max
}

var symmetric = Profile{Min: -0.5, Max: 0.5}
