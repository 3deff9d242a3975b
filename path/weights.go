package path

import (
	"fmt"
	"math"
	"sort"

	"github.com/npillmayer/laxgeom"
)

// WeightNode attaches stroke parameters to a path parameter T.
type WeightNode struct {
	T      float64
	Offset float64 // distance of the centerline from the path, along the normal
	Width  float64 // stroke width
	Angle  float64 // rotation of the cross-section
}

func (w WeightNode) String() string {
	return fmt.Sprintf("w[t=%.4g off=%.4g wd=%.4g ang=%.4g]", w.T, w.Offset, w.Width, w.Angle)
}

// NumWeightNodes is the count of weight nodes.
func (path *Path) NumWeightNodes() int {
	return len(path.weights)
}

// WeightNodes returns a copy of the weight nodes, sorted by T.
func (path *Path) WeightNodes() []WeightNode {
	return append([]WeightNode(nil), path.weights...)
}

// WeightNode returns weight node i.
func (path *Path) WeightNode(i int) (WeightNode, error) {
	if i < 0 || i >= len(path.weights) {
		return WeightNode{}, fmt.Errorf("%w: weight node %d", ErrIndexOutOfRange, i)
	}
	return path.weights[i], nil
}

// clampT moves t into the parameter range of the path.
func (path *Path) clampT(t float64) float64 {
	n := float64(path.NumSegments())
	if path.closed && n > 0 {
		t = math.Mod(t, n)
		if t < 0 {
			t += n
		}
		return t
	}
	if t < 0 {
		tracer().Infof("path: weight position %g moved to 0", t)
		return 0
	}
	if t > n {
		tracer().Infof("path: weight position %g moved to %g", t, n)
		return n
	}
	return t
}

// AddWeightNode adds a weight node and returns its index. A node already
// sitting at t is overwritten.
func (path *Path) AddWeightNode(t, offset, width, angle float64) int {
	t = path.clampT(t)
	node := WeightNode{T: t, Offset: offset, Width: width, Angle: angle}
	for i, w := range path.weights {
		if laxgeom.Is0(w.T - t) {
			path.weights[i] = node
			path.touch()
			return i
		}
	}
	i := sort.Search(len(path.weights), func(i int) bool { return path.weights[i].T > t })
	path.weights = append(path.weights, WeightNode{})
	copy(path.weights[i+1:], path.weights[i:])
	path.weights[i] = node
	path.touch()
	return i
}

// InsertWeightNode adds a weight node at t which carries the interpolated
// values the stroke has at t, and returns its index.
func (path *Path) InsertWeightNode(t float64) int {
	w := path.GetWeight(t)
	return path.AddWeightNode(t, w.Offset, w.Width, w.Angle)
}

// RemoveWeightNode deletes weight node i.
func (path *Path) RemoveWeightNode(i int) error {
	if i < 0 || i >= len(path.weights) {
		return fmt.Errorf("%w: weight node %d", ErrIndexOutOfRange, i)
	}
	path.weights = append(path.weights[:i], path.weights[i+1:]...)
	path.touch()
	return nil
}

// ClearWeights removes all weight nodes.
func (path *Path) ClearWeights() {
	path.weights = nil
	path.touch()
}

// SetWeight changes the values of weight node i, keeping its position.
func (path *Path) SetWeight(i int, offset, width, angle float64) error {
	if i < 0 || i >= len(path.weights) {
		return fmt.Errorf("%w: weight node %d", ErrIndexOutOfRange, i)
	}
	w := &path.weights[i]
	w.Offset, w.Width, w.Angle = offset, width, angle
	path.touch()
	return nil
}

// MoveWeight moves weight node i to path parameter t and returns the node's
// new index. Positions outside the path are clamped to its ends.
func (path *Path) MoveWeight(i int, t float64) (int, error) {
	if i < 0 || i >= len(path.weights) {
		return -1, fmt.Errorf("%w: weight node %d", ErrIndexOutOfRange, i)
	}
	w := path.weights[i]
	path.weights = append(path.weights[:i], path.weights[i+1:]...)
	return path.AddWeightNode(t, w.Offset, w.Width, w.Angle), nil
}

// GetWeight returns the stroke parameters at path parameter t. Without
// weight nodes this is the line style's width with zero offset and angle.
func (path *Path) GetWeight(t float64) WeightNode {
	if len(path.weights) == 0 {
		return WeightNode{T: t, Width: path.style.Width}
	}
	path.UpdateWidthCache()
	if path.widths == nil {
		w := path.weights[0]
		w.T = t
		return w
	}
	return WeightNode{
		T:      t,
		Offset: path.offsets.F(t),
		Width:  path.widths.F(t),
		Angle:  path.angles.F(t),
	}
}

// remapWeights moves every weight node to fn(t). Nodes for which fn reports
// false are removed.
func (path *Path) remapWeights(fn func(t float64) (float64, bool)) {
	kept := path.weights[:0]
	for _, w := range path.weights {
		if t, ok := fn(w.T); ok {
			w.T = t
			kept = append(kept, w)
		}
	}
	path.weights = kept
	path.sortWeights()
}

func (path *Path) sortWeights() {
	sort.SliceStable(path.weights, func(i, j int) bool {
		return path.weights[i].T < path.weights[j].T
	})
	if len(path.weights) < 2 {
		return
	}
	uniq := path.weights[:1]
	for _, w := range path.weights[1:] {
		if laxgeom.Is0(w.T - uniq[len(uniq)-1].T) {
			uniq[len(uniq)-1] = w
			continue
		}
		uniq = append(uniq, w)
	}
	path.weights = uniq
	path.touch()
}

// pinWeight makes sure a weight node sits at t, carrying the current stroke
// values there. It does nothing for a path without weight nodes.
func (path *Path) pinWeight(t float64) {
	if len(path.weights) == 0 {
		return
	}
	for _, w := range path.weights {
		if laxgeom.Is0(w.T - t) {
			return
		}
	}
	path.InsertWeightNode(t)
}
