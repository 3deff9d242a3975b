package path

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/npillmayer/laxgeom"
	"github.com/npillmayer/laxgeom/bezmat"
	"github.com/npillmayer/laxgeom/hobby"
)

// SegmentController computes bezier handles for a run of vertices. Pre and
// post must have one entry per vertex; NaN entries leave a handle alone.
type SegmentController interface {
	Name() string
	Controls(vertices []laxgeom.Pair, closed bool) (pre, post []laxgeom.Pair, err error)
}

// Registry maps names to segment controllers.
type Registry struct {
	mx          sync.RWMutex
	controllers map[string]SegmentController
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{controllers: make(map[string]SegmentController)}
}

// Register adds a controller under its name, replacing any controller of the
// same name.
func (r *Registry) Register(c SegmentController) {
	r.mx.Lock()
	defer r.mx.Unlock()
	r.controllers[c.Name()] = c
}

// Lookup finds a controller by name.
func (r *Registry) Lookup(name string) (SegmentController, bool) {
	r.mx.RLock()
	defer r.mx.RUnlock()
	c, ok := r.controllers[name]
	return c, ok
}

// Names lists the registered controller names in sorted order.
func (r *Registry) Names() []string {
	r.mx.RLock()
	defer r.mx.RUnlock()
	names := make([]string, 0, len(r.controllers))
	for n := range r.controllers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.Register(HobbyController{})
	defaultRegistry.Register(CatmullRomController{})
}

// Register adds a controller to the default registry.
func Register(c SegmentController) {
	defaultRegistry.Register(c)
}

// Controllers returns the default registry.
func Controllers() *Registry {
	return defaultRegistry
}

// SetControllers makes the path use registry r for smoothing. A nil registry
// selects the default one.
func (path *Path) SetControllers(r *Registry) {
	path.controllers = r
}

// HobbyController smooths vertices by Hobby's spline algorithm.
type HobbyController struct{}

// Name implements SegmentController.
func (HobbyController) Name() string { return "hobby" }

// Controls implements SegmentController.
func (HobbyController) Controls(vertices []laxgeom.Pair, closed bool) ([]laxgeom.Pair, []laxgeom.Pair, error) {
	knots := hobby.Knots(vertices...)
	if closed {
		knots.Cycle()
	}
	ctrls, err := hobby.Solve(knots)
	if err != nil {
		return nil, nil, err
	}
	return ctrls.Pre, ctrls.Post, nil
}

// CatmullRomController places handles at a sixth of the distance between a
// vertex's neighbours.
type CatmullRomController struct{}

// Name implements SegmentController.
func (CatmullRomController) Name() string { return "catmull-rom" }

// Controls implements SegmentController.
func (CatmullRomController) Controls(vertices []laxgeom.Pair, closed bool) ([]laxgeom.Pair, []laxgeom.Pair, error) {
	n := len(vertices)
	if n < 2 {
		return nil, nil, fmt.Errorf("%w: catmull-rom needs 2 vertices", ErrTooFewVertices)
	}
	cubics := bezmat.FitThrough(vertices, closed)
	pre, post := make([]laxgeom.Pair, n), make([]laxgeom.Pair, n)
	for i := range pre {
		pre[i], post[i] = nanPair, nanPair
	}
	for i, c := range cubics {
		post[i] = c[1]
		pre[(i+1)%n] = c[2]
	}
	return pre, post, nil
}

var nanPair = laxgeom.P(math.NaN(), math.NaN())

// SmoothVertices recomputes the handles of vertices from..to with the named
// segment controller. If the range covers all vertices of a closed path, the
// run is smoothed as a cycle.
func (path *Path) SmoothVertices(from, to int, name string) error {
	reg := path.controllers
	if reg == nil {
		reg = defaultRegistry
	}
	ctrl, ok := reg.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownController, name)
	}
	n := len(path.verts)
	if from > to {
		from, to = to, from
	}
	if from < 0 || to >= n {
		return fmt.Errorf("%w: vertices %d…%d", ErrIndexOutOfRange, from, to)
	}
	if to-from < 1 {
		return fmt.Errorf("%w: smoothing needs 2 vertices", ErrTooFewVertices)
	}
	cycle := path.closed && from == 0 && to == n-1
	knots := make([]laxgeom.Pair, 0, to-from+1)
	for i := from; i <= to; i++ {
		knots = append(knots, path.verts[i].p)
	}
	pre, post, err := ctrl.Controls(knots, cycle)
	if err != nil {
		return fmt.Errorf("smoothing with %s: %w", name, err)
	}
	for k := range knots {
		v := &path.verts[from+k]
		if k < len(pre) && !pre[k].IsNaN() {
			v.pre, v.hasPre = pre[k], true
		}
		if k < len(post) && !post[k].IsNaN() {
			v.post, v.hasPost = post[k], true
		}
		v.controller = name
	}
	tracer().Debugf("path: smoothed vertices %d…%d with %s", from, to, name)
	path.touch()
	return nil
}
