package path

import (
	"fmt"
	"io"

	"github.com/npillmayer/laxgeom"
	"github.com/pelletier/go-toml/v2"
)

// Dumps are TOML documents:
//
//	closed = false
//	absolute-angles = false
//
//	[style]
//	width = 2.0
//	cap = "round"
//	...
//
//	[[points]]
//	x = 0.0
//	y = 0.0
//	role = "vertex"
//
//	[[weights]]
//	t = 0.5
//	width = 4.0

type styleRecord struct {
	Width      float64 `toml:"width"`
	Cap        string  `toml:"cap"`
	EndCap     string  `toml:"end-cap"`
	Join       string  `toml:"join"`
	MiterLimit float64 `toml:"miter-limit,omitempty"`
}

type pointRecord struct {
	X          float64 `toml:"x"`
	Y          float64 `toml:"y"`
	Role       string  `toml:"role"`
	Smooth     string  `toml:"smooth,omitempty"`
	Controller string  `toml:"controller,omitempty"`
}

type weightRecord struct {
	T      float64 `toml:"t"`
	Offset float64 `toml:"offset"`
	Width  float64 `toml:"width"`
	Angle  float64 `toml:"angle"`
}

type pathRecord struct {
	Closed         bool           `toml:"closed"`
	AbsoluteAngles bool           `toml:"absolute-angles"`
	Style          *styleRecord   `toml:"style,omitempty"`
	Points         []pointRecord  `toml:"points"`
	Weights        []weightRecord `toml:"weights,omitempty"`
}

type pathsRecord struct {
	Style *styleRecord `toml:"style,omitempty"`
	Paths []pathRecord `toml:"paths"`
}

func (ls *LineStyle) record() *styleRecord {
	if ls == nil {
		return nil
	}
	return &styleRecord{
		Width:      ls.Width,
		Cap:        ls.Cap.String(),
		EndCap:     ls.EndCap.String(),
		Join:       ls.Join.String(),
		MiterLimit: ls.MiterLimit,
	}
}

func (r *styleRecord) lineStyle() *LineStyle {
	if r == nil {
		return nil
	}
	return &LineStyle{
		Width:      r.Width,
		Cap:        parseCap(r.Cap),
		EndCap:     parseCap(r.EndCap),
		Join:       parseJoin(r.Join),
		MiterLimit: r.MiterLimit,
	}
}

// record converts the path to its dump form. The style is included unless it
// is shared, which the caller indicates by passing it as shared.
func (path *Path) record(shared *LineStyle) pathRecord {
	rec := pathRecord{Closed: path.closed, AbsoluteAngles: path.absoluteAngles}
	if path.style != shared {
		rec.Style = path.style.record()
	}
	for _, pt := range path.Points() {
		pr := pointRecord{X: pt.P.X(), Y: pt.P.Y(), Role: pt.Role.String(), Controller: pt.Controller}
		if pt.Role == Vertex && pt.Smooth != NonstiffUnequal {
			pr.Smooth = pt.Smooth.String()
		}
		rec.Points = append(rec.Points, pr)
	}
	for _, w := range path.weights {
		rec.Weights = append(rec.Weights, weightRecord(w))
	}
	return rec
}

// fromRecord rebuilds a path from its dump form.
func fromRecord(rec pathRecord, style *LineStyle) (*Path, error) {
	if s := rec.Style.lineStyle(); s != nil {
		style = s
	}
	path := New(style)
	path.absoluteAngles = rec.AbsoluteAngles
	var pendingPre *laxgeom.Pair // handle read before its vertex
	for i, pr := range rec.Points {
		role, ok := parseRole(pr.Role)
		if !ok {
			return nil, fmt.Errorf("%w: point %d has unknown role %q", ErrInvalidDump, i, pr.Role)
		}
		p := laxgeom.P(pr.X, pr.Y)
		switch role {
		case ControlPrev:
			if pendingPre != nil {
				return nil, fmt.Errorf("%w: point %d is a second incoming handle", ErrInvalidDump, i)
			}
			pendingPre = &p
		case ControlNext:
			n := len(path.verts)
			if n == 0 || path.verts[n-1].hasPost {
				return nil, fmt.Errorf("%w: point %d is an outgoing handle without vertex", ErrInvalidDump, i)
			}
			path.verts[n-1].post, path.verts[n-1].hasPost = p, true
		default:
			smooth, ok := parseSmoothness(pr.Smooth)
			if !ok {
				return nil, fmt.Errorf("%w: point %d has unknown smoothness %q", ErrInvalidDump, i, pr.Smooth)
			}
			v := vertex{p: p, smooth: smooth, controller: pr.Controller}
			if pendingPre != nil {
				v.pre, v.hasPre = *pendingPre, true
				pendingPre = nil
			}
			path.verts = append(path.verts, v)
		}
	}
	if pendingPre != nil { // incoming handle of vertex 0, closing segment
		if len(path.verts) == 0 || !rec.Closed {
			return nil, fmt.Errorf("%w: trailing incoming handle", ErrInvalidDump)
		}
		path.verts[0].pre, path.verts[0].hasPre = *pendingPre, true
	}
	if rec.Closed {
		if err := path.Close(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
		}
	}
	for _, w := range rec.Weights {
		path.weights = append(path.weights, WeightNode(w))
	}
	path.sortWeights()
	path.touch()
	return path, nil
}

// DumpOut writes the path as a TOML document.
func (path *Path) DumpOut(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(path.record(nil)); err != nil {
		return fmt.Errorf("dumping path: %w", err)
	}
	return nil
}

// DumpIn reads a path from a TOML document written by DumpOut.
func DumpIn(r io.Reader) (*Path, error) {
	var rec pathRecord
	if err := toml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	return fromRecord(rec, nil)
}

// DumpOut writes the collection as a TOML document. Paths sharing the
// collection's style do not repeat it.
func (pd *PathsData) DumpOut(w io.Writer) error {
	rec := pathsRecord{Style: pd.style.record()}
	for _, p := range pd.paths {
		rec.Paths = append(rec.Paths, p.record(pd.style))
	}
	if err := toml.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("dumping paths: %w", err)
	}
	return nil
}

// DumpInPaths reads a collection from a TOML document written by
// PathsData.DumpOut.
func DumpInPaths(r io.Reader) (*PathsData, error) {
	var rec pathsRecord
	if err := toml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	pd := NewPathsData(rec.Style.lineStyle())
	for i, pr := range rec.Paths {
		p, err := fromRecord(pr, pd.style)
		if err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
		pd.paths = append(pd.paths, p)
	}
	return pd, nil
}
