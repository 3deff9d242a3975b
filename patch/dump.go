package patch

import (
	"fmt"
	"io"

	"github.com/npillmayer/laxgeom"
	"github.com/pelletier/go-toml/v2"
)

// Dumps are TOML documents listing the mesh size and the control points
// row by row:
//
//	xsize = 4
//	ysize = 4
//	points = [[0.0, 0.0], [1.0, 0.0], ...]
type patchRecord struct {
	XSize  int          `toml:"xsize"`
	YSize  int          `toml:"ysize"`
	Points [][2]float64 `toml:"points"`
}

// DumpOut writes the mesh as a TOML document.
func (pd *PatchData) DumpOut(w io.Writer) error {
	rec := patchRecord{XSize: pd.xsize, YSize: pd.ysize, Points: make([][2]float64, len(pd.points))}
	for i, p := range pd.points {
		rec.Points[i] = [2]float64{p.X(), p.Y()}
	}
	if err := toml.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("dumping patch: %w", err)
	}
	return nil
}

// DumpIn reads a mesh from a TOML document written by DumpOut.
func DumpIn(r io.Reader) (*PatchData, error) {
	var rec patchRecord
	if err := toml.NewDecoder(r).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if rec.XSize < 4 || rec.YSize < 4 || rec.XSize%3 != 1 || rec.YSize%3 != 1 {
		return nil, fmt.Errorf("%w: mesh size %d×%d", ErrInvalidDump, rec.XSize, rec.YSize)
	}
	if len(rec.Points) != rec.XSize*rec.YSize {
		return nil, fmt.Errorf("%w: %d points for a %d×%d mesh", ErrInvalidDump,
			len(rec.Points), rec.XSize, rec.YSize)
	}
	pts := make([]laxgeom.Pair, len(rec.Points))
	for i, xy := range rec.Points {
		pts[i] = laxgeom.P(xy[0], xy[1])
	}
	pd := &PatchData{settings: laxgeom.DefaultSettings()}
	pd.swap(rec.XSize, rec.YSize, pts)
	return pd, nil
}
