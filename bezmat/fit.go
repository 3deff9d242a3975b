package bezmat

import "github.com/npillmayer/laxgeom"

// FitThrough returns cubic segments passing exactly through every sample,
// one segment between each pair of consecutive samples. Handles follow the
// Catmull-Rom rule (neighbour difference / 6); open runs reflect their end
// samples, closed runs wrap around and get a closing segment.
func FitThrough(samples []laxgeom.Pair, closed bool) []Cubic {
	n := len(samples)
	if n < 2 {
		return nil
	}
	at := func(i int) laxgeom.Pair {
		if closed {
			return samples[((i%n)+n)%n]
		}
		switch {
		case i < 0:
			return samples[0].Scaled(2) - samples[1]
		case i >= n:
			return samples[n-1].Scaled(2) - samples[n-2]
		}
		return samples[i]
	}
	segs := n - 1
	if closed {
		segs = n
	}
	out := make([]Cubic, 0, segs)
	for i := 0; i < segs; i++ {
		q0, q1 := at(i), at(i+1)
		c0 := q0 + (q1 - at(i-1)).Scaled(1./6)
		c1 := q1 - (at(i+2) - q0).Scaled(1./6)
		out = append(out, Cubic{q0, c0, c1, q1})
	}
	return out
}
