/*
Package path implements weighted bezier paths.

A Path is a sequence of vertices, each with an optional incoming
(ControlPrev) and outgoing (ControlNext) bezier handle. Consecutive
vertices form segments; a closed path has a segment from its last vertex
back to the first one. Path parameters t address locations on the path:
the integer part of t is the index of a segment's start vertex, the
fractional part the bezier parameter within that segment.

Weight nodes attach stroke width, centerline offset and cross-section angle
to path parameters. From the vertices and the weight nodes a path derives
its caches:

	outline    stroke boundary, a bezier-tagged closed contour for open
	           paths, two contours (outer, and reversed inner) for closed ones
	center     the offset centerline
	curves     width, offset and angle as functions of t

Caches are rebuilt lazily. Every mutation marks the path dirty, and every
query of a cache calls UpdateCache first.

Every structural edit keeps the weight nodes attached to the same physical
locations on the path by renumbering their t values.

	p := path.New(nil).MoveTo(laxgeom.P(0, 0)).
		CurveTo(laxgeom.P(3, 4), laxgeom.P(7, 4), laxgeom.P(10, 0)).
		LineTo(laxgeom.P(20, 0)).End()
	p.AddWeightNode(0.5, 0, 4, 0)
	outline := p.Outline()

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package path

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'laxgeom.path'
func tracer() tracing.Trace {
	return tracing.Select("laxgeom.path")
}

var (
	// ErrIndexOutOfRange indicates a vertex, segment or weight index not in the path.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrTooFewVertices indicates the path has not enough vertices for an operation.
	ErrTooFewVertices = errors.New("path has too few vertices")
	// ErrClosed indicates an operation requiring an open path was called on a closed one.
	ErrClosed = errors.New("path is closed")
	// ErrNotClosed indicates an operation requiring a closed path was called on an open one.
	ErrNotClosed = errors.New("path is not closed")
	// ErrUnknownController indicates a segment controller name not in the registry.
	ErrUnknownController = errors.New("unknown segment controller")
	// ErrInvalidDump indicates a dump document which does not describe a valid path.
	ErrInvalidDump = errors.New("invalid path dump")
)
