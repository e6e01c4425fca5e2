// Package aperture analyses the cross sections of a growing tube.
/*
The aperture at growth stage s is the cross section of the tube, a circle of
radius r0·exp(E·s) in the plane normal to the generating spiral. One
revolution later, at stage s + 2π/D, the tube has grown and moved on. Whether
consecutive whorls overlap, and by how much, is a classical descriptor of
coiled shells: WhorlOverlap projects the later aperture onto the section
plane of the earlier one and measures the fraction of the earlier aperture
covered by it.

Apertures are handled as polygons, with polygon clipping done by
github.com/akavel/polyclip-go.

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package aperture

import (
	"fmt"
	"math"

	"github.com/npillmayer/growtube"
	"github.com/npillmayer/growtube/tube"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'growtube.aperture'
func tracer() tracing.Trace {
	return tracing.Select("growtube.aperture")
}

// plane is a section plane: an origin and an orthonormal basis.
type plane struct {
	origin r3.Vec
	e1, e2 r3.Vec
}

// sectionPlane returns the section plane at stage s, centered on the
// generating spiral.
func sectionPlane(s float64, c tube.Constant, r0 float64) plane {
	return plane{
		origin: tube.Spiral(s, c, r0),
		e1:     r3.Unit(tube.Section(s, 0, c, r0)),
		e2:     r3.Unit(tube.Section(s, math.Pi/2, c, r0)),
	}
}

// project maps v orthogonally onto the plane.
func (pl plane) project(v r3.Vec) growtube.Pair {
	d := r3.Sub(v, pl.origin)
	return growtube.P(r3.Dot(d, pl.e1), r3.Dot(d, pl.e2))
}

func check(c tube.Constant, r0 float64, n int) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !(r0 > 0) || !growtube.IsFinite(r0) {
		return fmt.Errorf("%w: initial radius %g", growtube.ErrInvalidFrame, r0)
	}
	if n < 3 {
		return fmt.Errorf("%w: aperture needs at least 3 samples, have %d", growtube.ErrInvalidRange, n)
	}
	return nil
}

// outlineIn samples the aperture at stage s with n points and projects it
// onto pl.
func outlineIn(pl plane, s float64, c tube.Constant, r0 float64, n int) *Polygon {
	pg := NullPolygon()
	center := tube.Spiral(s, c, r0)
	for j := 0; j < n; j++ {
		phi := 2 * math.Pi * float64(j) / float64(n)
		u := r3.Add(center, tube.Section(s, phi, c, r0))
		pg.Knot(pl.project(u))
	}
	return pg.Cycle()
}

// Outline returns the aperture at growth stage s, sampled at n angles, in
// coordinates of its own section plane. The spiral passes through the origin
// of this coordinate system.
func Outline(s float64, c tube.Constant, r0 float64, n int) (*Polygon, error) {
	if err := check(c, r0, n); err != nil {
		return nil, err
	}
	return outlineIn(sectionPlane(s, c, r0), s, c, r0, n), nil
}

// WhorlOverlap returns the fraction of the aperture at stage s which is
// covered by the aperture one revolution later, projected onto the section
// plane at s. The result is in [0,1]. Apertures are sampled at n angles.
func WhorlOverlap(s float64, c tube.Constant, r0 float64, n int) (float64, error) {
	if err := check(c, r0, n); err != nil {
		return 0, err
	}
	pl := sectionPlane(s, c, r0)
	earlier := outlineIn(pl, s, c, r0, n)
	later := outlineIn(pl, s+c.Period(), c, r0, n)
	isect, err := earlier.Intersect(later)
	if err != nil {
		return 0, err
	}
	ratio := isect.Area() / earlier.Area()
	ratio = math.Max(0, math.Min(1, growtube.Zap(ratio)))
	tracer().P("shape", c).Debugf("whorl overlap at s=%g is %.4f", s, ratio)
	return ratio, nil
}
