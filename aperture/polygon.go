package aperture

import (
	"fmt"
	"math"
	"strings"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/growtube"
)

// Polygon is a planar polygon, possibly consisting of several contours
// (e.g., after clipping). Contours are assumed not to be holes.
//
// Polygons are built with a path builder:
//
//	pg := NullPolygon().Knot(growtube.P(0, 0)).Knot(growtube.P(1, 3)).Knot(growtube.P(3, 0)).Cycle()
type Polygon struct {
	pg     polyclip.Polygon
	open   polyclip.Contour // contour under construction
	closed bool
}

// NullPolygon starts a new polygon without knots.
func NullPolygon() *Polygon {
	return &Polygon{}
}

// Knot appends a knot to the contour under construction. A knot equal to
// its predecessor is dropped.
func (p *Polygon) Knot(pr growtube.Pair) *Polygon {
	if n := len(p.open); n > 0 && growtube.P(p.open[n-1].X, p.open[n-1].Y).Equal(pr) {
		return p
	}
	p.open = append(p.open, polyclip.Point{X: pr.X(), Y: pr.Y()})
	return p
}

// Cycle closes the contour under construction. A last knot equal to the
// first one is dropped.
func (p *Polygon) Cycle() *Polygon {
	if n := len(p.open); n > 1 {
		first, last := p.open[0], p.open[n-1]
		if growtube.P(first.X, first.Y).Equal(growtube.P(last.X, last.Y)) {
			p.open = p.open[:n-1]
		}
	}
	if len(p.open) > 0 {
		p.pg = append(p.pg, p.open)
		p.open = nil
	}
	p.closed = true
	return p
}

// Box creates a rectangle from two diagonal corners.
func Box(a, b growtube.Pair) *Polygon {
	return NullPolygon().Knot(a).Knot(growtube.P(b.X(), a.Y())).
		Knot(b).Knot(growtube.P(a.X(), b.Y())).Cycle()
}

// N returns the number of knots of all closed contours.
func (p *Polygon) N() int {
	n := 0
	for _, c := range p.pg {
		n += len(c)
	}
	return n
}

// Contours returns the number of closed contours.
func (p *Polygon) Contours() int {
	return len(p.pg)
}

// Knots returns the knots of contour i.
func (p *Polygon) Knots(i int) []growtube.Pair {
	pairs := make([]growtube.Pair, len(p.pg[i]))
	for j, pt := range p.pg[i] {
		pairs[j] = growtube.P(pt.X, pt.Y)
	}
	return pairs
}

// Area returns the area enclosed by the polygon's contours.
func (p *Polygon) Area() float64 {
	area := 0.0
	for _, c := range p.pg {
		area += math.Abs(shoelace(c))
	}
	return area
}

// shoelace returns the signed area of a contour, positive for
// counter-clockwise orientation.
func shoelace(c polyclip.Contour) float64 {
	a := 0.0
	for i := range c {
		j := (i + 1) % len(c)
		a += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return a / 2
}

// Intersect returns the intersection of two closed polygons.
func (p *Polygon) Intersect(other *Polygon) (*Polygon, error) {
	if !p.closed || !other.closed {
		return nil, fmt.Errorf("%w: cannot intersect open polygons", growtube.ErrInvalidRange)
	}
	if len(p.pg) == 0 || len(other.pg) == 0 {
		return &Polygon{closed: true}, nil
	}
	isect := p.pg.Construct(polyclip.INTERSECTION, other.pg)
	return &Polygon{pg: isect, closed: true}, nil
}

// AsString returns a polygon in a MetaPost-like path notation.
func AsString(p *Polygon) string {
	var sb strings.Builder
	for i, c := range p.pg {
		if i > 0 {
			sb.WriteString(", ")
		}
		for _, pt := range c {
			sb.WriteString(growtube.P(pt.X, pt.Y).String())
			sb.WriteString("--")
		}
		sb.WriteString("cycle")
	}
	for i, pt := range p.open { // not yet closed
		if i > 0 {
			sb.WriteString("--")
		} else if len(p.pg) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(growtube.P(pt.X, pt.Y).String())
	}
	return sb.String()
}
