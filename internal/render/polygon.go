package render

import "math"

const (
	cornerSegments = 12
	circleSegments = 96
)

type point struct{ x, y float64 }

// outline approximates a Rect or Circle as a convex polygon. Vertices run
// clockwise on screen.
func outline(e Element) []point {
	switch s := e.(type) {
	case Rect:
		return rectPolygon(s)
	case Circle:
		return arc(nil, s.CX, s.CY, s.R, 0, 2*math.Pi, circleSegments)
	}
	return nil
}

func rectPolygon(r Rect) []point {
	rx := math.Min(r.RX, math.Min(r.W/2, r.H/2))
	if rx <= 0 {
		return []point{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}}
	}
	var pts []point
	pts = arc(pts, r.X+r.W-rx, r.Y+rx, rx, -math.Pi/2, 0, cornerSegments)
	pts = arc(pts, r.X+r.W-rx, r.Y+r.H-rx, rx, 0, math.Pi/2, cornerSegments)
	pts = arc(pts, r.X+rx, r.Y+r.H-rx, rx, math.Pi/2, math.Pi, cornerSegments)
	pts = arc(pts, r.X+rx, r.Y+rx, rx, math.Pi, 3*math.Pi/2, cornerSegments)
	return pts
}

func arc(pts []point, cx, cy, r, from, to float64, n int) []point {
	closed := to-from >= 2*math.Pi
	last := n
	if closed {
		last = n - 1
	}
	for i := 0; i <= last; i++ {
		a := from + (to-from)*float64(i)/float64(n)
		pts = append(pts, point{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return pts
}

// intersectConvex clips subject against the convex polygon clip
// (Sutherland-Hodgman). Either orientation is accepted for clip.
func intersectConvex(subject, clip []point) []point {
	if len(clip) < 3 {
		return nil
	}
	orient := 1.0
	if signedArea(clip) < 0 {
		orient = -1
	}
	out := subject
	for i := range clip {
		if len(out) == 0 {
			return nil
		}
		a, b := clip[i], clip[(i+1)%len(clip)]
		inside := func(p point) bool { return orient*cross(a, b, p) >= 0 }

		in := out
		out = nil
		prev := in[len(in)-1]
		for _, cur := range in {
			switch {
			case inside(cur):
				if !inside(prev) {
					out = append(out, lineIntersect(prev, cur, a, b))
				}
				out = append(out, cur)
			case inside(prev):
				out = append(out, lineIntersect(prev, cur, a, b))
			}
			prev = cur
		}
	}
	if len(out) < 3 {
		return nil
	}
	return out
}

func cross(a, b, p point) float64 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

func signedArea(pts []point) float64 {
	var s float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		s += p.x*q.y - q.x*p.y
	}
	return s / 2
}

// lineIntersect returns where segment p-q crosses the infinite line a-b.
func lineIntersect(p, q, a, b point) point {
	d1 := cross(a, b, p)
	d2 := cross(a, b, q)
	if d1 == d2 {
		return q
	}
	t := d1 / (d1 - d2)
	return point{p.x + (q.x-p.x)*t, p.y + (q.y-p.y)*t}
}
