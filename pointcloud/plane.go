package pointcloud

import "github.com/golang/geo/r3"

// Plane is a planar patch: the equation eq[0]*x+eq[1]*y+eq[2]*z+eq[3]=0
// together with the point cloud the equation was fit to.
type Plane struct {
	eq     [4]float64
	center r3.Vector
	cloud  PointCloud
}

// NewEmptyPlane returns the zero plane: no points, zero equation.
func NewEmptyPlane() *Plane {
	return &Plane{cloud: New()}
}

// NewPlane builds a Plane from a fitted equation and the cloud it was fit
// to. The center is the cloud's centroid. pc may be nil, in which case the
// plane carries no backing cloud.
func NewPlane(pc PointCloud, eq [4]float64) *Plane {
	p := &Plane{eq: eq}
	if pc != nil {
		p.cloud = pc
		p.center = CloudCentroid(pc)
	} else {
		p.cloud = New()
	}
	return p
}

// Equation returns the plane's (a,b,c,d) coefficients.
func (p *Plane) Equation() [4]float64 { return p.eq }

// Normal returns the (unnormalized) plane normal (a,b,c).
func (p *Plane) Normal() r3.Vector {
	return r3.Vector{X: p.eq[0], Y: p.eq[1], Z: p.eq[2]}
}

// Center returns the centroid of the fitted cloud.
func (p *Plane) Center() r3.Vector { return p.center }

// Offset returns the plane's d coefficient.
func (p *Plane) Offset() float64 { return p.eq[3] }

// PointCloud returns the cloud the plane was fit to.
func (p *Plane) PointCloud() (PointCloud, error) { return p.cloud, nil }

// Distance returns the signed distance from pt to the plane. The zero plane
// (zero normal) always returns 0.
func (p *Plane) Distance(pt r3.Vector) float64 {
	n := p.Normal()
	norm := n.Norm()
	if norm == 0 {
		return 0
	}
	return (n.Dot(pt) + p.eq[3]) / norm
}

// Intersect returns the point where the line through p0 and p1 crosses the
// plane, or nil if the line is parallel to it.
func (p *Plane) Intersect(p0, p1 r3.Vector) *r3.Vector {
	n := p.Normal()
	d := p1.Sub(p0)
	denom := n.Dot(d)
	if denom == 0 {
		return nil
	}
	t := -(n.Dot(p0) + p.eq[3]) / denom
	pt := p0.Add(d.Mul(t))
	return &pt
}
