// Package stereology estimates the 3D intrinsic volumes (volume, surface
// area, mean breadth, Euler number) of labeled regions in a voxel grid using
// digital stereology: a single pass counts the 256 possible 2x2x2 binary
// configurations per region, and precomputed lookup tables turn those counts
// into measure estimates via the Crofton formula and digital topology.
package stereology

import (
	"math"

	"voxelmetrics/pkg/voxel"
)

// Direction family indices into the 7-element weight arrays. The 13 sampling
// directions of the cubic lattice group into 7 families under its symmetry:
// the 3 axes, the 3 pairs of face diagonals, and the 4 body diagonals.
const (
	DirX   = 0 // axis direction (1,0,0)
	DirY   = 1 // axis direction (0,1,0)
	DirZ   = 2 // axis direction (0,0,1)
	DirXY  = 3 // face diagonals (1,+-1,0)
	DirXZ  = 4 // face diagonals (1,0,+-1)
	DirYZ  = 5 // face diagonals (0,1,+-1)
	DirXYZ = 6 // body diagonals (1,+-1,+-1)
)

// Isotropic direction weights, i.e. the spherical Voronoi domain area of each
// sampling direction divided by 2*pi, for cubic voxels. Kept as literals to
// avoid recomputation and numerical noise in the common case.
const (
	isoWeightAxis = 0.04577789120476 * 2
	isoWeightFace = 0.03698062787608 * 2
	isoWeightBody = 0.03519563978232 * 2
)

// DirectionWeights13 computes, for each of the 7 direction families, the
// weight of one sampling direction of that family: the area of its spherical
// Voronoi domain among the 26 unit directions of the voxel lattice, divided
// by 2*pi. Directions are unsigned, so the normalization is over a
// half-sphere; summing each family's weight times its orbit size (3 axes,
// 2 diagonals per face family, 4 body diagonals) yields 1.
func DirectionWeights13(calib voxel.Calibration) [7]float64 {
	if calib.IsIsotropic() {
		return [7]float64{
			isoWeightAxis, isoWeightAxis, isoWeightAxis,
			isoWeightFace, isoWeightFace, isoWeightFace,
			isoWeightBody,
		}
	}

	d1, d2, d3 := calib.DX, calib.DY, calib.DZ

	// Unit vectors of the 26-neighborhood in physical space. Only the
	// directions bounding the 7 representative Voronoi cells are needed.
	vx := unitVec(d1, 0, 0)
	vy := unitVec(0, d2, 0)
	vz := unitVec(0, 0, d3)
	vxy := unitVec(d1, d2, 0)
	vxym := unitVec(d1, -d2, 0)
	vxz := unitVec(d1, 0, d3)
	vxzm := unitVec(d1, 0, -d3)
	vyz := unitVec(0, d2, d3)
	vyzm := unitVec(0, d2, -d3)
	vxyz := unitVec(d1, d2, d3)
	vxmyz := unitVec(d1, -d2, d3)
	vxymz := unitVec(d1, d2, -d3)
	vxmymz := unitVec(d1, -d2, -d3)
	vmxyz := unitVec(-d1, d2, d3)
	vmxy := unitVec(-d1, d2, 0)
	vmxymz := unitVec(-d1, d2, -d3)
	vmxz := unitVec(-d1, 0, d3)
	vmxmyz := unitVec(-d1, -d2, d3)
	vxmz := unitVec(0, -d2, d3)

	var w [7]float64
	// Each axis cell is bounded by its 4 face-diagonal and 4 body-diagonal
	// neighbors, listed in cyclic order around the axis.
	w[DirX] = sphericalVoronoiDomainArea(vx,
		[]vec3{vxy, vxyz, vxz, vxmyz, vxym, vxmymz, vxzm, vxymz}) / (2 * math.Pi)
	w[DirY] = sphericalVoronoiDomainArea(vy,
		[]vec3{vxy, vxyz, vyz, vmxyz, vmxy, vmxymz, vyzm, vxymz}) / (2 * math.Pi)
	w[DirZ] = sphericalVoronoiDomainArea(vz,
		[]vec3{vxz, vxyz, vyz, vmxyz, vmxz, vmxmyz, vxmz, vxmyz}) / (2 * math.Pi)
	// Each face-diagonal cell is bounded by the two axes of its plane and the
	// two body diagonals sharing its signs.
	w[DirXY] = sphericalVoronoiDomainArea(vxy, []vec3{vx, vxyz, vy, vxymz}) / (2 * math.Pi)
	w[DirXZ] = sphericalVoronoiDomainArea(vxz, []vec3{vx, vxyz, vz, vxmyz}) / (2 * math.Pi)
	w[DirYZ] = sphericalVoronoiDomainArea(vyz, []vec3{vy, vxyz, vz, vmxyz}) / (2 * math.Pi)
	// The body-diagonal cell is an alternating hexagon of axes and face
	// diagonals.
	w[DirXYZ] = sphericalVoronoiDomainArea(vxyz, []vec3{vx, vxy, vy, vyz, vz, vxz}) / (2 * math.Pi)
	return w
}

type vec3 struct {
	X, Y, Z float64
}

func unitVec(x, y, z float64) vec3 {
	n := math.Sqrt(x*x + y*y + z*z)
	return vec3{x / n, y / n, z / n}
}

func (v vec3) sub(o vec3) vec3 {
	return vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v vec3) scale(s float64) vec3 {
	return vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v vec3) dot(o vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v vec3) cross(o vec3) vec3 {
	return vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v vec3) norm() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) normalized() vec3 {
	return v.scale(1 / v.norm())
}

// sphericalVoronoiDomainArea computes the area of the spherical Voronoi cell
// of a germ direction on the unit sphere, bounded by the given neighbor
// directions. Neighbors must be listed in cyclic order around the germ. The
// cell polygon is built by intersecting consecutive perpendicular-bisector
// planes, and its area follows from Girard's theorem: the sum of interior
// angles minus (n-2)*pi.
func sphericalVoronoiDomainArea(germ vec3, neighbors []vec3) float64 {
	n := len(neighbors)

	// Normal of the bisector plane between the germ and each neighbor,
	// oriented toward the germ.
	normals := make([]vec3, n)
	for i, nb := range neighbors {
		normals[i] = germ.sub(nb).normalized()
	}

	// Polygon vertices: intersections of consecutive bisector planes,
	// taken on the germ's side of the sphere.
	vertices := make([]vec3, n)
	for i := 0; i < n; i++ {
		v := normals[i].cross(normals[(i+1)%n]).normalized()
		if v.dot(germ) < 0 {
			v = v.scale(-1)
		}
		vertices[i] = v
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		prev := vertices[(i+n-1)%n]
		next := vertices[(i+1)%n]
		sum += sphericalAngle(prev, vertices[i], next)
	}
	return sum - float64(n-2)*math.Pi
}

// sphericalAngle returns the interior angle at v2 of the spherical polygon
// edge pair (v1,v2) and (v2,v3): the edge chords are projected onto the
// plane orthogonal to v2 and the planar angle between the projections is
// measured.
func sphericalAngle(v1, v2, v3 vec3) float64 {
	a := v1.sub(v2.scale(v1.dot(v2)))
	b := v3.sub(v2.scale(v3.dot(v2)))
	c := a.dot(b) / (a.norm() * b.norm())
	// clamp against roundoff
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return math.Acos(c)
}
