package stereology

import (
	"fmt"
	"math"

	"voxelmetrics/pkg/voxel"
)

// LUT maps each of the 256 tile configurations to a scalar contribution.
// A LUT is a pure function of the calibration and method parameters,
// independent of any particular image; combined with a configuration
// histogram through ApplyLUT it yields a measure estimate.
type LUT [NumConfigs]float64

// ApplyLUT derives a scalar measure from a configuration histogram: the dot
// product of the 256 counts with the 256 contributions.
func ApplyLUT(h *Histogram, lut *LUT) float64 {
	sum := 0.0
	for i, count := range h {
		if count != 0 {
			sum += float64(count) * lut[i]
		}
	}
	return sum
}

// ApplyLUTAll applies a LUT to each label's histogram, yielding one measure
// value per label.
func ApplyLUTAll(hists []Histogram, lut *LUT) []float64 {
	values := make([]float64, len(hists))
	for i := range hists {
		values[i] = ApplyLUT(&hists[i], lut)
	}
	return values
}

// cornerBit returns the configuration bit of tile corner (dx, dy, dz).
func cornerBit(dx, dy, dz int) int {
	return dx + 2*dy + 4*dz
}

// tileCorners expands a configuration index into its 8 corner states.
func tileCorners(index int) [8]bool {
	var c [8]bool
	for i := range c {
		c[i] = index&(1<<i) != 0
	}
	return c
}

// VolumeLUT builds the lookup table for volume: each configuration
// contributes one eighth of the voxel volume per set corner, reflecting that
// every voxel is shared by eight tiles.
func VolumeLUT(calib voxel.Calibration) LUT {
	var lut LUT
	vol := calib.VoxelVolume()
	for index := range lut {
		lut[index] = float64(popCount8(index)) / 8.0 * vol
	}
	return lut
}

func popCount8(index int) int {
	n := 0
	for i := 0; i < 8; i++ {
		if index&(1<<i) != 0 {
			n++
		}
	}
	return n
}

// SurfaceAreaLUT builds the Crofton-formula lookup table for surface area,
// sampling either the 3 axis directions or all 13 lattice directions.
//
// For each set corner, each absent neighbor within the tile marks an
// intercept of the region boundary along the corresponding direction. The
// per-intercept contribution vol/d divided by 8, 4 or 2 compensates for the
// number of tiles in which the same voxel pair appears (4 for axis pairs, 2
// for face-diagonal pairs, 1 for body-diagonal pairs) and for the half
// intercept each crossing represents. The directional estimates are combined
// through the Crofton normalization constant 4 and the spherical Voronoi
// direction weights.
func SurfaceAreaLUT(calib voxel.Calibration, nDirs int) (LUT, error) {
	var lut LUT
	if nDirs != 3 && nDirs != 13 {
		return lut, fmt.Errorf("direction count must be 3 or 13, got %d", nDirs)
	}

	d1, d2, d3 := calib.DX, calib.DY, calib.DZ
	vol := calib.VoxelVolume()
	d12 := math.Hypot(d1, d2)
	d13 := math.Hypot(d1, d3)
	d23 := math.Hypot(d2, d3)
	d123 := math.Sqrt(d1*d1 + d2*d2 + d3*d3)

	var weights [7]float64
	if nDirs == 13 {
		weights = DirectionWeights13(calib)
	}

	for index := range lut {
		im := tileCorners(index)

		var ke [7]float64
		for dz := 0; dz < 2; dz++ {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !im[cornerBit(dx, dy, dz)] {
						continue
					}
					// axis neighbors
					if !im[cornerBit(1-dx, dy, dz)] {
						ke[DirX] += vol / d1 / 8.0
					}
					if !im[cornerBit(dx, 1-dy, dz)] {
						ke[DirY] += vol / d2 / 8.0
					}
					if !im[cornerBit(dx, dy, 1-dz)] {
						ke[DirZ] += vol / d3 / 8.0
					}
					if nDirs == 3 {
						continue
					}
					// face-diagonal neighbors
					if !im[cornerBit(1-dx, 1-dy, dz)] {
						ke[DirXY] += vol / d12 / 4.0
					}
					if !im[cornerBit(1-dx, dy, 1-dz)] {
						ke[DirXZ] += vol / d13 / 4.0
					}
					if !im[cornerBit(dx, 1-dy, 1-dz)] {
						ke[DirYZ] += vol / d23 / 4.0
					}
					// body-diagonal neighbor
					if !im[cornerBit(1-dx, 1-dy, 1-dz)] {
						ke[DirXYZ] += vol / d123 / 2.0
					}
				}
			}
		}

		if nDirs == 3 {
			lut[index] = (ke[DirX] + ke[DirY] + ke[DirZ]) * 4.0 / 3.0
		} else {
			sum := 0.0
			for k, w := range weights {
				sum += ke[k] * w
			}
			lut[index] = 4.0 * sum
		}
	}
	return lut, nil
}

// bodyDiagonalTriangles lists, as corner bit triples, the eight triangular
// half-faces cut by the planar sections orthogonal to the four body
// diagonals: two triangles per diagonal, one from each of the two lattice
// planes crossing the tile interior.
var bodyDiagonalTriangles = [8][3]int{
	{1, 2, 4}, {6, 5, 3}, // orthogonal to ( 1, 1, 1)
	{1, 2, 7}, {0, 5, 6}, // orthogonal to ( 1, 1,-1)
	{1, 4, 7}, {0, 6, 3}, // orthogonal to ( 1,-1, 1)
	{2, 4, 7}, {0, 3, 5}, // orthogonal to (-1, 1, 1)
}

// MeanBreadthLUT builds the Crofton-type lookup table for mean breadth over
// 3 or 13 directions. The mean breadth of a region equals the average over
// directions of the integral of the Euler characteristic of its planar
// sections, so each configuration contributes, per direction, the discrete
// 2D Euler contribution of the tile's cross-section: a square face for axis
// directions, a diagonal rectangle for face-diagonal directions, and
// triangular half-faces for body diagonals. conn2d selects the 4- or
// 8-connectivity rule used within the planar sections.
func MeanBreadthLUT(calib voxel.Calibration, nDirs, conn2d int) (LUT, error) {
	var lut LUT
	if nDirs != 3 && nDirs != 13 {
		return lut, fmt.Errorf("direction count must be 3 or 13, got %d", nDirs)
	}
	if conn2d != 4 && conn2d != 8 {
		return lut, fmt.Errorf("section connectivity must be 4 or 8, got %d", conn2d)
	}

	d1, d2, d3 := calib.DX, calib.DY, calib.DZ
	vol := calib.VoxelVolume()
	d12 := math.Hypot(d1, d2)
	d13 := math.Hypot(d1, d3)
	d23 := math.Hypot(d2, d3)

	// cross-section area spanned by one tile along each direction; the plane
	// spacing along a direction is vol divided by this area
	a1 := d2 * d3
	a2 := d1 * d3
	a3 := d1 * d2
	a4 := d12 * d3
	a5 := d13 * d2
	a6 := d23 * d1
	// the two triangular half-faces together span a7 (Heron's formula)
	s := (d12 + d13 + d23) / 2.0
	a7 := 2.0 * math.Sqrt(s*(s-d12)*(s-d13)*(s-d23))

	var weights [7]float64
	if nDirs == 13 {
		weights = DirectionWeights13(calib)
	}

	// interior angles of each triangular half-face at its three vertices
	var triAngles [8][3]float64
	for t, tri := range bodyDiagonalTriangles {
		triAngles[t] = triangleAngles(tri, calib)
	}

	rect := eulerContribTile2dC4
	if conn2d == 8 {
		rect = eulerContribTile2dC8
	}

	for index := range lut {
		im := tileCorners(index)
		f := func(dx, dy, dz int) bool { return im[cornerBit(dx, dy, dz)] }

		// Axis sections: each square face is shared by the two tiles
		// adjacent along the direction, hence the halving.
		sx := (rect(f(0, 0, 0), f(0, 1, 0), f(0, 0, 1), f(0, 1, 1)) +
			rect(f(1, 0, 0), f(1, 1, 0), f(1, 0, 1), f(1, 1, 1))) / 2.0
		sy := (rect(f(0, 0, 0), f(1, 0, 0), f(0, 0, 1), f(1, 0, 1)) +
			rect(f(0, 1, 0), f(1, 1, 0), f(0, 1, 1), f(1, 1, 1))) / 2.0
		sz := (rect(f(0, 0, 0), f(1, 0, 0), f(0, 1, 0), f(1, 1, 0)) +
			rect(f(0, 0, 1), f(1, 0, 1), f(0, 1, 1), f(1, 1, 1))) / 2.0

		if nDirs == 3 {
			lut[index] = (vol/a1*sx + vol/a2*sy + vol/a3*sz) / 3.0
			continue
		}

		// Diagonal sections: each diagonal rectangle belongs to exactly one
		// tile; the two rectangles cover the two directions of the family.
		sxy := rect(f(0, 0, 0), f(1, 1, 0), f(0, 0, 1), f(1, 1, 1)) +
			rect(f(1, 0, 0), f(0, 1, 0), f(1, 0, 1), f(0, 1, 1))
		sxz := rect(f(0, 0, 0), f(1, 0, 1), f(0, 1, 0), f(1, 1, 1)) +
			rect(f(1, 0, 0), f(0, 0, 1), f(1, 1, 0), f(0, 1, 1))
		syz := rect(f(0, 0, 0), f(0, 1, 1), f(1, 0, 0), f(1, 1, 1)) +
			rect(f(0, 1, 0), f(0, 0, 1), f(1, 1, 0), f(1, 0, 1))

		sbody := 0.0
		for t, tri := range bodyDiagonalTriangles {
			ang := triAngles[t]
			sbody += eulerContribTriangleTile(
				im[tri[0]], im[tri[1]], im[tri[2]],
				ang[0], ang[1], ang[2])
		}

		lut[index] = weights[DirX]*vol/a1*sx +
			weights[DirY]*vol/a2*sy +
			weights[DirZ]*vol/a3*sz +
			weights[DirXY]*vol/a4*sxy +
			weights[DirXZ]*vol/a5*sxz +
			weights[DirYZ]*vol/a6*syz +
			weights[DirXYZ]*vol/a7*sbody
	}
	return lut, nil
}

// eulerContribTile2dC4 returns the contribution of a 2x2 planar tile to the
// Euler characteristic of its section under 4-connectivity. Corners are
// given as (p00, p10, p01, p11) along the two in-plane lattice directions;
// the tile is always right-angled, so every set corner contributes a quarter
// turn regardless of anisotropy.
func eulerContribTile2dC4(p00, p10, p01, p11 bool) float64 {
	switch countCorners(p00, p10, p01, p11) {
	case 1:
		return 0.25
	case 2:
		if (p00 && p11) || (p10 && p01) {
			// two diagonal corners: separate components under C4
			return 0.5
		}
		return 0
	case 3:
		return -0.25
	}
	return 0
}

// eulerContribTile2dC8 is the 8-connectivity variant: a diagonal corner pair
// is joined by a diagonal edge, flipping the sign of its contribution.
func eulerContribTile2dC8(p00, p10, p01, p11 bool) float64 {
	switch countCorners(p00, p10, p01, p11) {
	case 1:
		return 0.25
	case 2:
		if (p00 && p11) || (p10 && p01) {
			return -0.5
		}
		return 0
	case 3:
		return -0.25
	}
	return 0
}

func countCorners(corners ...bool) int {
	n := 0
	for _, c := range corners {
		if c {
			n++
		}
	}
	return n
}

// eulerContribTriangleTile returns the contribution of one triangular
// section tile to the Euler characteristic of a body-diagonal section. On
// the triangular lattice every vertex is shared by six facets whose interior
// angles sum to a full turn, so a set vertex contributes its facet angle
// over 2*pi; a set edge, shared by two facets, subtracts one half; a full
// facet adds one, which cancels exactly with its angles and edges.
func eulerContribTriangleTile(b1, b2, b3 bool, a1, a2, a3 float64) float64 {
	switch countCorners(b1, b2, b3) {
	case 1:
		switch {
		case b1:
			return a1 / (2 * math.Pi)
		case b2:
			return a2 / (2 * math.Pi)
		default:
			return a3 / (2 * math.Pi)
		}
	case 2:
		sum := 0.0
		if b1 {
			sum += a1
		}
		if b2 {
			sum += a2
		}
		if b3 {
			sum += a3
		}
		return sum/(2*math.Pi) - 0.5
	}
	return 0
}

// triangleAngles computes the interior angles of a triangular half-face from
// the physical coordinates of its corner voxels, via the law of cosines.
func triangleAngles(tri [3]int, calib voxel.Calibration) [3]float64 {
	p := func(bit int) vec3 {
		return vec3{
			X: float64(bit&1) * calib.DX,
			Y: float64((bit>>1)&1) * calib.DY,
			Z: float64((bit>>2)&1) * calib.DZ,
		}
	}
	p1, p2, p3 := p(tri[0]), p(tri[1]), p(tri[2])
	a := p2.sub(p3).norm() // side opposite vertex 1
	b := p1.sub(p3).norm() // side opposite vertex 2
	c := p1.sub(p2).norm() // side opposite vertex 3

	cosA := (b*b + c*c - a*a) / (2 * b * c)
	cosB := (a*a + c*c - b*b) / (2 * a * c)
	a1 := math.Acos(clamp(cosA, -1, 1))
	a2 := math.Acos(clamp(cosB, -1, 1))
	return [3]float64{a1, a2, math.Pi - a1 - a2}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
