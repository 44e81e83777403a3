// Package regions computes per-label geometric descriptors of labeled voxel
// grids: centroids, bounding boxes, equivalent ellipsoids and largest
// inscribed balls. These complement the intrinsic volume estimates with
// position and shape information.
package regions

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"voxelmetrics/pkg/voxel"
)

// Centroid is the physical-space center of mass of a region, assuming unit
// density per voxel.
type Centroid struct {
	X, Y, Z float64
}

// BoundingBox is the axis-aligned voxel-index range of a region, inclusive
// on both ends.
type BoundingBox struct {
	MinX, MaxX int
	MinY, MaxY int
	MinZ, MaxZ int
}

// Size returns the box extent in voxels along each axis.
func (b BoundingBox) Size() (int, int, int) {
	return b.MaxX - b.MinX + 1, b.MaxY - b.MinY + 1, b.MaxZ - b.MinZ + 1
}

// PhysicalSize returns the box extent in physical units.
func (b BoundingBox) PhysicalSize(calib voxel.Calibration) (float64, float64, float64) {
	nx, ny, nz := b.Size()
	return float64(nx) * calib.DX, float64(ny) * calib.DY, float64(nz) * calib.DZ
}

// Centroids computes the physical-space centroid of each label in one pass.
// Voxel centers sit at (x+0.5)*DX and so on. Labels with no voxel yield a
// NaN centroid.
func Centroids(g *voxel.Grid, labels []int32, calib voxel.Calibration) []Centroid {
	indexer := voxel.NewLabelIndexer(labels)
	counts := make([]int64, len(labels))
	sums := make([][3]float64, len(labels))

	forEachVoxel(g, indexer, func(i, x, y, z int) {
		counts[i]++
		sums[i][0] += float64(x)
		sums[i][1] += float64(y)
		sums[i][2] += float64(z)
	})

	out := make([]Centroid, len(labels))
	for i := range labels {
		if counts[i] == 0 {
			out[i] = Centroid{math.NaN(), math.NaN(), math.NaN()}
			continue
		}
		n := float64(counts[i])
		out[i] = Centroid{
			X: (sums[i][0]/n + 0.5) * calib.DX,
			Y: (sums[i][1]/n + 0.5) * calib.DY,
			Z: (sums[i][2]/n + 0.5) * calib.DZ,
		}
	}
	return out
}

// BoundingBoxes computes the voxel-index bounding box of each label in one
// pass. Labels with no voxel yield an inverted box (Min > Max).
func BoundingBoxes(g *voxel.Grid, labels []int32) []BoundingBox {
	indexer := voxel.NewLabelIndexer(labels)
	out := make([]BoundingBox, len(labels))
	for i := range out {
		out[i] = BoundingBox{
			MinX: g.SizeX, MaxX: -1,
			MinY: g.SizeY, MaxY: -1,
			MinZ: g.SizeZ, MaxZ: -1,
		}
	}

	forEachVoxel(g, indexer, func(i, x, y, z int) {
		b := &out[i]
		if x < b.MinX {
			b.MinX = x
		}
		if x > b.MaxX {
			b.MaxX = x
		}
		if y < b.MinY {
			b.MinY = y
		}
		if y > b.MaxY {
			b.MaxY = y
		}
		if z < b.MinZ {
			b.MinZ = z
		}
		if z > b.MaxZ {
			b.MaxZ = z
		}
	})
	return out
}

// Ellipsoid is the equivalent ellipsoid of a region: the ellipsoid with the
// same center of mass and the same second-order moments.
type Ellipsoid struct {
	Center Centroid
	// Radii are the semi-axis lengths in physical units, descending.
	Radii [3]float64
	// Axes holds the corresponding unit axis directions as rows.
	Axes [3][3]float64
}

// EquivalentEllipsoids computes the moment-matched ellipsoid of each label.
// The second-order central moments are accumulated in physical coordinates,
// augmented by the moment of the voxel itself, so an axis-aligned cuboid of
// side s recovers exactly the moments of the continuous cuboid. Semi-axis
// lengths follow from the uniform-ellipsoid relation radius = sqrt(5*moment).
// Labels with fewer than one voxel are reported with NaN radii.
func EquivalentEllipsoids(g *voxel.Grid, labels []int32, calib voxel.Calibration) ([]Ellipsoid, error) {
	indexer := voxel.NewLabelIndexer(labels)
	counts := make([]int64, len(labels))
	sums := make([][3]float64, len(labels))
	// accumulated products xx, yy, zz, xy, xz, yz in voxel coordinates
	prods := make([][6]float64, len(labels))

	forEachVoxel(g, indexer, func(i, x, y, z int) {
		fx, fy, fz := float64(x), float64(y), float64(z)
		counts[i]++
		sums[i][0] += fx
		sums[i][1] += fy
		sums[i][2] += fz
		prods[i][0] += fx * fx
		prods[i][1] += fy * fy
		prods[i][2] += fz * fz
		prods[i][3] += fx * fy
		prods[i][4] += fx * fz
		prods[i][5] += fy * fz
	})

	out := make([]Ellipsoid, len(labels))
	for i, label := range labels {
		if counts[i] == 0 {
			out[i] = Ellipsoid{
				Center: Centroid{math.NaN(), math.NaN(), math.NaN()},
				Radii:  [3]float64{math.NaN(), math.NaN(), math.NaN()},
			}
			continue
		}
		n := float64(counts[i])
		cx := sums[i][0] / n
		cy := sums[i][1] / n
		cz := sums[i][2] / n

		// Central moments in physical units. The d*d/12 term is the
		// second moment of a single voxel about its own center.
		dx2 := calib.DX * calib.DX
		dy2 := calib.DY * calib.DY
		dz2 := calib.DZ * calib.DZ
		mxx := (prods[i][0]/n-cx*cx)*dx2 + dx2/12
		myy := (prods[i][1]/n-cy*cy)*dy2 + dy2/12
		mzz := (prods[i][2]/n-cz*cz)*dz2 + dz2/12
		mxy := (prods[i][3]/n - cx*cy) * calib.DX * calib.DY
		mxz := (prods[i][4]/n - cx*cz) * calib.DX * calib.DZ
		myz := (prods[i][5]/n - cy*cz) * calib.DY * calib.DZ

		moments := mat.NewSymDense(3, []float64{
			mxx, mxy, mxz,
			mxy, myy, myz,
			mxz, myz, mzz,
		})
		var eig mat.EigenSym
		if !eig.Factorize(moments, true) {
			return nil, fmt.Errorf("moment eigendecomposition failed for label %d", label)
		}
		values := eig.Values(nil)
		var vectors mat.Dense
		eig.VectorsTo(&vectors)

		// order descending by moment
		order := []int{0, 1, 2}
		sort.Slice(order, func(a, b int) bool { return values[order[a]] > values[order[b]] })

		ell := Ellipsoid{
			Center: Centroid{
				X: (cx + 0.5) * calib.DX,
				Y: (cy + 0.5) * calib.DY,
				Z: (cz + 0.5) * calib.DZ,
			},
		}
		for k, j := range order {
			m := values[j]
			if m < 0 {
				m = 0
			}
			ell.Radii[k] = math.Sqrt(5 * m)
			for d := 0; d < 3; d++ {
				ell.Axes[k][d] = vectors.At(d, j)
			}
		}
		out[i] = ell
	}
	return out, nil
}

// Elongation returns the ratio of the largest to the smallest semi-axis.
func (e Ellipsoid) Elongation() float64 {
	return e.Radii[0] / e.Radii[2]
}

// forEachVoxel walks the grid in storage order and invokes fn with the label
// slot and coordinates of every voxel whose label is in the indexer.
func forEachVoxel(g *voxel.Grid, indexer *voxel.LabelIndexer, fn func(i, x, y, z int)) {
	pos := 0
	for z := 0; z < g.SizeZ; z++ {
		for y := 0; y < g.SizeY; y++ {
			for x := 0; x < g.SizeX; x++ {
				label := g.Data[pos]
				pos++
				if label == 0 {
					continue
				}
				if i, ok := indexer.Index(label); ok {
					fn(i, x, y, z)
				}
			}
		}
	}
}
