package regions

import (
	"math"

	"voxelmetrics/pkg/voxel"
)

// InscribedBall is the largest ball fully contained in a region: the voxel
// of maximal distance to the background, with that distance as radius.
type InscribedBall struct {
	Center Centroid
	Radius float64
}

// chamferStep is one propagation neighbor of the distance transform with its
// physical step cost.
type chamferStep struct {
	dx, dy, dz int
	cost       float64
}

// chamferMask builds the 13 forward half-mask steps of the 3x3x3
// neighborhood with calibrated costs, so anisotropic grids propagate true
// physical distances along axis, face-diagonal and body-diagonal moves.
func chamferMask(calib voxel.Calibration) []chamferStep {
	d1, d2, d3 := calib.DX, calib.DY, calib.DZ
	d12 := math.Hypot(d1, d2)
	d13 := math.Hypot(d1, d3)
	d23 := math.Hypot(d2, d3)
	d123 := math.Sqrt(d1*d1 + d2*d2 + d3*d3)

	return []chamferStep{
		{-1, 0, 0, d1}, {0, -1, 0, d2}, {0, 0, -1, d3},
		{-1, -1, 0, d12}, {1, -1, 0, d12},
		{-1, 0, -1, d13}, {1, 0, -1, d13},
		{0, -1, -1, d23}, {0, 1, -1, d23},
		{-1, -1, -1, d123}, {1, -1, -1, d123},
		{-1, 1, -1, d123}, {1, 1, -1, d123},
	}
}

// LargestInscribedBalls computes the inscribed ball of each label via a
// two-pass chamfer distance transform to the nearest voxel outside the
// region. The grid border counts as background. Labels with no voxel yield a
// zero-radius ball at a NaN center.
func LargestInscribedBalls(g *voxel.Grid, labels []int32, calib voxel.Calibration) []InscribedBall {
	dist := distanceTransform(g, calib)
	indexer := voxel.NewLabelIndexer(labels)

	best := make([]InscribedBall, len(labels))
	found := make([]bool, len(labels))

	forEachVoxel(g, indexer, func(i, x, y, z int) {
		d := dist[x+g.SizeX*(y+g.SizeY*z)]
		if !found[i] || d > best[i].Radius {
			found[i] = true
			best[i] = InscribedBall{
				Center: Centroid{
					X: (float64(x) + 0.5) * calib.DX,
					Y: (float64(y) + 0.5) * calib.DY,
					Z: (float64(z) + 0.5) * calib.DZ,
				},
				Radius: d,
			}
		}
	})

	for i := range best {
		if !found[i] {
			best[i] = InscribedBall{Center: Centroid{math.NaN(), math.NaN(), math.NaN()}}
		}
	}
	return best
}

// distanceTransform computes, for every voxel, the chamfer distance to the
// nearest background voxel center. Distances propagate only within same
// label runs, so touching regions bound each other exactly like background.
func distanceTransform(g *voxel.Grid, calib voxel.Calibration) []float64 {
	forward := chamferMask(calib)
	dist := make([]float64, g.NumVoxels())

	at := func(x, y, z int) int { return x + g.SizeX*(y+g.SizeY*z) }

	for i, label := range g.Data {
		if label == 0 {
			dist[i] = 0
		} else {
			dist[i] = math.Inf(1)
		}
	}

	// forward pass: scan in storage order, relax against the half mask
	for z := 0; z < g.SizeZ; z++ {
		for y := 0; y < g.SizeY; y++ {
			for x := 0; x < g.SizeX; x++ {
				i := at(x, y, z)
				label := g.Data[i]
				if label == 0 {
					continue
				}
				d := dist[i]
				for _, s := range forward {
					nx, ny, nz := x+s.dx, y+s.dy, z+s.dz
					if nd := neighborDist(g, dist, label, nx, ny, nz, s.cost, at); nd < d {
						d = nd
					}
				}
				dist[i] = d
			}
		}
	}

	// backward pass: reverse order, mirrored mask
	for z := g.SizeZ - 1; z >= 0; z-- {
		for y := g.SizeY - 1; y >= 0; y-- {
			for x := g.SizeX - 1; x >= 0; x-- {
				i := at(x, y, z)
				label := g.Data[i]
				if label == 0 {
					continue
				}
				d := dist[i]
				for _, s := range forward {
					nx, ny, nz := x-s.dx, y-s.dy, z-s.dz
					if nd := neighborDist(g, dist, label, nx, ny, nz, s.cost, at); nd < d {
						d = nd
					}
				}
				dist[i] = d
			}
		}
	}
	return dist
}

// neighborDist returns the relaxed distance through a neighbor. Voxels
// outside the grid or with a different label are background at distance
// zero, so the step cost alone applies.
func neighborDist(g *voxel.Grid, dist []float64, label int32, x, y, z int, cost float64, at func(int, int, int) int) float64 {
	if x < 0 || x >= g.SizeX || y < 0 || y >= g.SizeY || z < 0 || z >= g.SizeZ {
		return cost
	}
	i := at(x, y, z)
	if g.Data[i] != label {
		return cost
	}
	return dist[i] + cost
}
