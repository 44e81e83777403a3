package stereology

import (
	"testing"

	"voxelmetrics/pkg/voxel"
)

// gridFromBytes builds a labeled grid from a flat byte slice laid out
// x-fastest, as the test fixtures are written
func gridFromBytes(t *testing.T, data []uint8, nx, ny, nz int) *voxel.Grid {
	t.Helper()
	g, err := voxel.NewGrid(nx, ny, nz)
	if err != nil {
		t.Fatalf("Failed to create %dx%dx%d grid: %v", nx, ny, nz, err)
	}
	if len(data) != nx*ny*nz {
		t.Fatalf("Fixture has %d voxels, grid needs %d", len(data), nx*ny*nz)
	}
	for i, v := range data {
		g.Data[i] = int32(v)
	}
	return g
}

// fillBox sets the half-open box [x0,x1) x [y0,y1) x [z0,z1) to the given
// label in a flat fixture slice
func fillBoxLabel(data []uint8, nx, ny int, x0, x1, y0, y1, z0, z1 int, label uint8) {
	for z := z0; z < z1; z++ {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				data[x+nx*(y+ny*z)] = label
			}
		}
	}
}

func fillBox(data []uint8, nx, ny int, x0, x1, y0, y1, z0, z1 int) {
	fillBoxLabel(data, nx, ny, x0, x1, y0, y1, z0, z1, 1)
}

func clearBox(data []uint8, nx, ny int, x0, x1, y0, y1, z0, z1 int) {
	fillBoxLabel(data, nx, ny, x0, x1, y0, y1, z0, z1, 0)
}

// ballGrid builds a grid holding a digital ball of the given radius centered
// in a grid with a one voxel margin on every side
func ballGrid(t *testing.T, r float64) *voxel.Grid {
	t.Helper()
	ri := int(r)
	n := 2*ri + 5
	c := float64(n-1) / 2
	g, err := voxel.NewGrid(n, n, n)
	if err != nil {
		t.Fatalf("Failed to create ball grid: %v", err)
	}
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				dx := float64(x) - c
				dy := float64(y) - c
				dz := float64(z) - c
				if dx*dx+dy*dy+dz*dz <= r*r {
					g.Set(x, y, z, 1)
				}
			}
		}
	}
	return g
}
