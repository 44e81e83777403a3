package stereology

import (
	"testing"
)

// TestEulerTableComplementarity verifies the duality between the two
// connectivities: the 26-connected contribution of a configuration equals
// the 6-connected contribution of its complement
func TestEulerTableComplementarity(t *testing.T) {
	lut6, err := EulerNumberLUT(6)
	if err != nil {
		t.Fatal(err)
	}
	lut26, err := EulerNumberLUT(26)
	if err != nil {
		t.Fatal(err)
	}

	for c := 0; c < NumConfigs; c++ {
		if lut26[c] != lut6[255-c] {
			t.Errorf("Config %d: lut26 = %v, lut6 of complement = %v", c, lut26[c], lut6[255-c])
		}
	}
}

// TestEulerTableEntries pins representative table entries against cell
// counting on the cubical complex
func TestEulerTableEntries(t *testing.T) {
	lut6, err := EulerNumberLUT(6)
	if err != nil {
		t.Fatal(err)
	}
	lut26, err := EulerNumberLUT(26)
	if err != nil {
		t.Fatal(err)
	}

	// Entries scaled by 8 to compare against integer cell counts
	cases := []struct {
		config int
		want6  int
		want26 int
	}{
		{1, 1, 1},     // single corner
		{3, 0, 0},     // axis edge
		{9, 2, -2},    // face-diagonal pair: two parts or a tunnel
		{65, 2, -2},   // another face-diagonal pair
		{105, 4, 4},   // four mutually diagonal corners
		{150, 4, 4},   // complementary tetrahedral corners
		{254, 1, 1},   // all but one corner
		{255, 0, 0},   // full window
	}

	for _, c := range cases {
		got6 := int(lut6[c.config] * 8)
		got26 := int(lut26[c.config] * 8)
		if got6 != c.want6 {
			t.Errorf("Config %d, conn 6: expected %d/8, got %d/8", c.config, c.want6, got6)
		}
		if got26 != c.want26 {
			t.Errorf("Config %d, conn 26: expected %d/8, got %d/8", c.config, c.want26, got26)
		}
	}
}

// TestEulerTableCellCounting regenerates the full 6-connectivity table from
// first principles and compares all 256 entries: each configuration
// contributes its vertices minus twice its axis edges plus four times its
// square faces minus eight times the full cube, weighting every cell by the
// reciprocal of the number of windows sharing it
func TestEulerTableCellCounting(t *testing.T) {
	lut6, err := EulerNumberLUT(6)
	if err != nil {
		t.Fatal(err)
	}

	var edges [][2]int
	for i := 0; i < 8; i++ {
		x, y, z := i&1, (i>>1)&1, (i>>2)&1
		if x == 0 {
			edges = append(edges, [2]int{i, cornerBit(1, y, z)})
		}
		if y == 0 {
			edges = append(edges, [2]int{i, cornerBit(x, 1, z)})
		}
		if z == 0 {
			edges = append(edges, [2]int{i, cornerBit(x, y, 1)})
		}
	}
	var faces [][4]int
	for axis := 0; axis < 3; axis++ {
		for v := 0; v < 2; v++ {
			var f [4]int
			n := 0
			for i := 0; i < 8; i++ {
				if (i>>axis)&1 == v {
					f[n] = i
					n++
				}
			}
			faces = append(faces, f)
		}
	}

	for c := 0; c < NumConfigs; c++ {
		b := tileCorners(c)
		nv := 0
		for _, set := range b {
			if set {
				nv++
			}
		}
		ne := 0
		for _, e := range edges {
			if b[e[0]] && b[e[1]] {
				ne++
			}
		}
		nf := 0
		for _, f := range faces {
			if b[f[0]] && b[f[1]] && b[f[2]] && b[f[3]] {
				nf++
			}
		}
		nc := 0
		if c == 255 {
			nc = 1
		}

		want := float64(nv-2*ne+4*nf-8*nc) / 8.0
		if lut6[c] != want {
			t.Errorf("Config %d: expected contribution %v, got %v", c, want, lut6[c])
		}
	}
}

// chiOf computes the Euler number of a binary grid with the given
// connectivity by a direct histogram pass, as a helper for topology fixtures
func chiOf(t *testing.T, grid []uint8, nx, ny, nz, conn int) float64 {
	t.Helper()
	g := gridFromBytes(t, grid, nx, ny, nz)
	builder := HistogramBuilder{}
	h := builder.BuildHistogram(g)
	lut, err := EulerNumberLUT(conn)
	if err != nil {
		t.Fatal(err)
	}
	return ApplyLUT(&h, &lut)
}

// TestEulerNumberTopologyFixtures verifies the Euler number on shapes whose
// topology is known: a solid cube (one component, chi = 1), a closed frame
// (one tunnel, chi = 0), a cube with an interior cavity (chi = 2), and two
// disjoint cubes (chi = 2)
func TestEulerNumberTopologyFixtures(t *testing.T) {
	// Solid 5x5x5 cube in a 7x7x7 grid
	cube := make([]uint8, 7*7*7)
	fillBox(cube, 7, 7, 1, 6, 1, 6, 1, 6)

	// Closed square frame: a 5x5x2 slab with a 3x3 hole through it
	frame := make([]uint8, 7*7*4)
	fillBox(frame, 7, 7, 1, 6, 1, 6, 1, 3)
	clearBox(frame, 7, 7, 2, 5, 2, 5, 1, 3)

	// Cube with a single interior voxel removed
	cavity := make([]uint8, 7*7*7)
	fillBox(cavity, 7, 7, 1, 6, 1, 6, 1, 6)
	clearBox(cavity, 7, 7, 3, 4, 3, 4, 3, 4)

	// Two cubes with no shared voxel, edge or corner
	disjoint := make([]uint8, 9*9*9)
	fillBox(disjoint, 9, 9, 1, 3, 1, 3, 1, 3)
	fillBox(disjoint, 9, 9, 5, 8, 5, 8, 5, 8)

	cases := []struct {
		name       string
		data       []uint8
		nx, ny, nz int
		want       float64
	}{
		{"cube", cube, 7, 7, 7, 1},
		{"frame", frame, 7, 7, 4, 0},
		{"cavity", cavity, 7, 7, 7, 2},
		{"disjoint", disjoint, 9, 9, 9, 2},
	}

	for _, tc := range cases {
		for _, conn := range []int{6, 26} {
			got := chiOf(t, tc.data, tc.nx, tc.ny, tc.nz, conn)
			if got != tc.want {
				t.Errorf("%s, conn %d: expected Euler number %v, got %v", tc.name, conn, tc.want, got)
			}
		}
	}
}

// TestEulerNumberCornerTouch verifies the one configuration where the two
// connectivities disagree: two cubes sharing only a corner are two
// 6-connected components but a single 26-connected one
func TestEulerNumberCornerTouch(t *testing.T) {
	data := make([]uint8, 6*6*6)
	fillBox(data, 6, 6, 1, 3, 1, 3, 1, 3)
	fillBox(data, 6, 6, 3, 5, 3, 5, 3, 5)

	if got := chiOf(t, data, 6, 6, 6, 6); got != 2 {
		t.Errorf("Corner-touching cubes, conn 6: expected Euler number 2, got %v", got)
	}
	if got := chiOf(t, data, 6, 6, 6, 26); got != 1 {
		t.Errorf("Corner-touching cubes, conn 26: expected Euler number 1, got %v", got)
	}
}
