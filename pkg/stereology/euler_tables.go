package stereology

import "fmt"

// EulerNumberLUT builds the lookup table for the 3D Euler number under 6- or
// 26-connectivity. The per-configuration contributions are fixed
// digital-topology constants (Ohser & Schladitz): each entry counts the
// cells of the configuration's adjacency complex with alternating signs,
// normalized by the 8-fold sharing of every tile vertex. They are kept as
// compiled-in literal tables rather than regenerated at runtime.
func EulerNumberLUT(conn int) (LUT, error) {
	var lut LUT
	var tab *[NumConfigs]int8
	switch conn {
	case 6:
		tab = &eulerTableC6
	case 26:
		tab = &eulerTableC26
	default:
		return lut, fmt.Errorf("connectivity must be 6 or 26, got %d", conn)
	}
	for i, v := range tab {
		lut[i] = float64(v) / 8.0
	}
	return lut, nil
}

// eulerTableC6 holds 8 times the per-configuration Euler contribution under
// 6-connectivity: vertices minus twice the axis edges plus four times the
// square faces minus eight times the full cube, reflecting how many tiles
// share each cell of the cubical complex.
var eulerTableC6 = [NumConfigs]int8{
	0, 1, 1, 0, 1, 0, 2, -1, 1, 2, 0, -1, 0, -1, -1, 0,
	1, 0, 2, -1, 2, -1, 3, -2, 2, 1, 1, -2, 1, -2, 0, -1,
	1, 2, 0, -1, 2, 1, 1, -2, 2, 3, -1, -2, 1, 0, -2, -1,
	0, -1, -1, 0, 1, -2, 0, -1, 1, 0, -2, -1, 0, -3, -3, 0,
	1, 2, 2, 1, 0, -1, 1, -2, 2, 3, 1, 0, -1, -2, -2, -1,
	0, -1, 1, -2, -1, 0, 0, -1, 1, 0, 0, -3, -2, -1, -3, 0,
	2, 3, 1, 0, 1, 0, 0, -3, 3, 4, 0, -1, 0, -1, -3, -2,
	-1, -2, -2, -1, -2, -1, -3, 0, 0, -1, -3, -2, -3, -2, -6, 1,
	1, 2, 2, 1, 2, 1, 3, 0, 0, 1, -1, -2, -1, -2, -2, -1,
	2, 1, 3, 0, 3, 0, 4, -1, 1, 0, 0, -3, 0, -3, -1, -2,
	0, 1, -1, -2, 1, 0, 0, -3, -1, 0, 0, -1, -2, -3, -1, 0,
	-1, -2, -2, -1, 0, -3, -1, -2, -2, -3, -1, 0, -3, -6, -2, 1,
	0, 1, 1, 0, -1, -2, 0, -3, -1, 0, -2, -3, 0, -1, -1, 0,
	-1, -2, 0, -3, -2, -1, -1, -2, -2, -3, -3, -6, -1, 0, -2, 1,
	-1, 0, -2, -3, -2, -3, -3, -6, -2, -1, -1, -2, -1, -2, 0, 1,
	0, -1, -1, 0, -1, 0, -2, 1, -1, -2, 0, 1, 0, 1, 1, 0,
}

// eulerTableC26 is the 26-connectivity variant. By the complementarity of
// the two adjacency systems, the contribution of a configuration under
// 26-connectivity equals the contribution of its complement under
// 6-connectivity; the table below is pinned in that form.
var eulerTableC26 = [NumConfigs]int8{
	0, 1, 1, 0, 1, 0, -2, -1, 1, -2, 0, -1, 0, -1, -1, 0,
	1, 0, -2, -1, -2, -1, -1, -2, -6, -3, -3, -2, -3, -2, 0, -1,
	1, -2, 0, -1, -6, -3, -3, -2, -2, -1, -1, -2, -3, 0, -2, -1,
	0, -1, -1, 0, -3, -2, 0, -1, -3, 0, -2, -1, 0, 1, 1, 0,
	1, -2, -6, -3, 0, -1, -3, -2, -2, -1, -3, 0, -1, -2, -2, -1,
	0, -1, -3, -2, -1, 0, 0, -1, -3, 0, 0, 1, -2, -1, 1, 0,
	-2, -1, -3, 0, -3, 0, 0, 1, -1, 4, 0, 3, 0, 3, 1, 2,
	-1, -2, -2, -1, -2, -1, 1, 0, 0, 3, 1, 2, 1, 2, 2, 1,
	1, -6, -2, -3, -2, -3, -1, 0, 0, -3, -1, -2, -1, -2, -2, -1,
	-2, -3, -1, 0, -1, 0, 4, 3, -3, 0, 0, 1, 0, 1, 3, 2,
	0, -3, -1, -2, -3, 0, 0, 1, -1, 0, 0, -1, -2, 1, -1, 0,
	-1, -2, -2, -1, 0, 1, 3, 2, -2, 1, -1, 0, 1, 2, 2, 1,
	0, -3, -3, 0, -1, -2, 0, 1, -1, 0, -2, 1, 0, -1, -1, 0,
	-1, -2, 0, 1, -2, -1, 3, 2, -2, 1, 1, 2, -1, 0, 2, 1,
	-1, 0, -2, 1, -2, 1, 1, 2, -2, 3, -1, 2, -1, 2, 0, 1,
	0, -1, -1, 0, -1, 0, 2, 1, -1, 2, 0, 1, 0, 1, 1, 0,
}
