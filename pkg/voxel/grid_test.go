package voxel

import (
	"testing"
)

// TestNewGrid verifies grid creation and dimension validation
func TestNewGrid(t *testing.T) {
	g, err := NewGrid(4, 5, 6)
	if err != nil {
		t.Fatalf("Failed to create grid: %v", err)
	}
	if g.SizeX != 4 || g.SizeY != 5 || g.SizeZ != 6 {
		t.Errorf("Expected dimensions 4x5x6, got %dx%dx%d", g.SizeX, g.SizeY, g.SizeZ)
	}
	if g.NumVoxels() != 120 {
		t.Errorf("Expected 120 voxels, got %d", g.NumVoxels())
	}
	if len(g.Data) != 120 {
		t.Errorf("Expected backing slice of 120, got %d", len(g.Data))
	}

	for _, dims := range [][3]int{{0, 5, 6}, {4, -1, 6}, {4, 5, 0}} {
		if _, err := NewGrid(dims[0], dims[1], dims[2]); err == nil {
			t.Errorf("Expected error for dimensions %v", dims)
		}
	}
}

// TestGridGetSet verifies voxel access and the zero padding outside the grid
func TestGridGetSet(t *testing.T) {
	g, err := NewGrid(3, 3, 3)
	if err != nil {
		t.Fatal(err)
	}

	g.Set(1, 2, 0, 42)
	if got := g.Get(1, 2, 0); got != 42 {
		t.Errorf("Expected label 42, got %d", got)
	}
	if got := g.Get(0, 0, 0); got != 0 {
		t.Errorf("Expected empty voxel, got %d", got)
	}

	// Out-of-bounds reads are background, so windows can slide past the
	// border without special casing
	outside := [][3]int{
		{-1, 0, 0}, {3, 0, 0}, {0, -1, 0}, {0, 3, 0}, {0, 0, -1}, {0, 0, 3},
	}
	for _, p := range outside {
		if got := g.Get(p[0], p[1], p[2]); got != 0 {
			t.Errorf("Expected background at %v, got %d", p, got)
		}
	}
}

// TestFindLabels verifies that labels are collected once each, sorted, with
// the background excluded
func TestFindLabels(t *testing.T) {
	g, err := NewGrid(3, 3, 3)
	if err != nil {
		t.Fatal(err)
	}
	g.Set(0, 0, 0, 7)
	g.Set(1, 0, 0, 3)
	g.Set(2, 0, 0, 7)
	g.Set(0, 1, 0, 12)
	g.Set(2, 2, 2, 3)

	labels := FindLabels(g)
	expected := []int32{3, 7, 12}
	if len(labels) != len(expected) {
		t.Fatalf("Expected %d labels, got %d: %v", len(expected), len(labels), labels)
	}
	for i := range expected {
		if labels[i] != expected[i] {
			t.Errorf("Position %d: expected label %d, got %d", i, expected[i], labels[i])
		}
	}

	empty, err := NewGrid(2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if labels := FindLabels(empty); len(labels) != 0 {
		t.Errorf("Expected no labels in an empty grid, got %v", labels)
	}
}

// TestLabelIndexer verifies the label-to-slot mapping
func TestLabelIndexer(t *testing.T) {
	li := NewLabelIndexer([]int32{5, 2, 9})

	if li.Len() != 3 {
		t.Errorf("Expected 3 entries, got %d", li.Len())
	}
	for i, label := range []int32{5, 2, 9} {
		idx, ok := li.Index(label)
		if !ok {
			t.Errorf("Label %d not found", label)
		}
		if idx != i {
			t.Errorf("Label %d: expected slot %d, got %d", label, i, idx)
		}
	}
	if _, ok := li.Index(7); ok {
		t.Error("Unknown label 7 should not resolve")
	}
}

// TestCalibration verifies spacing validation and derived quantities
func TestCalibration(t *testing.T) {
	c := Calibration{DX: 0.5, DY: 0.7, DZ: 1.1}
	if err := c.Validate(); err != nil {
		t.Errorf("Valid calibration rejected: %v", err)
	}
	if c.IsIsotropic() {
		t.Error("Anisotropic calibration reported isotropic")
	}
	if v := c.VoxelVolume(); v != 0.5*0.7*1.1 {
		t.Errorf("Expected voxel volume 0.385, got %v", v)
	}

	iso := IsotropicCalibration(2.0)
	if !iso.IsIsotropic() {
		t.Error("Isotropic calibration reported anisotropic")
	}
	if iso.DX != 2.0 || iso.DY != 2.0 || iso.DZ != 2.0 {
		t.Errorf("Expected uniform spacing 2.0, got %+v", iso)
	}

	for _, bad := range []Calibration{
		{DX: 0, DY: 1, DZ: 1},
		{DX: 1, DY: -0.5, DZ: 1},
		{DX: 1, DY: 1, DZ: 0},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("Expected error for calibration %+v", bad)
		}
	}
}
