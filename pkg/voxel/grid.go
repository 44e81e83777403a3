// Package voxel provides the dense labeled 3D grid that all measurement
// code operates on, together with the spatial calibration of its voxels.
package voxel

import (
	"fmt"
	"sort"
)

// Grid is a dense 3D array of integer labels addressed by (x, y, z).
// The value 0 denotes background; any positive value is a region label.
// Data is stored in x-fastest order: index = (z*SizeY + y)*SizeX + x.
type Grid struct {
	// Data holds the labels in x-fastest order.
	Data []int32

	// SizeX, SizeY, SizeZ are the grid dimensions in voxels.
	SizeX, SizeY, SizeZ int
}

// NewGrid allocates a zero-filled grid with the given dimensions.
func NewGrid(sizeX, sizeY, sizeZ int) (*Grid, error) {
	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%dx%d", sizeX, sizeY, sizeZ)
	}
	return &Grid{
		Data:  make([]int32, sizeX*sizeY*sizeZ),
		SizeX: sizeX,
		SizeY: sizeY,
		SizeZ: sizeZ,
	}, nil
}

// Get returns the label at (x, y, z). Coordinates outside the grid read as
// background, so callers sliding windows past the borders need no special
// casing.
func (g *Grid) Get(x, y, z int) int32 {
	if x < 0 || y < 0 || z < 0 || x >= g.SizeX || y >= g.SizeY || z >= g.SizeZ {
		return 0
	}
	return g.Data[(z*g.SizeY+y)*g.SizeX+x]
}

// Set stores a label at (x, y, z). Coordinates must be inside the grid.
func (g *Grid) Set(x, y, z int, label int32) {
	g.Data[(z*g.SizeY+y)*g.SizeX+x] = label
}

// NumVoxels returns the total number of voxels in the grid.
func (g *Grid) NumVoxels() int {
	return g.SizeX * g.SizeY * g.SizeZ
}

// FindLabels enumerates the distinct nonzero labels present in the grid,
// in ascending order.
func FindLabels(g *Grid) []int32 {
	seen := make(map[int32]struct{})
	for _, v := range g.Data {
		if v != 0 {
			seen[v] = struct{}{}
		}
	}
	labels := make([]int32, 0, len(seen))
	for v := range seen {
		labels = append(labels, v)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// LabelIndexer maps sparse label values to dense indices in [0, len(labels)).
// It is built once per analysis call so that per-label accumulators can live
// in plain slices instead of maps.
type LabelIndexer struct {
	index map[int32]int
}

// NewLabelIndexer builds the association for the given label list.
func NewLabelIndexer(labels []int32) *LabelIndexer {
	index := make(map[int32]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return &LabelIndexer{index: index}
}

// Index returns the dense index of a label, or ok=false if the label is not
// part of the analyzed set.
func (li *LabelIndexer) Index(label int32) (int, bool) {
	i, ok := li.index[label]
	return i, ok
}

// Len returns the number of indexed labels.
func (li *LabelIndexer) Len() int {
	return len(li.index)
}
