package stereology

import (
	"runtime"
	"sync"

	"voxelmetrics/pkg/voxel"
)

// NumConfigs is the number of possible 2x2x2 binary voxel configurations.
const NumConfigs = 256

// Histogram counts the occurrences of each 2x2x2 binary configuration.
// Entry i corresponds to the configuration whose corner (dx, dy, dz) is set
// iff bit dx + 2*dy + 4*dz of i is set.
type Histogram [NumConfigs]int64

// Add accumulates another histogram into this one. Addition is elementwise,
// so shard histograms can be merged in any order.
func (h *Histogram) Add(other *Histogram) {
	for i := range h {
		h[i] += other[i]
	}
}

// HistogramBuilder performs the single voxel pass that produces configuration
// histograms. The pass slides a 2x2x2 window over all tile positions,
// including tiles extending one voxel beyond every border (out-of-bounds
// corners read as background), so that regions touching the grid boundary
// are measured as if surrounded by background.
//
// The pass is sharded by z-slice across NumWorkers goroutines; each shard
// accumulates into private histograms that are merged once at the end.
type HistogramBuilder struct {
	// NumWorkers is the number of concurrent shard workers. Zero or negative
	// means runtime.NumCPU().
	NumWorkers int

	// Progress receives periodic notifications during the pass. May be nil.
	Progress Reporter
}

func (b *HistogramBuilder) workers() int {
	if b.NumWorkers > 0 {
		return b.NumWorkers
	}
	return runtime.NumCPU()
}

// BuildHistogram computes the configuration histogram of the whole image,
// treating every nonzero voxel as foreground.
func (b *HistogramBuilder) BuildHistogram(grid *voxel.Grid) Histogram {
	hists := b.runPass(grid, nil, false)
	return hists[0]
}

// BuildInnerHistogram computes the configuration histogram restricted to
// tiles fully inside the grid, excluding the outermost row, column and plane
// on every side. It is the building block for border-free density estimates.
func (b *HistogramBuilder) BuildInnerHistogram(grid *voxel.Grid) Histogram {
	var h Histogram
	for z := 0; z < grid.SizeZ-1; z++ {
		for y := 0; y < grid.SizeY-1; y++ {
			accumulateBinaryRow(grid, y, z, 0, grid.SizeX-1, &h)
		}
	}
	return h
}

// BuildHistograms computes one configuration histogram per label. At each
// tile position, every distinct nonzero label present among the 8 corners
// receives exactly one increment, at the configuration index obtained by
// testing "corner == label" at each corner; a tile straddling a region
// boundary therefore feeds several histograms at once. Labels present in the
// grid but absent from the labels list are silently skipped.
func (b *HistogramBuilder) BuildHistograms(grid *voxel.Grid, labels []int32) []Histogram {
	return b.runPass(grid, labels, true)
}

// runPass shards the tile sweep by z tile origin over a fixed worker pool.
// Each worker owns a private accumulator; the merge happens at a single join
// point after all workers complete, so no locking is needed.
func (b *HistogramBuilder) runPass(grid *voxel.Grid, labels []int32, labeled bool) []Histogram {
	nHists := 1
	var indexer *voxel.LabelIndexer
	if labeled {
		indexer = voxel.NewLabelIndexer(labels)
		nHists = len(labels)
	}

	nWorkers := b.workers()
	totalZ := grid.SizeZ + 1 // tile origins -1 .. SizeZ-1

	tasks := make(chan int)
	ticks := make(chan struct{}, nWorkers)
	acc := make([][]Histogram, nWorkers)

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			local := make([]Histogram, nHists)
			for z := range tasks {
				if labeled {
					processLabelSlab(grid, z, indexer, local)
				} else {
					for y := -1; y < grid.SizeY; y++ {
						accumulateBinaryRow(grid, y, z, -1, grid.SizeX, &local[0])
					}
				}
				ticks <- struct{}{}
			}
			acc[w] = local
		}(w)
	}

	go func() {
		for z := -1; z < grid.SizeZ; z++ {
			tasks <- z
		}
		close(tasks)
		wg.Wait()
		close(ticks)
	}()

	reporter := orNop(b.Progress)
	done := 0
	for range ticks {
		done++
		reporter.Progress(done, totalZ)
	}

	result := make([]Histogram, nHists)
	for _, local := range acc {
		for i := range local {
			result[i].Add(&local[i])
		}
	}
	return result
}

// accumulateBinaryRow sweeps tile origins (x0..x1-1, y, z) and increments the
// binary (foreground = nonzero) configuration counts. The window is updated
// incrementally: the four corners shared with the previous x position are
// reused instead of re-read.
func accumulateBinaryRow(grid *voxel.Grid, y, z, x0, x1 int, h *Histogram) {
	// right column of the window at tile origin x0-1, i.e. samples at x0
	r0 := grid.Get(x0, y, z) != 0
	r1 := grid.Get(x0, y+1, z) != 0
	r2 := grid.Get(x0, y, z+1) != 0
	r3 := grid.Get(x0, y+1, z+1) != 0

	for x := x0; x < x1; x++ {
		l0, l1, l2, l3 := r0, r1, r2, r3
		r0 = grid.Get(x+1, y, z) != 0
		r1 = grid.Get(x+1, y+1, z) != 0
		r2 = grid.Get(x+1, y, z+1) != 0
		r3 = grid.Get(x+1, y+1, z+1) != 0

		index := 0
		if l0 {
			index |= 1
		}
		if r0 {
			index |= 2
		}
		if l1 {
			index |= 4
		}
		if r1 {
			index |= 8
		}
		if l2 {
			index |= 16
		}
		if r2 {
			index |= 32
		}
		if l3 {
			index |= 64
		}
		if r3 {
			index |= 128
		}
		h[index]++
	}
}

// processLabelSlab sweeps all tile origins of one z slab and feeds the
// per-label histograms.
func processLabelSlab(grid *voxel.Grid, z int, indexer *voxel.LabelIndexer, hists []Histogram) {
	// corner labels of the current window; index = dx + 2*dy + 4*dz
	var c [8]int32
	// distinct nonzero labels of the current tile, at most 8
	var tileLabels [8]int32

	for y := -1; y < grid.SizeY; y++ {
		// right column at tile origin -1, i.e. samples at x = 0
		c[1] = grid.Get(0, y, z)
		c[3] = grid.Get(0, y+1, z)
		c[5] = grid.Get(0, y, z+1)
		c[7] = grid.Get(0, y+1, z+1)

		for x := -1; x < grid.SizeX; x++ {
			c[0], c[2], c[4], c[6] = c[1], c[3], c[5], c[7]
			c[1] = grid.Get(x+1, y, z)
			c[3] = grid.Get(x+1, y+1, z)
			c[5] = grid.Get(x+1, y, z+1)
			c[7] = grid.Get(x+1, y+1, z+1)

			n := 0
			for _, label := range c {
				if label == 0 {
					continue
				}
				known := false
				for i := 0; i < n; i++ {
					if tileLabels[i] == label {
						known = true
						break
					}
				}
				if !known {
					tileLabels[n] = label
					n++
				}
			}

			for i := 0; i < n; i++ {
				label := tileLabels[i]
				li, ok := indexer.Index(label)
				if !ok {
					continue
				}
				index := 0
				for bitPos, corner := range c {
					if corner == label {
						index |= 1 << bitPos
					}
				}
				hists[li][index]++
			}
		}
	}
}
