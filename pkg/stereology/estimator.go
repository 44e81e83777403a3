package stereology

import (
	"fmt"
	"math"

	"voxelmetrics/pkg/voxel"
)

// Measures selects which intrinsic volumes an analysis computes. Measures
// that are not requested are reported as NaN and their lookup tables are
// never built.
type Measures struct {
	Volume      bool
	SurfaceArea bool
	MeanBreadth bool
	EulerNumber bool
}

// AllMeasures requests every supported measure.
func AllMeasures() Measures {
	return Measures{Volume: true, SurfaceArea: true, MeanBreadth: true, EulerNumber: true}
}

// Options configures an Estimator.
type Options struct {
	// Directions is the number of Crofton sampling directions for surface
	// area and mean breadth: 3 or 13.
	Directions int

	// Connectivity2D is the connectivity used within planar sections for
	// mean breadth: 4 or 8.
	Connectivity2D int

	// Connectivity is the 3D connectivity for the Euler number: 6 or 26.
	Connectivity int

	// Measures selects the computed measures.
	Measures Measures

	// NumWorkers bounds the concurrency of the voxel pass. Zero means one
	// worker per CPU.
	NumWorkers int

	// Progress receives status and progress notifications. May be nil.
	Progress Reporter
}

// DefaultOptions returns the most accurate parameterization: 13 directions,
// 8-connected sections, 26-connected regions, all measures.
func DefaultOptions() Options {
	return Options{
		Directions:     13,
		Connectivity2D: 8,
		Connectivity:   26,
		Measures:       AllMeasures(),
	}
}

// Validate rejects parameter values outside their legal sets.
func (o Options) Validate() error {
	if o.Directions != 3 && o.Directions != 13 {
		return fmt.Errorf("direction count must be 3 or 13, got %d", o.Directions)
	}
	if o.Connectivity2D != 4 && o.Connectivity2D != 8 {
		return fmt.Errorf("section connectivity must be 4 or 8, got %d", o.Connectivity2D)
	}
	if o.Connectivity != 6 && o.Connectivity != 26 {
		return fmt.Errorf("connectivity must be 6 or 26, got %d", o.Connectivity)
	}
	return nil
}

// Result holds the measured intrinsic volumes of one labeled region.
// Measures that were not requested are NaN.
type Result struct {
	Label       int32
	Volume      float64
	SurfaceArea float64
	MeanBreadth float64
	EulerNumber float64
}

// Sphericity returns the dimensionless ratio 36*pi*V^2/S^3 of the region,
// 1.0 for a perfect sphere in the continuum limit. Discretization bias can
// push values slightly above 1 for near-spherical regions.
func (r Result) Sphericity() float64 {
	return Sphericity(r.Volume, r.SurfaceArea)
}

// Sphericity computes 36*pi*V^2/S^3 from a volume and a surface area.
func Sphericity(volume, surfaceArea float64) float64 {
	return 36.0 * math.Pi * volume * volume / (surfaceArea * surfaceArea * surfaceArea)
}

// Estimator runs the full estimation pipeline: one configuration-histogram
// pass over the grid, followed by one dot product per label and requested
// measure. It keeps no state between invocations.
type Estimator struct {
	opts Options
}

// NewEstimator validates the options and returns an estimator. Invalid
// parameters are rejected before any computation begins.
func NewEstimator(opts Options) (*Estimator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{opts: opts}, nil
}

// Analyze measures every region of the given label list. Labels present in
// the grid but absent from the list are ignored; labels in the list with no
// matching voxel yield zero counts (and NaN for measures that divide by
// them, such as sphericity downstream). Results are returned in label-list
// order.
func (e *Estimator) Analyze(grid *voxel.Grid, labels []int32, calib voxel.Calibration) ([]Result, error) {
	if err := calib.Validate(); err != nil {
		return nil, err
	}
	luts, err := e.buildLUTs(calib)
	if err != nil {
		return nil, err
	}
	reporter := orNop(e.opts.Progress)

	reporter.Status("counting voxel configurations")
	builder := HistogramBuilder{NumWorkers: e.opts.NumWorkers, Progress: reporter}
	hists := builder.BuildHistograms(grid, labels)

	reporter.Status("applying contribution tables")
	results := make([]Result, len(labels))
	for i, label := range labels {
		results[i] = Result{
			Label:       label,
			Volume:      math.NaN(),
			SurfaceArea: math.NaN(),
			MeanBreadth: math.NaN(),
			EulerNumber: math.NaN(),
		}
	}
	done := 0
	for _, m := range []measure{measureVolume, measureSurfaceArea, measureMeanBreadth, measureEulerNumber} {
		lut, ok := luts[m]
		if !ok {
			continue
		}
		values := ApplyLUTAll(hists, lut)
		for i := range results {
			switch m {
			case measureVolume:
				results[i].Volume = values[i]
			case measureSurfaceArea:
				results[i].SurfaceArea = values[i]
			case measureMeanBreadth:
				results[i].MeanBreadth = values[i]
			case measureEulerNumber:
				results[i].EulerNumber = values[i]
			}
		}
		done++
		reporter.Progress(done, len(luts))
	}
	return results, nil
}

type measure int

const (
	measureVolume measure = iota
	measureSurfaceArea
	measureMeanBreadth
	measureEulerNumber
)

// buildLUTs constructs only the tables the requested measures need.
func (e *Estimator) buildLUTs(calib voxel.Calibration) (map[measure]*LUT, error) {
	luts := make(map[measure]*LUT)
	m := e.opts.Measures
	if m.Volume {
		lut := VolumeLUT(calib)
		luts[measureVolume] = &lut
	}
	if m.SurfaceArea {
		lut, err := SurfaceAreaLUT(calib, e.opts.Directions)
		if err != nil {
			return nil, err
		}
		luts[measureSurfaceArea] = &lut
	}
	if m.MeanBreadth {
		lut, err := MeanBreadthLUT(calib, e.opts.Directions, e.opts.Connectivity2D)
		if err != nil {
			return nil, err
		}
		luts[measureMeanBreadth] = &lut
	}
	if m.EulerNumber {
		lut, err := EulerNumberLUT(e.opts.Connectivity)
		if err != nil {
			return nil, err
		}
		luts[measureEulerNumber] = &lut
	}
	return luts, nil
}
