// Package report renders estimation results as text tables and computes
// population statistics over the measured regions.
package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"voxelmetrics/pkg/stereology"
)

// WriteTable renders one row per region with the requested measures and the
// derived sphericity. NaN entries (unrequested measures) render as "-".
func WriteTable(w io.Writer, results []stereology.Result) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, "label\tvolume\tsurface\tbreadth\teuler\tsphericity\t"); err != nil {
		return err
	}
	for _, r := range results {
		sph := math.NaN()
		if !math.IsNaN(r.Volume) && !math.IsNaN(r.SurfaceArea) && r.SurfaceArea > 0 {
			sph = r.Sphericity()
		}
		_, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Label,
			cell(r.Volume), cell(r.SurfaceArea), cell(r.MeanBreadth),
			cell(r.EulerNumber), cell(sph))
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

// MeasureSummary aggregates one measure over the region population.
type MeasureSummary struct {
	Name   string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes population statistics for every measure that at least
// one region carries. Regions with NaN for a measure are excluded from that
// measure's summary.
func Summarize(results []stereology.Result) []MeasureSummary {
	measures := []struct {
		name string
		get  func(stereology.Result) float64
	}{
		{"volume", func(r stereology.Result) float64 { return r.Volume }},
		{"surface", func(r stereology.Result) float64 { return r.SurfaceArea }},
		{"breadth", func(r stereology.Result) float64 { return r.MeanBreadth }},
		{"euler", func(r stereology.Result) float64 { return r.EulerNumber }},
	}

	var out []MeasureSummary
	for _, m := range measures {
		var values []float64
		for _, r := range results {
			if v := m.get(r); !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		s := MeasureSummary{
			Name:  m.name,
			Count: len(values),
			Mean:  stat.Mean(values, nil),
			Min:   floats.Min(values),
			Max:   floats.Max(values),
		}
		if len(values) > 1 {
			s.StdDev = stat.StdDev(values, nil)
		}
		out = append(out, s)
	}
	return out
}

// WriteSummary renders the population statistics as a table.
func WriteSummary(w io.Writer, summaries []MeasureSummary) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, "measure\tn\tmean\tstddev\tmin\tmax\t"); err != nil {
		return err
	}
	for _, s := range summaries {
		_, err := fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t\n",
			s.Name, s.Count, s.Mean, s.StdDev, s.Min, s.Max)
		if err != nil {
			return err
		}
	}
	return tw.Flush()
}
