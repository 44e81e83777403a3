package voxel

import "fmt"

// Calibration holds the anisotropic voxel spacing in physical units.
// The origin offset of the volume is irrelevant to region measurements and
// is deliberately not represented here.
type Calibration struct {
	// DX, DY, DZ are the voxel edge lengths along each axis.
	DX, DY, DZ float64
}

// IsotropicCalibration returns a calibration with the same spacing along all
// three axes.
func IsotropicCalibration(spacing float64) Calibration {
	return Calibration{DX: spacing, DY: spacing, DZ: spacing}
}

// IsIsotropic reports whether the three spacings are identical.
func (c Calibration) IsIsotropic() bool {
	return c.DX == c.DY && c.DY == c.DZ
}

// VoxelVolume returns the physical volume of one voxel.
func (c Calibration) VoxelVolume() float64 {
	return c.DX * c.DY * c.DZ
}

// Validate checks that all spacings are strictly positive.
func (c Calibration) Validate() error {
	if c.DX <= 0 || c.DY <= 0 || c.DZ <= 0 {
		return fmt.Errorf("voxel spacing must be positive, got (%g, %g, %g)", c.DX, c.DY, c.DZ)
	}
	return nil
}
