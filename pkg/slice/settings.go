package slice

import (
	"math"

	"github.com/chazu/strata/pkg/infill"
	"github.com/pkg/errors"
)

// Default print settings, in mm and degrees.
const (
	DefaultNozzleSize     = 0.4
	DefaultLayerHeight    = 0.1
	DefaultShellThickness = 1.2
	DefaultFillDensity    = 0.5
	DefaultFillAngle      = 45
	DefaultFillStrategy   = "pen"
)

// ErrInvalidSettings is wrapped by every error Settings.Validate returns.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings controls how layers are turned into print paths.
type Settings struct {
	NozzleSize     float64 `json:"nozzle_size" mapstructure:"nozzle_size"`         // extrusion width mm
	LayerHeight    float64 `json:"layer_height" mapstructure:"layer_height"`       // height of the first layer mm
	ShellThickness float64 `json:"shell_thickness" mapstructure:"shell_thickness"` // total perimeter width mm
	FillDensity    float64 `json:"fill_density" mapstructure:"fill_density"`       // 0 < d <= 1
	FillAngle      float64 `json:"fill_angle" mapstructure:"fill_angle"`           // degrees from the X axis
	FillStrategy   string  `json:"fill_strategy" mapstructure:"fill_strategy"`     // "raster" or "pen"
	BrimLines      int     `json:"brim_lines" mapstructure:"brim_lines"`           // rings around the first layer
	BrimSpacing    float64 `json:"brim_spacing" mapstructure:"brim_spacing"`       // mm, 0 means NozzleSize
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		NozzleSize:     DefaultNozzleSize,
		LayerHeight:    DefaultLayerHeight,
		ShellThickness: DefaultShellThickness,
		FillDensity:    DefaultFillDensity,
		FillAngle:      DefaultFillAngle,
		FillStrategy:   DefaultFillStrategy,
	}
}

// Validate checks every field and reports the first problem found.
func (s Settings) Validate() error {
	switch {
	case !(s.NozzleSize > 0):
		return errors.Wrapf(ErrInvalidSettings, "nozzle size %g must be positive", s.NozzleSize)
	case !(s.LayerHeight > 0):
		return errors.Wrapf(ErrInvalidSettings, "layer height %g must be positive", s.LayerHeight)
	case s.ShellThickness < 0 || math.IsNaN(s.ShellThickness):
		return errors.Wrapf(ErrInvalidSettings, "shell thickness %g is negative", s.ShellThickness)
	case !(s.FillDensity >= 0 && s.FillDensity <= 1):
		return errors.Wrapf(ErrInvalidSettings, "fill density %g outside [0, 1]", s.FillDensity)
	case s.BrimLines < 0:
		return errors.Wrapf(ErrInvalidSettings, "brim lines %d is negative", s.BrimLines)
	case s.BrimSpacing < 0 || math.IsNaN(s.BrimSpacing):
		return errors.Wrapf(ErrInvalidSettings, "brim spacing %g is negative", s.BrimSpacing)
	}
	if _, err := infill.StrategyByName(s.FillStrategy); err != nil {
		return errors.Wrap(ErrInvalidSettings, err.Error())
	}
	return nil
}

// InnerShells is the number of perimeters printed inside the outer shell.
func (s Settings) InnerShells() int {
	// 1.2 / 0.4 is 2.9999999999999996 in floating point.
	return int(math.Floor(s.ShellThickness/s.NozzleSize + 1e-9))
}

// FillSpacing is the distance between infill lines for the configured
// density. Zero density means no infill and returns 0.
func (s Settings) FillSpacing() (float64, error) {
	if s.FillDensity == 0 {
		return 0, nil
	}
	return infill.DensityToSpacing(s.NozzleSize, s.FillDensity)
}

func (s Settings) brimSpacing() float64 {
	if s.BrimSpacing > 0 {
		return s.BrimSpacing
	}
	return s.NozzleSize
}
