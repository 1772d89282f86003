package export

import (
	"math"

	"github.com/deadsy/sdfx/render"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v2i"
	"github.com/pkg/errors"
)

// pngMargin is the blank border around the drawing, in model units.
const pngMargin = 1.0

// PNG rasterizes paths into a PNG file width pixels across. The height
// follows the aspect ratio of the paths' bounds.
func PNG(path string, paths []Path, width int) error {
	if width <= 0 {
		return errors.Errorf("export: png width must be positive, got %d", width)
	}
	bb, err := Bounds(paths, pngMargin)
	if err != nil {
		return err
	}
	size := bb.Size()
	height := int(math.Max(1, math.Round(float64(width)*size.Y/size.X)))

	d, err := render.NewPNG(path, bb, v2i.Vec{X: width, Y: height})
	if err != nil {
		return errors.Wrapf(err, "export: png %s", path)
	}
	eachSegment(paths, func(_ Path, a, b v2.Vec) {
		d.Line(a, b)
	})
	return errors.Wrapf(d.Save(), "export: png %s", path)
}
