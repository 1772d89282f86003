package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// strokes colors each kind of path.
var strokes = map[Kind]string{
	KindBrim:      "#999999",
	KindPerimeter: "#000000",
	KindShell:     "#1f77b4",
	KindInfill:    "#d62728",
}

// svgMargin is the blank border around the drawing, in model units.
const svgMargin = 1.0

// SVG draws paths to w at scale pixels per model unit. Y grows upwards in
// the model and downwards in SVG, so the drawing is flipped. Each path is a
// group classed by its kind.
func SVG(w io.Writer, paths []Path, scale float64) error {
	if scale <= 0 || math.IsNaN(scale) {
		return errors.Errorf("export: svg scale must be positive, got %g", scale)
	}
	bb, err := Bounds(paths, svgMargin)
	if err != nil {
		return err
	}
	size := bb.Size()
	px := func(v float64) int { return int(math.Round(v * scale)) }

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(px(size.X), px(size.Y))
	for _, p := range paths {
		if p.Graph == nil || p.Graph.Len() == 0 {
			continue
		}
		canvas.Gid(fmt.Sprintf("layer%d-%s-%d", p.Layer, p.Kind, p.Island))
		canvas.Gstyle(fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", strokes[p.Kind]))
		eachSegment([]Path{p}, func(_ Path, a, b v2.Vec) {
			canvas.Line(
				px(a.X-bb.Min.X), px(bb.Max.Y-a.Y),
				px(b.X-bb.Min.X), px(bb.Max.Y-b.Y),
			)
		})
		canvas.Gend()
		canvas.Gend()
	}
	canvas.End()
	return errors.Wrap(ew.err, "export: svg")
}

// errWriter remembers the first write error; svgo discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
