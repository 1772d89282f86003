package export

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
)

// DXF writes every edge of paths as a LINE entity to the file at path.
func DXF(path string, paths []Path) error {
	d := render.NewDXF(path)
	eachSegment(paths, func(_ Path, a, b v2.Vec) {
		d.Line(&sdf.Line2{a, b})
	})
	return errors.Wrapf(d.Save(), "export: dxf %s", path)
}
