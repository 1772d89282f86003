package export

import (
	"github.com/chazu/strata/pkg/planar"
	"github.com/chazu/strata/pkg/topo"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSON encodes paths as a FeatureCollection. Perimeters become Polygons;
// every other path becomes a MultiLineString with one line per edge. Each
// feature carries its kind, layer index, z and island as properties.
func GeoJSON(paths []Path) ([]byte, error) {
	fc := geojson.FeatureCollection{}
	for _, p := range paths {
		if p.Graph == nil || p.Graph.Len() == 0 {
			continue
		}
		g, err := pathGeometry(p)
		if err != nil {
			return nil, errors.Wrapf(err, "export: geojson %s of layer %d", p.Kind, p.Layer)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry: g,
			Properties: map[string]interface{}{
				"kind":   string(p.Kind),
				"layer":  p.Layer,
				"z":      p.Z,
				"island": p.Island,
			},
		})
	}
	return fc.MarshalJSON()
}

func pathGeometry(p Path) (geom.T, error) {
	if p.Kind == KindPerimeter {
		ring := lineCoords(planar.Outline(p.Graph))
		ring = append(ring, ring[0])
		return geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	}
	var lines [][]geom.Coord
	p.Graph.Each(func(_ int, s, e topo.Vertex) {
		lines = append(lines, []geom.Coord{{s.X, s.Y}, {e.X, e.Y}})
	})
	return geom.NewMultiLineString(geom.XY).SetCoords(lines)
}

func lineCoords(pts []v2.Vec) []geom.Coord {
	return lo.Map(pts, func(p v2.Vec, _ int) geom.Coord { return geom.Coord{p.X, p.Y} })
}
