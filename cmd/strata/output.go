package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chazu/strata/pkg/export"
	"github.com/chazu/strata/pkg/kernel"
	"github.com/chazu/strata/pkg/kernel/sdfx"
	"github.com/chazu/strata/pkg/slice"
	"github.com/chazu/strata/pkg/tessellate"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// writer emits prepared layers in one output format.
type writer func(w io.Writer, layers []slice.Layer, opts prepareOptions) error

var writers = map[string]writer{
	"summary": func(w io.Writer, layers []slice.Layer, _ prepareOptions) error {
		return summarize(w, layers)
	},
	"svg":     writeSVG,
	"dxf":     perLayer("dxf", export.DXF),
	"png":     writePNG,
	"geojson": writeGeoJSON,
	"stl":     writeSTL,
}

func formatNames() string {
	names := lo.Keys(writers)
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// layerFile names the file of one layer inside dir.
func layerFile(dir string, l slice.Layer, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("layer-%04d.%s", l.Index, ext))
}

// outDir checks that an output directory was given and creates it.
func outDir(opts prepareOptions) (string, error) {
	if opts.Out == "" {
		return "", errors.Errorf("format %s writes one file per layer and needs --out", opts.Format)
	}
	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		return "", errors.Wrap(err, "creating output directory")
	}
	return opts.Out, nil
}

// perLayer adapts a file exporter into a writer producing one file per
// layer. Only printed paths are drawn.
func perLayer(ext string, fn func(path string, paths []export.Path) error) writer {
	return func(w io.Writer, layers []slice.Layer, opts prepareOptions) error {
		dir, err := outDir(opts)
		if err != nil {
			return err
		}
		for _, l := range layers {
			name := layerFile(dir, l, ext)
			if err := fn(name, export.Printed(export.LayerPaths(l))); err != nil {
				return err
			}
			fmt.Fprintln(w, name)
		}
		return nil
	}
}

func writePNG(w io.Writer, layers []slice.Layer, opts prepareOptions) error {
	return perLayer("png", func(path string, paths []export.Path) error {
		return export.PNG(path, paths, opts.Pixels)
	})(w, layers, opts)
}

// writeSVG draws each layer including its perimeter outlines.
func writeSVG(w io.Writer, layers []slice.Layer, opts prepareOptions) error {
	dir, err := outDir(opts)
	if err != nil {
		return err
	}
	for _, l := range layers {
		name := layerFile(dir, l, "svg")
		if err := writeFile(name, func(f io.Writer) error {
			return export.SVG(f, export.LayerPaths(l), opts.Scale)
		}); err != nil {
			return err
		}
		fmt.Fprintln(w, name)
	}
	return nil
}

func writeGeoJSON(w io.Writer, layers []slice.Layer, opts prepareOptions) error {
	var paths []export.Path
	for _, l := range layers {
		paths = append(paths, export.LayerPaths(l)...)
	}
	data, err := export.GeoJSON(paths)
	if err != nil {
		return err
	}
	if opts.Out == "" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	return writeFile(opts.Out, func(f io.Writer) error {
		_, err := f.Write(data)
		return err
	})
}

func writeSTL(w io.Writer, layers []slice.Layer, opts prepareOptions) error {
	if opts.Out == "" {
		return errors.New("format stl needs --out")
	}
	meshes, err := tessellate.Tessellate(layers, sdfx.NewWithCells(opts.Cells), tessellate.Options{Walls: opts.Walls})
	if err != nil {
		return err
	}
	if err := writeFile(opts.Out, func(f io.Writer) error {
		return kernel.WriteSTL(f, meshes...)
	}); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %d layer mesh(es)\n", opts.Out, len(meshes))
	return nil
}

// writeFile creates name and streams fn's output into it through a buffer.
func writeFile(name string, fn func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", name)
	}
	return errors.Wrapf(f.Close(), "closing %s", name)
}
