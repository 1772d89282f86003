// Command strata evaluates a model script and prepares its layers for
// printing: perimeter shells, infill and a brim. The result is summarized or
// written out as SVG, DXF, PNG, GeoJSON or an STL preview.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
