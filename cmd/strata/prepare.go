package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/strata/pkg/engine"
	"github.com/chazu/strata/pkg/slice"
	"github.com/chazu/strata/pkg/topo"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// envPrefix namespaces the environment variables read by prepare, e.g.
// STRATA_NOZZLE_SIZE.
const envPrefix = "STRATA"

// prepareOptions are the flags of prepare that are not print settings.
type prepareOptions struct {
	Format string
	Out    string
	Layer  int
	Walls  bool
	Cells  int
	Scale  float64
	Pixels int
}

func newPrepareCmd() *cobra.Command {
	conf := viper.New()
	cmd := &cobra.Command{
		Use:   "prepare <script>",
		Short: "Evaluate a model script and generate the print paths of every layer",
		Long: `
Prepare evaluates the script ("-" reads stdin), rebuilds the closed loops of
each layer and generates shells, infill and a brim. Layers whose edges do not
close are skipped with a warning.

Print settings come from flags, STRATA_* environment variables and the
--config file, in that order of precedence.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg, _ := cmd.Flags().GetString("config"); cfg != "" {
				conf.SetConfigFile(cfg)
				if err := conf.ReadInConfig(); err != nil {
					return errors.Wrap(err, "reading config")
				}
			}
			s, opts, err := loadOptions(conf)
			if err != nil {
				return err
			}
			src, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return runPrepare(cmd.Context(), cmd.OutOrStdout(), src, s, opts)
		},
	}

	d := slice.DefaultSettings()
	f := cmd.Flags()
	f.Float64("nozzle_size", d.NozzleSize, "Extrusion width in mm.")
	f.Float64("layer_height", d.LayerHeight, "Height of the first layer in mm.")
	f.Float64("shell_thickness", d.ShellThickness, "Total perimeter width in mm.")
	f.Float64("fill_density", d.FillDensity, "Infill density in [0, 1]; 0 disables infill.")
	f.Float64("fill_angle", d.FillAngle, "Infill angle in degrees from the X axis.")
	f.String("fill_strategy", d.FillStrategy, "Infill ordering, one of [raster, pen].")
	f.Int("brim_lines", d.BrimLines, "Number of brim rings around the first layer.")
	f.Float64("brim_spacing", d.BrimSpacing, "Distance between brim rings in mm; 0 uses the nozzle size.")

	f.String("format", "summary", "Output format, one of [summary, svg, dxf, png, geojson, stl].")
	f.StringP("out", "o", "", "Output directory for svg, dxf and png; output file for geojson and stl. "+
		"Empty writes geojson to stdout.")
	f.Int("layer", -1, "Only output the layer with this index; -1 outputs all layers.")
	f.Bool("walls", false, "STL preview: hollow each island down to its shells.")
	f.Int("cells", 200, "STL preview: marching cubes cells along the longest side of a layer.")
	f.Float64("scale", 10, "SVG: pixels per mm.")
	f.Int("pixels", 800, "PNG: image width in pixels.")

	if err := conf.BindPFlags(f); err != nil {
		panic(err)
	}
	conf.SetEnvPrefix(envPrefix)
	conf.AutomaticEnv()
	return cmd
}

// loadOptions reads print settings and output options from conf.
func loadOptions(conf *viper.Viper) (slice.Settings, prepareOptions, error) {
	var s slice.Settings
	if err := conf.Unmarshal(&s); err != nil {
		return s, prepareOptions{}, errors.Wrap(err, "decoding settings")
	}
	if err := s.Validate(); err != nil {
		return s, prepareOptions{}, err
	}
	opts := prepareOptions{
		Format: strings.ToLower(strings.TrimSpace(conf.GetString("format"))),
		Out:    conf.GetString("out"),
		Layer:  conf.GetInt("layer"),
		Walls:  conf.GetBool("walls"),
		Cells:  conf.GetInt("cells"),
		Scale:  conf.GetFloat64("scale"),
		Pixels: conf.GetInt("pixels"),
	}
	if _, ok := writers[opts.Format]; !ok {
		return s, opts, errors.Errorf("unknown format %q, want one of [%s]", opts.Format, formatNames())
	}
	return s, opts, nil
}

func readScript(stdin io.Reader, name string) (string, error) {
	var (
		b   []byte
		err error
	)
	if name == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "reading script %s", name)
	}
	return string(b), nil
}

// runPrepare evaluates src, prepares its layers and hands them to the
// selected writer.
func runPrepare(ctx context.Context, w io.Writer, src string, s slice.Settings, opts prepareOptions) error {
	res, err := engine.NewEngine().EvaluateResult(ctx, src)
	if err != nil {
		return err
	}
	if len(res.Errors) > 0 {
		msgs := make([]string, len(res.Errors))
		for i, e := range res.Errors {
			msgs[i] = e.Error()
		}
		return errors.Errorf("script failed:\n  %s", strings.Join(msgs, "\n  "))
	}
	log := topo.Logger()
	for _, warn := range res.Warnings {
		log.Warn("script: "+warn.Message, "z", warn.Z)
	}

	layers, err := slice.Prepare(res.Model, s)
	if err != nil {
		return err
	}
	if opts.Layer >= 0 {
		if opts.Layer >= len(layers) {
			return errors.Errorf("layer %d out of range, the model has %d layer(s)", opts.Layer, len(layers))
		}
		layers = layers[opts.Layer : opts.Layer+1]
	}
	log.Info("prepared", "layers", len(layers), "format", opts.Format)
	return writers[opts.Format](w, layers, opts)
}

func summarize(w io.Writer, layers []slice.Layer) error {
	for _, l := range layers {
		shells, fill := 0, 0
		for _, isl := range l.Islands {
			shells += len(isl.Shells)
			if isl.Infill != nil {
				fill += isl.Infill.Len()
			}
		}
		brim := 0
		if l.Brim != nil {
			brim = l.Brim.Len()
		}
		if _, err := fmt.Fprintf(w, "layer %d z=%g height=%g islands=%d shells=%d infill=%d brim=%d edges=%d\n",
			l.Index, l.Z, l.Height, len(l.Islands), shells, fill, brim, l.NumEdges()); err != nil {
			return err
		}
	}
	return nil
}
