package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"screen-slicer/internal/app"
	"screen-slicer/internal/export"
	"screen-slicer/internal/monitor"
	"screen-slicer/internal/screen"
	"screen-slicer/pkg/geometry"

	"github.com/spf13/cobra"
)

// defaultViewport is the arrangement area used when no window exists.
const defaultViewport = "1600x900"

type exportOptions struct {
	screens  []string
	inherit  bool
	image    string
	out      string
	viewport string
	fit      bool
	format   string
	quality  int
	moveX    float64
	moveY    float64
	scale    float64
}

func exportCmd() *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one crop per screen without opening the editor",
		Example: "  screen-slicer export --screen 1920x1080@60:16:9 --screen 2560x1440@68.5 \\\n" +
			"      --image wall.jpg --fit --out crops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts)
		},
	}
	f := cmd.Flags()
	f.StringArrayVarP(&opts.screens, "screen", "s", nil, "screen as WxH@DIAG_CM[:RW:RH], repeat in left-to-right order")
	f.BoolVar(&opts.inherit, "inherit", false, "use the monitors reported by the operating system")
	f.StringVarP(&opts.image, "image", "i", "", "image to slice")
	f.StringVarP(&opts.out, "out", "o", ".", "output directory")
	f.StringVar(&opts.viewport, "viewport", defaultViewport, "arrangement area as WxH")
	f.BoolVar(&opts.fit, "fit", false, "scale the image to cover every screen")
	f.StringVar(&opts.format, "format", export.FormatJPEG, "output format (jpg or png)")
	f.IntVarP(&opts.quality, "quality", "q", export.DefaultQuality, "JPEG quality 1-100")
	f.Float64Var(&opts.moveX, "dx", 0, "move the image right by this many canvas units")
	f.Float64Var(&opts.moveY, "dy", 0, "move the image down by this many canvas units")
	f.Float64Var(&opts.scale, "scale", 0, "image scale, applied before --dx/--dy (ignored with --fit)")
	_ = cmd.MarkFlagRequired("image")
	cmd.MarkFlagsMutuallyExclusive("screen", "inherit")
	cmd.MarkFlagsMutuallyExclusive("scale", "fit")
	return cmd
}

func runExport(opts exportOptions) error {
	viewport, err := parseSize(opts.viewport)
	if err != nil {
		return err
	}
	if opts.format != export.FormatJPEG && opts.format != export.FormatPNG {
		return fmt.Errorf("invalid format: %s (must be '%s' or '%s')", opts.format, export.FormatJPEG, export.FormatPNG)
	}

	s := app.NewSession()
	if opts.inherit {
		mons, err := s.Inherit(monitor.System(), viewport)
		if err != nil {
			return fmt.Errorf("failed to inherit screens: %w", err)
		}
		for _, m := range mons {
			fmt.Printf("Using monitor %s\n", m)
		}
	} else {
		specs, err := parseSpecs(opts.screens)
		if err != nil {
			return err
		}
		if err := s.Configure(specs, viewport); err != nil {
			return err
		}
	}

	if err := s.LoadImage(opts.image); err != nil {
		return err
	}

	switch {
	case opts.fit:
		if err := s.Fit(); err != nil {
			return err
		}
		fmt.Printf("Fit image, grey area ratio %.3f\n", s.GreyAreaRatio())
	case opts.scale != 0:
		if err := s.SetScale(opts.scale); err != nil {
			return err
		}
	}
	if opts.moveX != 0 || opts.moveY != 0 {
		if err := s.MoveImage(opts.moveX, opts.moveY); err != nil {
			return err
		}
	}

	x := export.NewExporter(opts.out)
	x.Format = opts.format
	x.Quality = opts.quality
	results, err := s.Export(x)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("Screen %d: %v\n", r.Screen, r.Err)
			continue
		}
		fmt.Printf("Screen %d: %s -> %s\n", r.Screen, r.Crop, r.Path)
	}
	if failed := export.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d of %d screens were not exported", len(failed), len(results))
	}
	return nil
}

func monitorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitors",
		Short: "List the monitors reported by the operating system",
		RunE: func(cmd *cobra.Command, args []string) error {
			res := monitor.Detect(monitor.System())
			if !res.Available() {
				return fmt.Errorf("monitors unavailable: %w", res.Reason)
			}
			for i, m := range res.Monitors {
				fmt.Printf("%d: %s -> %s\n", i+1, m, res.Specs[i])
			}
			return nil
		},
	}
}

func parseSpecs(args []string) ([]screen.Spec, error) {
	if len(args) == 0 {
		return nil, errors.New("at least one --screen or --inherit is required")
	}
	specs := make([]screen.Spec, 0, len(args))
	for _, a := range args {
		s, err := screen.ParseSpec(a)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// parseSize parses "WxH" with positive components.
func parseSize(s string) (geometry.Size, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return geometry.Size{}, fmt.Errorf("invalid size %q: expected WxH", s)
	}
	w, errW := strconv.ParseFloat(ws, 64)
	h, errH := strconv.ParseFloat(hs, 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return geometry.Size{}, fmt.Errorf("invalid size %q: expected positive WxH", s)
	}
	return geometry.NewSize(w, h), nil
}
