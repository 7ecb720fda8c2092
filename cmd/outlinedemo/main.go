// Command outlinedemo renders object outlines for a synthetic scene or an
// ID-map image and writes the result over a background.
//
// ID maps are PNG images whose red channel holds the layer A object ID and
// whose green channel holds the layer B object ID; zero means no object.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/gogpu/outline"
	"github.com/gogpu/outline/gpu"
)

type options struct {
	width     int
	height    int
	samples   int
	thickness float64
	config    string
	input     string
	output    string
	scale     float64
	cpuOnly   bool
	workers   int
	verbose   bool
}

func main() {
	var opts options
	flag.IntVar(&opts.width, "width", 800, "image width (ignored with -input)")
	flag.IntVar(&opts.height, "height", 600, "image height (ignored with -input)")
	flag.IntVar(&opts.samples, "samples", 1, "mask samples per pixel: 1 or 4")
	flag.Float64Var(&opts.thickness, "thickness", 0, "outline thickness in pixels (overrides -config)")
	flag.StringVar(&opts.config, "config", "", "outline config file (.yaml, .yml or .toml)")
	flag.StringVar(&opts.input, "input", "", "ID-map PNG (default: synthetic scene)")
	flag.StringVar(&opts.output, "output", "outline.png", "output file (.png or .bmp)")
	flag.Float64Var(&opts.scale, "scale", 1, "output scale factor")
	flag.BoolVar(&opts.cpuOnly, "cpu", false, "disable GPU acceleration")
	flag.IntVar(&opts.workers, "workers", 0, "CPU workers (0 = GOMAXPROCS)")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Parse()

	if err := run(context.Background(), opts); err != nil {
		log.Fatalf("outlinedemo: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	if opts.verbose {
		outline.SetLogger(slogDebug())
	}

	cfg := outline.DefaultConfig()
	if opts.config != "" {
		c, err := outline.LoadConfig(opts.config)
		if err != nil {
			return err
		}
		cfg = c
	}
	if opts.thickness > 0 {
		cfg.Thickness = float32(opts.thickness)
	}

	mask, err := loadMask(opts)
	if err != nil {
		return err
	}

	pipeOpts := []outline.Option{
		outline.WithMaskSamples(mask.Samples()),
		outline.WithWorkers(opts.workers),
	}
	if opts.cpuOnly {
		pipeOpts = append(pipeOpts, outline.WithCPUOnly())
	}
	p, err := outline.NewPipeline(mask.Width(), mask.Height(), pipeOpts...)
	if err != nil {
		return err
	}
	defer p.Close()

	start := time.Now()
	overlay, err := p.Render(ctx, mask, cfg)
	if err != nil {
		return err
	}
	log.Printf("rendered %dx%d (%s, %d passes, gpu=%v) in %v",
		mask.Width(), mask.Height(), p.Mode(), len(p.Steps())+2,
		gpu.Enabled() && !opts.cpuOnly, time.Since(start))

	img := compose(mask, overlay)
	if opts.scale > 0 && opts.scale != 1 {
		img = scale(img, opts.scale)
	}
	if err := save(opts.output, img); err != nil {
		return err
	}
	log.Printf("saved %s", opts.output)
	return nil
}

// loadMask reads the ID map given by -input or builds the synthetic scene.
func loadMask(opts options) (*outline.Mask, error) {
	if opts.input == "" {
		if opts.samples != 1 && opts.samples != outline.MultisampleCount {
			return nil, fmt.Errorf("%w: %d", outline.ErrUnsupportedSamples, opts.samples)
		}
		if opts.width <= 0 || opts.height <= 0 {
			return nil, fmt.Errorf("%w: %dx%d", outline.ErrInvalidDimensions, opts.width, opts.height)
		}
		return syntheticScene(opts.width, opts.height, opts.samples), nil
	}

	f, err := os.Open(filepath.Clean(opts.input))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", opts.input, err)
	}
	return outline.MaskFromImage(img), nil
}

// syntheticScene draws a few overlapping objects. Discs are sampled at the
// standard sample positions, so four-sample masks carry sub-pixel edges.
func syntheticScene(w, h, samples int) *outline.Mask {
	m := outline.NewMask(w, h, samples)
	fw, fh := float32(w), float32(h)

	m.FillRect(w/10, h/8, w/4, h/3, outline.IDPair{A: 1})
	m.FillRect(w/2, h/2, w/3, h/4, outline.IDPair{A: 2, B: 1})

	disc := func(cx, cy, r float32, id outline.IDPair) {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				for s := 0; s < samples; s++ {
					off := outline.V2(0.5, 0.5)
					if samples == outline.MultisampleCount {
						off = outline.SamplePositions4x[s]
					}
					p := outline.V2(float32(x), float32(y)).Add(off)
					if p.Sub(outline.V2(cx, cy)).LengthSq() <= r*r {
						m.Set(x, y, s, id)
					}
				}
			}
		}
	}
	disc(fw*0.7, fh*0.3, min(fw, fh)*0.15, outline.IDPair{A: 3})
	disc(fw*0.3, fh*0.7, min(fw, fh)*0.12, outline.IDPair{B: 2})
	return m
}

// compose draws the mask objects in flat colors on a dark background and
// blends the outline overlay over them.
func compose(mask *outline.Mask, overlay *outline.Overlay) *image.NRGBA {
	bounds := mask.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.NRGBA{R: 24, G: 26, B: 32, A: 255}), image.Point{}, draw.Src)

	palette := []color.NRGBA{
		{R: 70, G: 110, B: 160, A: 255},
		{R: 150, G: 90, B: 60, A: 255},
		{R: 80, G: 140, B: 90, A: 255},
		{R: 120, G: 80, B: 140, A: 255},
	}
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			id := mask.At(x, y, 0)
			if k := int(id.A) + int(id.B); k > 0 {
				dst.SetNRGBA(x, y, palette[k%len(palette)])
			}
		}
	}

	draw.Draw(dst, bounds, overlay.Image(), image.Point{}, draw.Over)
	return dst
}

func scale(src *image.NRGBA, factor float64) *image.NRGBA {
	b := src.Bounds()
	w := max(1, int(float64(b.Dx())*factor))
	h := max(1, int(float64(b.Dy())*factor))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func save(path string, img image.Image) error {
	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	default:
		return errors.New("unsupported output format " + filepath.Ext(path))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
