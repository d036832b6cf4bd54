// Command mergeframes tiles rendered map frames into a single contact sheet.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/echoflaresat/sunephem/texture"
)

func main() {
	scale := flag.Float64("scale", 1.0, "Scale factor applied to each frame")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-scale f] <cols>x<rows> <output.png|jpg> <frame1> <frame2> ...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 3 {
		flag.Usage()
		os.Exit(1)
	}

	cols, rows, err := parseLayout(args[0])
	if err != nil {
		log.Fatal(err)
	}
	output := args[1]
	inputFiles := args[2:]
	if len(inputFiles) != cols*rows {
		log.Fatalf("Expected %d input files, got %d", cols*rows, len(inputFiles))
	}

	frames := make([]image.Image, 0, len(inputFiles))
	for _, path := range inputFiles {
		fmt.Printf("Processing %s\n", path)
		img, err := loadFrame(path)
		if err != nil {
			log.Fatalf("Could not load input file %q: %v", path, err)
		}
		frames = append(frames, img)
	}

	canvas, err := merge(frames, cols, *scale)
	if err != nil {
		log.Fatal(err)
	}
	if err := save(output, canvas); err != nil {
		log.Fatal(err)
	}
}

// parseLayout reads a grid size such as "6x4".
func parseLayout(s string) (cols, rows int, err error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid layout %q (expected NxM)", s)
	}
	cols, err = strconv.Atoi(parts[0])
	if err != nil || cols <= 0 {
		return 0, 0, fmt.Errorf("invalid cols in %q", s)
	}
	rows, err = strconv.Atoi(parts[1])
	if err != nil || rows <= 0 {
		return 0, 0, fmt.Errorf("invalid rows in %q", s)
	}
	return cols, rows, nil
}

func loadFrame(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return texture.Decode(f)
}

// merge draws frames row-major onto a canvas cols wide. Every frame must
// have the size of the first.
func merge(frames []image.Image, cols int, scale float64) (*image.NRGBA, error) {
	if len(frames) == 0 || cols <= 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}

	first := frames[0].Bounds()
	tileW := max(1, int(float64(first.Dx())*scale))
	tileH := max(1, int(float64(first.Dy())*scale))
	rows := (len(frames) + cols - 1) / cols
	canvas := image.NewNRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))

	for idx, tile := range frames {
		b := tile.Bounds()
		if b.Dx() != first.Dx() || b.Dy() != first.Dy() {
			return nil, fmt.Errorf("frame %d size mismatch: expected %dx%d, got %dx%d",
				idx, first.Dx(), first.Dy(), b.Dx(), b.Dy())
		}

		x := (idx % cols) * tileW
		y := (idx / cols) * tileH
		dst := image.Rect(x, y, x+tileW, y+tileH)
		if scale == 1 {
			draw.Draw(canvas, dst, tile, b.Min, draw.Over)
		} else {
			draw.CatmullRom.Scale(canvas, dst, tile, b, draw.Over, nil)
		}
	}
	return canvas, nil
}

func save(output string, canvas *image.NRGBA) error {
	fmt.Printf("-> creating %s\n", output)
	outFile, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", output, err)
	}
	defer outFile.Close()

	ext := strings.ToLower(filepath.Ext(output))
	switch ext {
	case ".png":
		return png.Encode(outFile, canvas)
	case ".jpg", ".jpeg":
		return jpeg.Encode(outFile, canvas, &jpeg.Options{Quality: 95})
	default:
		return fmt.Errorf("unsupported output format: %s", ext)
	}
}
