package tiff

import (
	"fmt"
	"image"
	"image/color"

	"github.com/echoflaresat/sunephem/colors"
	"golang.org/x/exp/mmap"
)

type stripedTiff struct {
	header TiffHeader
	reader *mmap.ReaderAt
}

// LoadStripedTiff memory-maps an uncompressed striped TIFF. Pixels are read
// from the mapping on demand.
func LoadStripedTiff(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := newStripedTiff(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return t, nil
}

func newStripedTiff(reader *mmap.ReaderAt) (*stripedTiff, error) {
	header, err := parseTiffHeader(reader)
	if err != nil {
		return nil, err
	}
	if len(header.StripOffsets) == 0 {
		return nil, fmt.Errorf("%w: no strips", ErrWrongLayout)
	}
	if len(header.StripOffsets) != len(header.StripByteCounts) {
		return nil, fmt.Errorf("invalid strip offset/length")
	}
	if header.Compression != CompressionNone {
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}
	if err := checkPixelFormat(header); err != nil {
		return nil, err
	}
	return &stripedTiff{header: header, reader: reader}, nil
}

func (t *stripedTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *stripedTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *stripedTiff) Close() error {
	return t.reader.Close()
}

func (t *stripedTiff) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return colors.Color4{}
	}

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	bytesPerPixel := h.SamplesPerPixel
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*bytesPerPixel

	var buf [3]byte
	if _, err := t.reader.ReadAt(buf[:bytesPerPixel], int64(idx)); err != nil {
		panic(fmt.Sprintf("could not read pixel at (%d,%d): %v", x, y, err))
	}
	return pixel(h.Photometric, buf[:bytesPerPixel])
}
