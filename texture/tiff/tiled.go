package tiff

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/echoflaresat/sunephem/colors"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// TileCacheSize is the number of decompressed tiles kept per image.
const TileCacheSize = 200

type tiledTiff struct {
	header      TiffHeader
	reader      *mmap.ReaderAt
	cache       *lru.Cache // tileIndex -> []byte
	tilesAcross int
}

// LoadTiledTiff memory-maps a tiled TIFF, uncompressed or deflate.
// Decompressed tiles are kept in an LRU cache.
func LoadTiledTiff(path string) (image.Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	t, err := newTiledTiff(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	return t, nil
}

func newTiledTiff(reader *mmap.ReaderAt) (*tiledTiff, error) {
	header, err := parseTiffHeader(reader)
	if err != nil {
		return nil, err
	}
	if len(header.TileOffsets) == 0 || header.TileWidth <= 0 || header.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrWrongLayout)
	}
	if len(header.TileOffsets) != len(header.TileByteCounts) {
		return nil, fmt.Errorf("invalid tile offset/length")
	}
	switch header.Compression {
	case CompressionNone, CompressionDeflate, CompressionOldDeflate:
	default:
		return nil, fmt.Errorf("unsupported compression: %d", header.Compression)
	}
	if err := checkPixelFormat(header); err != nil {
		return nil, err
	}

	tilesAcross := (header.Width + header.TileWidth - 1) / header.TileWidth
	tilesDown := (header.Height + header.TileHeight - 1) / header.TileHeight
	if len(header.TileOffsets) < tilesAcross*tilesDown {
		return nil, fmt.Errorf("expected %d tiles, got %d", tilesAcross*tilesDown, len(header.TileOffsets))
	}

	cache, err := lru.New(TileCacheSize)
	if err != nil {
		return nil, err
	}

	return &tiledTiff{
		header:      header,
		reader:      reader,
		cache:       cache,
		tilesAcross: tilesAcross,
	}, nil
}

func (t *tiledTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *tiledTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *tiledTiff) Close() error {
	return t.reader.Close()
}

func (t *tiledTiff) At(x, y int) color.Color {
	h := t.header
	if !(image.Point{x, y}.In(t.Bounds())) {
		return colors.Color4{}
	}

	tileIndex := (y/h.TileHeight)*t.tilesAcross + x/h.TileWidth

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		tile = t.loadTile(tileIndex)
		t.cache.Add(tileIndex, tile)
	}

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	rowStride := h.TileWidth * h.SamplesPerPixel
	pixOffset := localY*rowStride + localX*h.SamplesPerPixel

	return pixel(h.Photometric, tile[pixOffset:pixOffset+h.SamplesPerPixel])
}

func (t *tiledTiff) loadTile(index int) []byte {
	h := t.header
	buf := make([]byte, h.TileByteCounts[index])
	if _, err := t.reader.ReadAt(buf, int64(h.TileOffsets[index])); err != nil {
		panic(fmt.Sprintf("failed to read tile %d: %v", index, err))
	}
	if h.Compression == CompressionNone {
		return buf
	}

	r, err := zlib.NewReader(bytes.NewReader(buf))
	if err != nil {
		panic(fmt.Sprintf("zlib decompression error: %v", err))
	}
	defer r.Close()
	tile, err := io.ReadAll(r)
	if err != nil {
		panic(fmt.Sprintf("zlib read error: %v", err))
	}
	return tile
}
