// Package imageio converts packed ABGR framebuffers to and from image files.
//
// A packed pixel is A<<24 | B<<16 | G<<8 | R, so its little-endian bytes are
// R, G, B, A: exactly the layout of image.NRGBA.Pix.
package imageio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// ErrBufferSize is returned when a pixel buffer does not hold width*height pixels
var ErrBufferSize = errors.New("pixel buffer size does not match image size")

// EncodeError reports a failure to write an image file
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Format is an output image format
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	BMP  Format = "bmp"
)

// ParseFormat accepts png, jpeg/jpg and bmp in any case
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// FormatFromPath picks the format from the file extension, defaulting to PNG
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(filepath.Ext(path)); err == nil {
		return f
	}
	return PNG
}

// Extension returns the file extension for the format, including the dot
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + string(f)
}

// Options controls encoding
type Options struct {
	Format  Format // Empty selects by file extension
	Quality int    // JPEG quality 1-100 (0 = 90)
}

func (o Options) encoder(path string) imgio.Encoder {
	format := o.Format
	if format == "" {
		format = FormatFromPath(path)
	}
	switch format {
	case JPEG:
		quality := o.Quality
		if quality <= 0 {
			quality = 90
		}
		return imgio.JPEGEncoder(min(quality, 100))
	case BMP:
		return imgio.BMPEncoder()
	default:
		return imgio.PNGEncoder()
	}
}

// ToImage copies packed ABGR pixels into an NRGBA image
func ToImage(pixels []uint32, width, height int) (*image.NRGBA, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, fmt.Errorf("%w: %d pixels for %dx%d", ErrBufferSize, len(pixels), width, height)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			binary.LittleEndian.PutUint32(row[x*4:], pixels[x+y*width])
		}
	}
	return img, nil
}

// FromImage packs any image into ABGR pixels
func FromImage(img image.Image) (pixels []uint32, width, height int) {
	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				nrgba.Set(x, y, img.At(x+bounds.Min.X, y+bounds.Min.Y))
			}
		}
		bounds = nrgba.Bounds()
	}

	pixels = make([]uint32, width*height)
	for y := 0; y < height; y++ {
		row := nrgba.Pix[nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < width; x++ {
			pixels[x+y*width] = binary.LittleEndian.Uint32(row[x*4:])
		}
	}
	return pixels, width, height
}

// Encode writes the pixels to path, creating the parent directory if needed.
// Every failure is an *EncodeError.
func Encode(path string, pixels []uint32, width, height int, opts Options) error {
	img, err := ToImage(pixels, width, height)
	if err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return Save(path, img, opts)
}

// EncodePNG writes the pixels to path as PNG
func EncodePNG(path string, pixels []uint32, width, height int) error {
	return Encode(path, pixels, width, height, Options{Format: PNG})
}

// Save writes an image to path, creating the parent directory if needed
func Save(path string, img image.Image, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &EncodeError{Path: path, Err: err}
		}
	}
	if err := imgio.Save(path, img, opts.encoder(path)); err != nil {
		return &EncodeError{Path: path, Err: err}
	}
	return nil
}

// WritePNG streams the pixels as PNG
func WritePNG(w io.Writer, pixels []uint32, width, height int) error {
	img, err := ToImage(pixels, width, height)
	if err != nil {
		return err
	}
	return imgio.PNGEncoder()(w, img)
}

// Decode reads an image file into packed ABGR pixels
func Decode(path string) (pixels []uint32, width, height int, err error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode %s: %w", path, err)
	}
	pixels, width, height = FromImage(img)
	return pixels, width, height, nil
}
