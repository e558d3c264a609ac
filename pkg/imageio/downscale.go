package imageio

import (
	"image"

	"golang.org/x/image/draw"
)

// Downscale shrinks a supersampled render by an integer factor
func Downscale(img image.Image, factor int) *image.NRGBA {
	bounds := img.Bounds()
	if factor <= 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
		return dst
	}

	dst := image.NewNRGBA(image.Rect(0, 0, max(1, bounds.Dx()/factor), max(1, bounds.Dy()/factor)))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// DownscalePixels shrinks packed pixels by an integer factor and returns the new size
func DownscalePixels(pixels []uint32, width, height, factor int) ([]uint32, int, int, error) {
	img, err := ToImage(pixels, width, height)
	if err != nil {
		return nil, 0, 0, err
	}
	out, w, h := FromImage(Downscale(img, factor))
	return out, w, h, nil
}
