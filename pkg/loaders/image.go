package loaders

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// LoadImage loads a PNG, JPEG or BMP image
func LoadImage(filename string) (image.Image, error) {
	// imgio.Open decodes by sniffing the file header
	img, err := imgio.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", filename, err)
	}
	return img, nil
}

// LoadTexture loads an image file as a sphere texture
func LoadTexture(filename string) (*material.ImageTexture, error) {
	img, err := LoadImage(filename)
	if err != nil {
		return nil, err
	}
	return material.NewImageTextureFromImage(img), nil
}
