// Package assets decodes image files for drawing through canvases.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png" // PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder
)

// ErrImageOpen and ErrImageDecode separate missing files from bad data.
var (
	ErrImageOpen   = errors.New("assets: cannot read image")
	ErrImageDecode = errors.New("assets: cannot decode image")
)

// LoadImage reads a BMP or PNG file. Pixels matching key become fully
// transparent; a nil key keeps the image as is.
func LoadImage(path string, key color.Color) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrImageOpen, path, err)
	}
	defer f.Close()

	img, err := DecodeImage(f, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes any registered format and applies the color key.
func DecodeImage(r io.Reader, key color.Color) (*image.NRGBA, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageDecode, err)
	}
	if format != "bmp" && format != "png" {
		return nil, fmt.Errorf("%w: unsupported format %s", ErrImageDecode, format)
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	if key != nil {
		applyKey(dst, color.NRGBAModel.Convert(key).(color.NRGBA))
	}
	return dst, nil
}

func applyKey(img *image.NRGBA, key color.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		p := img.Pix[i : i+4 : i+4]
		if p[0] == key.R && p[1] == key.G && p[2] == key.B {
			p[3] = 0
		}
	}
}
