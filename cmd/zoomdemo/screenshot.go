// screenshot.go - PNG and WebP export of the live RGBA buffer, with an
// optional bilinear upscale, grounded on the teacher's scaleImageToMode
// bilinear loop in video_chip.go (here delegated to x/image/draw instead
// of a second hand-rolled resampler) and on stdlib image/png.

package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// SaveScreenshot writes basePath+".png" and basePath+".webp" from a
// ViewW*ViewH*4 RGBA buffer. When scale > 1 the image is bilinearly
// upscaled before encoding.
func SaveScreenshot(basePath string, rgba []byte, viewW, viewH, scale int) error {
	if len(rgba) != viewW*viewH*4 {
		return fmt.Errorf("screenshot: rgba length %d does not match %dx%d", len(rgba), viewW, viewH)
	}

	src := &image.RGBA{Pix: rgba, Stride: viewW * 4, Rect: image.Rect(0, 0, viewW, viewH)}

	img := image.Image(src)
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, viewW*scale, viewH*scale))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		img = dst
	}

	if err := savePNG(basePath+".png", img); err != nil {
		return err
	}
	return saveWebP(basePath+".webp", img)
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("screenshot: encode png: %w", err)
	}
	return nil
}

func saveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("screenshot: create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("screenshot: encode webp: %w", err)
	}
	return nil
}
