package thumb

import (
	"fmt"
	"image"
	"image/png"
	"os"

	_ "image/gif"
	_ "image/jpeg"
)

// generateThumbnail is the default Generator: it decodes the source image,
// scales it to fit within targetPx on its longer side, and writes a PNG.
// Images already small enough are re-encoded without scaling.
func generateThumbnail(srcPath, dstPath string, targetPx int) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", srcPath, err)
	}

	scaled := scaleToFit(src, targetPx)

	out, err := os.Create(dstPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := png.Encode(out, scaled); err != nil {
		os.Remove(dstPath)
		return fmt.Errorf("encoding %s: %w", dstPath, err)
	}
	return nil
}

// scaleToFit downscales img so its longer side is at most targetPx, using
// nearest-neighbor sampling. Thumbnails are small enough that resampling
// quality does not matter.
func scaleToFit(img image.Image, targetPx int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= targetPx && h <= targetPx {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = targetPx
		dh = h * targetPx / w
	} else {
		dh = targetPx
		dw = w * targetPx / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := b.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			sx := b.Min.X + x*w/dw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}
