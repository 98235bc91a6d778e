package graphics

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"

	"nesdot/internal/logger"
)

// WritePNG encodes frame as a PNG, enlarged by an integer scale with
// nearest-neighbour sampling so pixels stay sharp.
func WritePNG(w io.Writer, frame *Frame, scale int) error {
	src := NewFrameImage()
	ToRGBA(frame, src)

	var img image.Image = src
	if scale > 1 {
		b := src.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
		img = dst
	}
	return png.Encode(w, img)
}

// SaveScreenshot writes frame into dir under a timestamped name and
// returns the path.
func SaveScreenshot(dir string, frame *Frame, scale int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("nesdot_%s.png", time.Now().Format("20060102_150405.000"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := WritePNG(f, frame, scale); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	logger.Logf("GRAPHICS", "screenshot saved to %s", path)
	return path, nil
}
