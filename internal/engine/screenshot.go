package engine

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// SaveScreenshot captures the current target window and writes it as a
// PNG. The path is resolved against the working directory, the .png
// extension is enforced, and parent directories are created. The
// window-manager's extended shadow frame is cropped off when the
// visible-bounds query is available; scale (0 < scale < 1) optionally
// downsamples the result.
func (s *Session) SaveScreenshot(filename string, scale float64) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required")
	}
	path, err := filepath.Abs(filename)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", filename, err)
	}
	if ext := filepath.Ext(path); !strings.EqualFold(ext, ".png") {
		path = strings.TrimSuffix(path, ext) + ".png"
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("cannot create directory %q: %w", dir, err)
		}
	}

	target, err := s.target()
	if err != nil {
		return "", err
	}

	if ferr := target.SetFocus(); ferr != nil {
		s.log.Debug("focus before capture failed", "err", ferr)
	}
	time.Sleep(s.opts.SettleDelay)

	img, err := target.CaptureImage()
	if err != nil {
		return "", fmt.Errorf("cannot save screenshot: %w", err)
	}

	img = s.cropShadowFrame(target.Handle(), img)
	if scale > 0 && scale < 1 {
		img = scaleImage(img, scale)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot save screenshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("cannot save screenshot: %w", err)
	}

	return "Screenshot saved to: " + path, nil
}

// cropShadowFrame removes the window-manager shadow border from a
// captured image by comparing the full window rectangle with the
// visible bounds. Offsets are in screen coordinates; the image may be
// DPI-virtualized, so they are scaled by the image-pixel / screen-pixel
// ratio before cropping. If the visible-bounds query is unavailable the
// image is returned unchanged.
func (s *Session) cropShadowFrame(hwnd uintptr, img image.Image) image.Image {
	ops := s.provider.Windows
	if ops == nil || hwnd == 0 {
		return img
	}
	full, err := ops.WindowRect(hwnd)
	if err != nil || full.Width() <= 0 || full.Height() <= 0 {
		return img
	}
	visible, err := ops.VisibleBounds(hwnd)
	if err != nil {
		return img
	}

	leftOff := visible.Left - full.Left
	topOff := visible.Top - full.Top
	rightOff := full.Right - visible.Right
	bottomOff := full.Bottom - visible.Bottom
	if leftOff <= 0 && topOff <= 0 && rightOff <= 0 && bottomOff <= 0 {
		return img
	}

	b := img.Bounds()
	scaleX := float64(b.Dx()) / float64(full.Width())
	scaleY := float64(b.Dy()) / float64(full.Height())

	x0 := int(math.Round(float64(leftOff) * scaleX))
	y0 := int(math.Round(float64(topOff) * scaleY))
	x1 := b.Dx() - int(math.Round(float64(rightOff)*scaleX))
	y1 := b.Dy() - int(math.Round(float64(bottomOff)*scaleY))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 <= x0 || y1 <= y0 {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, x1-x0, y1-y0))
	draw.Draw(out, out.Bounds(), img, image.Pt(b.Min.X+x0, b.Min.Y+y0), draw.Src)
	return out
}

func scaleImage(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := int(math.Round(float64(b.Dx()) * scale))
	h := int(math.Round(float64(b.Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(out, out.Bounds(), img, b, draw.Src, nil)
	return out
}
