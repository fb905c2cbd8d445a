package ebitenhost

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/strata"
	"go.uber.org/zap"
)

// Screenshot queues a labeled screenshot to be captured by the next
// FlushScreenshots. Safe to call from Update or Draw.
func (h *Host) Screenshot(label string) {
	h.screenshotQueue = append(h.screenshotQueue, label)
}

// PendingScreenshots returns the queued labels.
func (h *Host) PendingScreenshots() []string {
	return h.screenshotQueue
}

// FlushScreenshots captures the screen for every queued label and writes
// each as a timestamped PNG in ScreenshotDir. Call it at the end of
// Game.Draw, after Render. Failures are logged and the queue is emptied.
func (h *Host) FlushScreenshots() {
	if len(h.screenshotQueue) == 0 {
		return
	}
	defer func() { h.screenshotQueue = h.screenshotQueue[:0] }()

	if h.screen.img == nil {
		strata.Logger().Warn("screenshot skipped", zap.Strings("labels", h.screenshotQueue), zap.Error(ErrNoScreen))
		return
	}
	if err := os.MkdirAll(h.ScreenshotDir, 0o755); err != nil {
		strata.Logger().Error("screenshot: create directory", zap.String("dir", h.ScreenshotDir), zap.Error(err))
		return
	}

	img := ReadNRGBA(h.screen.img)
	stamp := time.Now().Format("20060102_150405")

	for _, label := range h.screenshotQueue {
		path, err := savePNG(h.ScreenshotDir, fmt.Sprintf("%s_%s.png", stamp, fileLabel(label)), img)
		if err != nil {
			strata.Logger().Error("screenshot", zap.String("path", path), zap.Error(err))
			continue
		}
		strata.Logger().Info("screenshot saved", zap.String("label", label), zap.String("path", path))
	}
}

// ReadNRGBA reads img back as straight-alpha NRGBA. Only valid while the
// game loop runs.
func ReadNRGBA(img *ebiten.Image) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	img.ReadPixels(pixels)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	unpremultiply(out.Pix, pixels)
	return out
}

// unpremultiply converts premultiplied RGBA bytes in src to straight alpha
// in dst.
func unpremultiply(dst, src []byte) {
	for i := 0; i+3 < len(src); i += 4 {
		r, g, b, a := src[i], src[i+1], src[i+2], src[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		dst[i] = r
		dst[i+1] = g
		dst[i+2] = b
		dst[i+3] = a
	}
}

// savePNG writes img to dir/name.
func savePNG(dir, name string, img image.Image) (string, error) {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return path, err
	}
	encErr := png.Encode(f, img)
	if err := f.Close(); encErr == nil {
		encErr = err
	}
	return path, encErr
}

// fileLabel makes label usable in a file name: letters, digits, '-' and
// '.' are kept, anything else becomes '_'.
func fileLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && (r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, label)
}
