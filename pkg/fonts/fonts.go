// Package fonts provides the monospace faces used to measure and draw
// chart labels.
//
// The faces are the Go Mono fonts shipped with golang.org/x/image, so
// measurements are identical on every machine and the PNG sink draws
// with exactly the metrics the layout was computed with. SVG output
// names the same family and can embed it through [MonoTTFBase64].
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontFamily is the CSS font-family name of the embedded face.
const FontFamily = "Go Mono"

// FallbackFontFamily lists fallbacks for viewers that ignore the
// embedded face.
const FallbackFontFamily = `'Go Mono', Menlo, Consolas, 'DejaVu Sans Mono', monospace`

// DPI is the resolution faces are built at; 72 makes one point one pixel.
const DPI = 72

// MonoTTF returns the regular face's TTF data.
func MonoTTF() []byte { return gomono.TTF }

// MonoBoldTTF returns the bold face's TTF data.
func MonoBoldTTF() []byte { return gomonobold.TTF }

// Cache for base64-encoded fonts (computed once on first access).
var (
	monoBase64     string
	monoBase64Once sync.Once
)

// MonoTTFBase64 returns the regular face as a base64 string for
// @font-face embedding. The result is cached after first computation.
func MonoTTFBase64() string {
	monoBase64Once.Do(func() {
		monoBase64 = base64.StdEncoding.EncodeToString(gomono.TTF)
	})
	return monoBase64
}

var (
	parsed    [2]*opentype.Font
	parseErr  error
	parseOnce sync.Once

	facesMu sync.Mutex
	faces   = map[faceKey]font.Face{}
)

type faceKey struct {
	size float64
	bold bool
}

func load() error {
	parseOnce.Do(func() {
		if parsed[0], parseErr = opentype.Parse(gomono.TTF); parseErr != nil {
			return
		}
		parsed[1], parseErr = opentype.Parse(gomonobold.TTF)
	})
	return parseErr
}

// NewFace returns a new face of the given pixel size. A face is not safe
// for concurrent use; each drawing goroutine needs its own.
func NewFace(size float64, bold bool) (font.Face, error) {
	if err := load(); err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	idx := 0
	if bold {
		idx = 1
	}
	f, err := opentype.NewFace(parsed[idx], &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return f, nil
}

// cachedFace returns the shared measuring face. facesMu must be held.
func cachedFace(size float64, bold bool) (font.Face, error) {
	key := faceKey{size, bold}
	if f, ok := faces[key]; ok {
		return f, nil
	}
	f, err := NewFace(size, bold)
	if err != nil {
		return nil, err
	}
	faces[key] = f
	return f, nil
}

// Measure returns the advance width and line height of s at size.
func Measure(s string, size float64, bold bool) (width, height float64) {
	facesMu.Lock()
	defer facesMu.Unlock()
	f, err := cachedFace(size, bold)
	if err != nil {
		return approximate(s, size)
	}
	m := f.Metrics()
	return toFloat(font.MeasureString(f, s)), toFloat(m.Ascent + m.Descent)
}

// Metrics returns the ascent and descent of the face at size.
func Metrics(size float64, bold bool) (ascent, descent float64) {
	facesMu.Lock()
	defer facesMu.Unlock()
	f, err := cachedFace(size, bold)
	if err != nil {
		return size * 0.8, size * 0.2
	}
	m := f.Metrics()
	return toFloat(m.Ascent), toFloat(m.Descent)
}

// approximate mirrors the metrics of a monospace face when the face
// cannot be loaded.
func approximate(s string, size float64) (float64, float64) {
	const charWidth, lineHeight = 0.6, 1.2
	return float64(len([]rune(s))) * size * charWidth, size * lineHeight
}

func toFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
