// Package bigchar renders Manchu letters as large block art using half-block characters.
package bigchar

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// ErrNoFont is returned when no Mongolian-script font could be loaded.
var ErrNoFont = errors.New("no Mongolian script font found")

// Common locations of fonts covering the Mongolian block.
var systemFonts = []string{
	// Linux
	"/usr/share/fonts/truetype/noto/NotoSansMongolian-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansMongolian-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansMongolian-Regular.ttf",
	"/usr/share/fonts/google-noto/NotoSansMongolian-Regular.ttf",
	"/usr/share/fonts/truetype/mongolian/MongolianBaiti.ttf",
	// macOS
	"/System/Library/Fonts/Supplemental/NotoSansMongolian-Regular.ttf",
	"/Library/Fonts/NotoSansMongolian-Regular.ttf",
	// Windows
	"C:\\Windows\\Fonts\\monbaiti.ttf",
}

// Renderer draws glyphs from one font face and caches the results.
type Renderer struct {
	face font.Face

	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	r          rune
	cols, rows int
}

// NewRenderer loads fontPath, or the first usable system font when
// fontPath is empty.
func NewRenderer(fontPath string) (*Renderer, error) {
	paths := systemFonts
	if fontPath != "" {
		paths = []string{fontPath}
	}

	var errs []error
	for _, path := range paths {
		face, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return &Renderer{face: face, cache: make(map[cacheKey]string)}, nil
	}

	if fontPath != "" {
		return nil, errors.Join(errs...)
	}
	return nil, ErrNoFont
}

// LoadFile parses a .ttf, .otf or .ttc file into a 64px face.
// Collections use their first font.
func LoadFile(path string) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	opts := &opentype.FaceOptions{Size: 64, DPI: 72}

	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		if fnt, err := coll.Font(0); err == nil {
			return opentype.NewFace(fnt, opts)
		}
	}

	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", path, err)
	}
	return opentype.NewFace(fnt, opts)
}

// Render draws r into a cols x rows block of half-block characters.
// It returns "" when the font has no glyph for r.
func (rd *Renderer) Render(r rune, cols, rows int) string {
	key := cacheKey{r, cols, rows}

	rd.mu.Lock()
	defer rd.mu.Unlock()

	if cached, ok := rd.cache[key]; ok {
		return cached
	}

	out := rd.render(r, cols, rows)
	rd.cache[key] = out
	return out
}

func (rd *Renderer) render(r rune, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	bounds, _, ok := rd.face.GlyphBounds(r)
	if !ok {
		return ""
	}
	glyphWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	padding := 4
	srcWidth := max(glyphWidth+padding*2, 64)
	srcHeight := max(glyphHeight+padding*2, 64)

	src := image.NewGray(image.Rect(0, 0, srcWidth, srcHeight))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	x := (srcWidth-glyphWidth)/2 - bounds.Min.X.Floor()
	y := srcHeight - padding - bounds.Max.Y.Ceil()

	d := &font.Drawer{
		Dst:  src,
		Src:  image.White,
		Face: rd.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(string(r))

	// Two pixel rows per terminal row.
	scaled := scaleDown(src, cols, rows*2)
	return imageToHalfBlocks(scaled, cols, rows)
}

// scaleDown scales a grayscale image using area averaging.
func scaleDown(src *image.Gray, dstWidth, dstHeight int) *image.Gray {
	srcWidth := src.Bounds().Dx()
	srcHeight := src.Bounds().Dy()

	dst := image.NewGray(image.Rect(0, 0, dstWidth, dstHeight))

	xRatio := float64(srcWidth) / float64(dstWidth)
	yRatio := float64(srcHeight) / float64(dstHeight)

	for dy := 0; dy < dstHeight; dy++ {
		sy1 := int(float64(dy) * yRatio)
		sy2 := min(max(int(float64(dy+1)*yRatio), sy1+1), srcHeight)

		for dx := 0; dx < dstWidth; dx++ {
			sx1 := int(float64(dx) * xRatio)
			sx2 := min(max(int(float64(dx+1)*xRatio), sx1+1), srcWidth)

			var sum, count int
			for sy := sy1; sy < sy2; sy++ {
				for sx := sx1; sx < sx2; sx++ {
					sum += int(src.GrayAt(sx, sy).Y)
					count++
				}
			}
			if count > 0 {
				dst.SetGray(dx, dy, color.Gray{Y: uint8(sum / count)})
			}
		}
	}

	return dst
}

const threshold = 40

// imageToHalfBlocks converts a grayscale image to half-block art.
func imageToHalfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if !image.Pt(x, y).In(img.Bounds()) {
		return 0
	}
	return img.GrayAt(x, y).Y
}
