package bigchar

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageToHalfBlocks(t *testing.T) {
	// Column 0: both on, column 1: top only, column 2: bottom only, column 3: off.
	img := image.NewGray(image.Rect(0, 0, 4, 2))
	on := color.Gray{Y: 255}
	img.SetGray(0, 0, on)
	img.SetGray(0, 1, on)
	img.SetGray(1, 0, on)
	img.SetGray(2, 1, on)

	assert.Equal(t, "█▀▄ ", imageToHalfBlocks(img, 4, 1))
}

func TestImageToHalfBlocksOutOfBounds(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})

	assert.Equal(t, "▀ \n  ", imageToHalfBlocks(img, 2, 2))
}

func TestScaleDownAverages(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			src.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	dst := scaleDown(src, 2, 2)
	require.Equal(t, image.Rect(0, 0, 2, 2), dst.Bounds())
	assert.Equal(t, uint8(200), dst.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(200), dst.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(0), dst.GrayAt(1, 0).Y)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a font"), 0644))
	_, err = LoadFile(bogus)
	assert.ErrorContains(t, err, "parsing font")
}

func TestNewRendererExplicitPathFails(t *testing.T) {
	_, err := NewRenderer(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
}
