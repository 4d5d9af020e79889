package filter

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnownNames(t *testing.T) {
	for _, name := range []string{"none", "polaroid", "sepia", "brownie", "vintage", "technicolor", "pixelate",
		"invert", "grayscale", "kodachrome", "blackwhite", "sharpen", "emboss", "blur", "contrast", "brightness"} {
		k, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, k.String())
	}

	k, err := Parse("default")
	require.NoError(t, err)
	assert.Equal(t, None, k)
}

func TestParseIsCaseSensitive(t *testing.T) {
	_, err := Parse("Sepia")
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = Parse("sharpenn")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestSharpenIsSingleConvolution(t *testing.T) {
	chain := Sharpen.Effects()
	require.Len(t, chain, 1)
	assert.Equal(t, EffectConvolute, chain[0].Type)
	assert.Equal(t, []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}, chain[0].Matrix)
}

func TestEmbossAndParameterisedEffects(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1, 1, 0.7, -1, -1, -1, -1}, Emboss.Effects()[0].Matrix)
	assert.Equal(t, 0.4, Blur.Effects()[0].Blur)
	assert.Equal(t, 0.3, Contrast.Effects()[0].Contrast)
	assert.Equal(t, 0.8, Brightness.Effects()[0].Brightness)
	assert.Equal(t, 4, Pixelate.Effects()[0].BlockSize)
}

func TestNoneClearsChain(t *testing.T) {
	chain := None.Effects()
	assert.NotNil(t, chain)
	assert.Empty(t, chain)
}

func TestEffectsAreIndependentCopies(t *testing.T) {
	a := Sharpen.Effects()
	a[0].Matrix[4] = 100
	assert.Equal(t, 5.0, Sharpen.Effects()[0].Matrix[4])
}

func TestKindsListsEverything(t *testing.T) {
	assert.Len(t, Kinds(), 16)
}

func solid(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyInvert(t *testing.T) {
	out := Apply(solid(color.RGBA{R: 255, A: 255}), Invert.Effects())
	r, g, b, _ := out.At(3, 3).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), g>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestApplyEmptyChainReturnsSource(t *testing.T) {
	src := solid(color.RGBA{G: 10, A: 255})
	assert.Same(t, src, Apply(src, None.Effects()))
}

func TestApplyPreservesBounds(t *testing.T) {
	src := solid(color.RGBA{R: 10, G: 20, B: 30, A: 255})
	for _, k := range Kinds() {
		out := Apply(src, k.Effects())
		assert.Equal(t, src.Bounds().Size(), out.Bounds().Size(), k.String())
	}
}

func TestBlackWhiteMatrixThresholds(t *testing.T) {
	fn := colorMatrix(colorMatrices[EffectBlackWhite])
	dark := fn(color.RGBA{R: 20, G: 20, B: 20, A: 255})
	light := fn(color.RGBA{R: 200, G: 200, B: 200, A: 255})
	assert.Equal(t, uint8(0), dark.R)
	assert.Equal(t, uint8(255), light.R)
}

func TestKindOf(t *testing.T) {
	for _, k := range Kinds() {
		assert.Equal(t, k, KindOf(k.Effects()), k.String())
	}
	assert.Equal(t, None, KindOf(nil))
	assert.Equal(t, None, KindOf([]Effect{{Type: EffectConvolute, Matrix: []float64{1}}}))
}
