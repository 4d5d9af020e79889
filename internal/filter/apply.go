package filter

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/transform"
)

// blurRadiusScale converts the normalised blur amount into a gaussian radius in pixels.
const blurRadiusScale = 10.0

// Colour matrices are 4x5, row-major; the fifth column is an offset in [0,1].
var colorMatrices = map[EffectType][]float64{
	EffectPolaroid: {
		1.438, -0.062, -0.062, 0, 0,
		-0.122, 1.378, -0.122, 0, 0,
		-0.016, -0.016, 1.483, 0, 0,
		0, 0, 0, 1, 0,
	},
	EffectBrownie: {
		0.5997, 0.34553, -0.27082, 0, 0.186,
		-0.0377, 0.86095, 0.15059, 0, -0.1449,
		0.24113, -0.07441, 0.44972, 0, -0.02965,
		0, 0, 0, 1, 0,
	},
	EffectVintage: {
		0.62793, 0.32021, -0.03965, 0, 0.03784,
		0.02578, 0.64411, 0.03259, 0, 0.02926,
		0.0466, -0.08512, 0.52416, 0, 0.02023,
		0, 0, 0, 1, 0,
	},
	EffectTechnicolor: {
		1.91252, -0.85453, -0.09155, 0, 0.04624,
		-0.30878, 1.76589, -0.10601, 0, -0.27589,
		-0.2311, -0.75018, 1.84759, 0, 0.12137,
		0, 0, 0, 1, 0,
	},
	EffectKodachrome: {
		1.12855, -0.39673, -0.03992, 0, 0.24991,
		-0.16404, 1.08352, -0.05498, 0, 0.09698,
		-0.16786, -0.56034, 1.60148, 0, 0.13972,
		0, 0, 0, 1, 0,
	},
	EffectBlackWhite: {
		1.5, 1.5, 1.5, 0, -1,
		1.5, 1.5, 1.5, 0, -1,
		1.5, 1.5, 1.5, 0, -1,
		0, 0, 0, 1, 0,
	},
}

// Apply runs the effect chain over src in order and returns the result.
// An empty chain returns src unchanged.
func Apply(src image.Image, chain []Effect) image.Image {
	out := src
	for _, e := range chain {
		out = applyOne(out, e)
	}
	return out
}

func applyOne(src image.Image, e Effect) image.Image {
	switch e.Type {
	case EffectSepia:
		return effect.Sepia(src)
	case EffectInvert:
		return effect.Invert(src)
	case EffectGrayscale:
		return effect.Grayscale(src)
	case EffectPixelate:
		return pixelate(src, e.BlockSize)
	case EffectConvolute:
		return convolve(src, e.Matrix)
	case EffectBlur:
		return blur.Gaussian(src, e.Blur*blurRadiusScale)
	case EffectContrast:
		return adjust.Contrast(src, e.Contrast)
	case EffectBrightness:
		return adjust.Brightness(src, e.Brightness)
	}
	if m, ok := colorMatrices[e.Type]; ok {
		return adjust.Apply(src, colorMatrix(m))
	}
	return src
}

func colorMatrix(m []float64) func(color.RGBA) color.RGBA {
	return func(c color.RGBA) color.RGBA {
		r, g, b, a := float64(c.R), float64(c.G), float64(c.B), float64(c.A)
		row := func(i int) uint8 {
			v := r*m[i] + g*m[i+1] + b*m[i+2] + a*m[i+3] + m[i+4]*255
			return clamp8(v)
		}
		return color.RGBA{R: row(0), G: row(5), B: row(10), A: row(15)}
	}
}

func convolve(src image.Image, values []float64) image.Image {
	size := int(math.Sqrt(float64(len(values))))
	if size*size != len(values) || size == 0 {
		return src
	}
	k := convolution.NewKernel(size, size)
	copy(k.Matrix, values)
	return convolution.Convolve(src, k, &convolution.Options{Bias: 0, Wrap: false, KeepAlpha: true})
}

func pixelate(src image.Image, block int) image.Image {
	if block <= 1 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	sw, sh := max(1, w/block), max(1, h/block)
	small := transform.Resize(src, sw, sh, transform.NearestNeighbor)
	return transform.Resize(small, w, h, transform.NearestNeighbor)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
