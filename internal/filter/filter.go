// Package filter maps the editor's named image filters onto effect chains
// and rasterises those chains onto decoded images.
package filter

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var ErrUnknown = errors.New("unknown filter")

// Kind is the closed set of filters offered by the filter panel.
type Kind string

const (
	None        Kind = "none"
	Polaroid    Kind = "polaroid"
	Sepia       Kind = "sepia"
	Brownie     Kind = "brownie"
	Vintage     Kind = "vintage"
	Technicolor Kind = "technicolor"
	Pixelate    Kind = "pixelate"
	Invert      Kind = "invert"
	Grayscale   Kind = "grayscale"
	Kodachrome  Kind = "kodachrome"
	BlackWhite  Kind = "blackwhite"
	Sharpen     Kind = "sharpen"
	Emboss      Kind = "emboss"
	Blur        Kind = "blur"
	Contrast    Kind = "contrast"
	Brightness  Kind = "brightness"
)

// EffectType names a concrete image-processing effect stored on an image object.
type EffectType string

const (
	EffectPolaroid    EffectType = "Polaroid"
	EffectSepia       EffectType = "Sepia"
	EffectBrownie     EffectType = "Brownie"
	EffectVintage     EffectType = "Vintage"
	EffectTechnicolor EffectType = "Technicolor"
	EffectPixelate    EffectType = "Pixelate"
	EffectInvert      EffectType = "Invert"
	EffectGrayscale   EffectType = "Grayscale"
	EffectKodachrome  EffectType = "Kodachrome"
	EffectBlackWhite  EffectType = "BlackWhite"
	EffectConvolute   EffectType = "Convolute"
	EffectBlur        EffectType = "Blur"
	EffectContrast    EffectType = "Contrast"
	EffectBrightness  EffectType = "Brightness"
)

// Effect is one entry of an image object's effect chain. Only the fields
// relevant to Type are set.
type Effect struct {
	Type       EffectType `json:"type"`
	Matrix     []float64  `json:"matrix,omitempty"`
	BlockSize  int        `json:"blocksize,omitempty"`
	Blur       float64    `json:"blur,omitempty"`
	Contrast   float64    `json:"contrast,omitempty"`
	Brightness float64    `json:"brightness,omitempty"`
}

const defaultBlockSize = 4

var (
	SharpenKernel = []float64{0, -1, 0, -1, 5, -1, 0, -1, 0}
	EmbossKernel  = []float64{1, 1, 1, 1, 0.7, -1, -1, -1, -1}
)

const (
	BlurValue       = 0.4
	ContrastValue   = 0.3
	BrightnessValue = 0.8
)

var kinds = map[Kind]func() []Effect{
	None:        func() []Effect { return []Effect{} },
	Polaroid:    func() []Effect { return []Effect{{Type: EffectPolaroid}} },
	Sepia:       func() []Effect { return []Effect{{Type: EffectSepia}} },
	Brownie:     func() []Effect { return []Effect{{Type: EffectBrownie}} },
	Vintage:     func() []Effect { return []Effect{{Type: EffectVintage}} },
	Technicolor: func() []Effect { return []Effect{{Type: EffectTechnicolor}} },
	Pixelate:    func() []Effect { return []Effect{{Type: EffectPixelate, BlockSize: defaultBlockSize}} },
	Invert:      func() []Effect { return []Effect{{Type: EffectInvert}} },
	Grayscale:   func() []Effect { return []Effect{{Type: EffectGrayscale}} },
	Kodachrome:  func() []Effect { return []Effect{{Type: EffectKodachrome}} },
	BlackWhite:  func() []Effect { return []Effect{{Type: EffectBlackWhite}} },
	Sharpen:     func() []Effect { return []Effect{{Type: EffectConvolute, Matrix: clone(SharpenKernel)}} },
	Emboss:      func() []Effect { return []Effect{{Type: EffectConvolute, Matrix: clone(EmbossKernel)}} },
	Blur:        func() []Effect { return []Effect{{Type: EffectBlur, Blur: BlurValue}} },
	Contrast:    func() []Effect { return []Effect{{Type: EffectContrast, Contrast: ContrastValue}} },
	Brightness:  func() []Effect { return []Effect{{Type: EffectBrightness, Brightness: BrightnessValue}} },
}

// Parse resolves a filter name as sent by the filter panel. "default" is
// accepted as an alias of "none". Unknown names are rejected rather than
// silently mapped to the identity effect.
func Parse(name string) (Kind, error) {
	if name == "default" {
		return None, nil
	}
	k := Kind(name)
	if _, ok := kinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return k, nil
}

// Effects returns the effect chain for k. The chain is never composed: it is
// empty for None and holds exactly one effect otherwise.
func (k Kind) Effects() []Effect {
	build, ok := kinds[k]
	if !ok {
		return []Effect{}
	}
	return build()
}

// KindOf reports which filter produced chain. Chains built elsewhere match
// nothing and report None.
func KindOf(chain []Effect) Kind {
	if len(chain) == 0 {
		return None
	}
	for k, build := range kinds {
		if reflect.DeepEqual(build(), chain) {
			return k
		}
	}
	return None
}

func (k Kind) String() string { return string(k) }

// Kinds lists every filter in a stable order, for the filter panel.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
