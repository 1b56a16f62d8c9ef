package catalog

// KernelShading selects the finite-difference kernel used by slope/aspect,
// per §4.8.
type KernelShading string

const (
	KernelHorn              KernelShading = "horn"
	KernelZevenbergenThorne KernelShading = "zevenbergen-thorne"
)

// SlopeUnit is the output unit for the Slope transform.
type SlopeUnit string

const (
	SlopeDegrees SlopeUnit = "degrees"
	SlopePercent SlopeUnit = "percent"
)

// PaletteStop is one entry of a palette's sorted stop table, per §4.8.
type PaletteStop struct {
	Key        float64
	R, G, B, A uint8
}

// PaletteTransform maps a value on the input channel to RGBA via a sorted
// stop table, per §4.8.
type PaletteTransform struct {
	Stops             []PaletteStop // sorted ascending by Key
	ContinuousRGB     bool
	ContinuousAlpha   bool
	NoAlpha           bool // suppress alpha output: 4 channels become 3
}

// HillshadeTransform computes Lambertian illumination from a single-channel
// elevation input, per §4.8.
type HillshadeTransform struct {
	AzimuthDeg float64       // degrees from north, clockwise
	ZenithDeg  float64       // degrees from vertical
	ZFactor    float64       // vertical exaggeration
	Kernel     KernelShading // finite-difference scheme for the gradient estimate
}

// SlopeTransform computes surface gradient magnitude, per §4.8.
type SlopeTransform struct {
	Kernel   KernelShading
	Unit     SlopeUnit
	MaxSlope float64
}

// AspectTransform computes gradient direction, per §4.8.
type AspectTransform struct {
	Kernel    KernelShading
	MinSlope  float64 // pixels below this slope are marked nodata
}

// Transform is the sum type of the four pixel transforms a Style may chain.
// Exactly one of the fields is non-nil.
type Transform struct {
	Palette   *PaletteTransform
	Hillshade *HillshadeTransform
	Slope     *SlopeTransform
	Aspect    *AspectTransform
}

// StyleDef is a stable identifier plus an ordered list of pixel transforms,
// per §3. Styles are pure values shared by reference across Layers.
type StyleDef struct {
	ID           string
	Transforms   []Transform // applied in order: the style pipeline itself
	OutputChannels int       // fixed once built, validated by style.Apply (§4.8)
	LegendURLs   []string
	LegendTitles []string
}

// IsIdentity reports whether the style has no transforms (the default style
// referenced by S1 in §8).
func (s *StyleDef) IsIdentity() bool {
	return s == nil || len(s.Transforms) == 0
}
