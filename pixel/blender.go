package pixel

// BlendFactor scales one side of a blend equation.
type BlendFactor uint8

const (
	// BlendZero multiplies by 0.
	BlendZero BlendFactor = iota

	// BlendOne multiplies by 1.
	BlendOne

	// BlendAlpha multiplies by the (tinted) source alpha.
	BlendAlpha

	// BlendInverseAlpha multiplies by 1 - (tinted) source alpha.
	BlendInverseAlpha
)

// String returns a string representation of the blend factor.
func (f BlendFactor) String() string {
	switch f {
	case BlendZero:
		return "Zero"
	case BlendOne:
		return "One"
	case BlendAlpha:
		return "Alpha"
	case BlendInverseAlpha:
		return "InverseAlpha"
	default:
		return "Unknown"
	}
}

// Blender describes how drawn pixels combine with the destination:
//
//	s   = src * Tint
//	out = s * Src(s) + dst * Dst(s)
//
// applied to all four channels and clamped to [0, 1].
type Blender struct {
	Src  BlendFactor
	Dst  BlendFactor
	Tint Color
}

// Predefined blenders.
var (
	// AlphaBlender is the default source-over blender.
	AlphaBlender = Blender{Src: BlendAlpha, Dst: BlendInverseAlpha, Tint: White}

	// CopyBlender replaces destination pixels with source pixels.
	CopyBlender = Blender{Src: BlendOne, Dst: BlendZero, Tint: White}
)

// IsCopy reports whether the blender writes source pixels unchanged.
func (b Blender) IsCopy() bool {
	return b.Src == BlendOne && b.Dst == BlendZero && b.Tint == White
}

// IsSourceOver reports whether the blender is a source-over composite
// whose tint only scales alpha.
func (b Blender) IsSourceOver() bool {
	return b.Src == BlendAlpha && b.Dst == BlendInverseAlpha &&
		b.Tint.R == 1 && b.Tint.G == 1 && b.Tint.B == 1
}

// Blend combines a source color with a destination color.
func (b Blender) Blend(src, dst Color) Color {
	s := src.Mul(b.Tint)
	sf := factor(b.Src, s.A)
	df := factor(b.Dst, s.A)
	return Color{
		R: clamp01(s.R*sf + dst.R*df),
		G: clamp01(s.G*sf + dst.G*df),
		B: clamp01(s.B*sf + dst.B*df),
		A: clamp01(s.A*sf + dst.A*df),
	}
}

func factor(f BlendFactor, alpha float64) float64 {
	switch f {
	case BlendOne:
		return 1
	case BlendAlpha:
		return alpha
	case BlendInverseAlpha:
		return 1 - alpha
	default:
		return 0
	}
}
