package pixel

import (
	"math"
	"testing"
)

func near(a, b Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps &&
		math.Abs(a.B-b.B) < eps && math.Abs(a.A-b.A) < eps
}

func TestBlend(t *testing.T) {
	half := RGBA(1, 0, 0, 0.5)
	tests := []struct {
		name    string
		blender Blender
		src     Color
		dst     Color
		want    Color
	}{
		{"copy", CopyBlender, half, Blue, half},
		{"alpha opaque", AlphaBlender, Red, Blue, Red},
		{"alpha transparent", AlphaBlender, Transparent, Blue, Blue},
		{"alpha half", AlphaBlender, half, Blue, RGBA(0.5, 0, 0.5, 0.75)},
		{
			"tinted",
			Blender{Src: BlendAlpha, Dst: BlendInverseAlpha, Tint: RGBA(1, 1, 1, 0.5)},
			Red, Blue,
			RGBA(0.5, 0, 0.5, 0.75),
		},
		{"additive", Blender{Src: BlendOne, Dst: BlendOne, Tint: White}, Red, Blue, RGBA(1, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.blender.Blend(tt.src, tt.dst); !near(got, tt.want) {
				t.Errorf("Blend() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBlenderKinds(t *testing.T) {
	if !CopyBlender.IsCopy() {
		t.Error("CopyBlender.IsCopy() = false")
	}
	if AlphaBlender.IsCopy() {
		t.Error("AlphaBlender.IsCopy() = true")
	}
	if !AlphaBlender.IsSourceOver() {
		t.Error("AlphaBlender.IsSourceOver() = false")
	}
	fade := AlphaBlender
	fade.Tint = RGBA(1, 1, 1, 0.1)
	if !fade.IsSourceOver() {
		t.Error("alpha-tinted blender should still be source-over")
	}
	red := AlphaBlender
	red.Tint = Red
	if red.IsSourceOver() {
		t.Error("color-tinted blender should not be source-over")
	}
}
