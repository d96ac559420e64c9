package render

import (
	"image"
	"image/color"
	"testing"
)

func TestApplyShadowExpandsBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.NRGBA{R: 255, A: 255})

	opts := ShadowOptions{Radius: 4, Offset: image.Pt(8, 6), Opacity: 0.5}
	out := ApplyShadow(img, opts)
	if out == nil {
		t.Fatal("expected output image")
	}
	expected := image.Rect(0, 0, 22, 20)
	if !out.Bounds().Eq(expected) {
		t.Fatalf("unexpected bounds %v, want %v", out.Bounds(), expected)
	}
	shadowPt := image.Pt(5, 5).Add(opts.Offset)
	if out.NRGBAAt(shadowPt.X, shadowPt.Y).A == 0 {
		t.Fatalf("expected shadow alpha at %v", shadowPt)
	}
}

func TestApplyShadowNoShadowWhenOpacityZero(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	fill := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, fill)
		}
	}
	out := ApplyShadow(img, ShadowOptions{Radius: 12, Offset: image.Pt(20, 10), Opacity: 0})
	if !out.Bounds().Eq(img.Bounds()) {
		t.Fatalf("bounds changed unexpectedly: %v vs %v", out.Bounds(), img.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.NRGBAAt(x, y); got != fill {
				t.Fatalf("pixel mismatch at (%d,%d): got %+v want %+v", x, y, got, fill)
			}
		}
	}
}

func TestApplyShadowMargin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{A: 255})
	out := ApplyShadow(img, ShadowOptions{Margin: 3})
	if !out.Bounds().Eq(image.Rect(0, 0, 8, 8)) {
		t.Fatalf("margin bounds %v", out.Bounds())
	}
	if out.NRGBAAt(3, 3).A != 255 || out.NRGBAAt(0, 0).A != 0 {
		t.Fatalf("content not placed inside the margin")
	}
}

func TestApplyShadowBlurredAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{A: 255})
	opts := ShadowOptions{Radius: 2, Offset: image.Pt(3, 0), Opacity: 1}

	out := ApplyShadow(img, opts)
	if out.Bounds().Dx() <= img.Bounds().Dx() {
		t.Fatalf("expected wider output bounds")
	}
	base := opts.Offset
	baseAlpha := out.NRGBAAt(base.X, base.Y).A
	if baseAlpha == 0 {
		t.Fatal("expected alpha at base shadow location")
	}
	if out.NRGBAAt(base.X+1, base.Y).A == 0 {
		t.Fatalf("expected blurred alpha to reach neighbor, base alpha=%d", baseAlpha)
	}
}
