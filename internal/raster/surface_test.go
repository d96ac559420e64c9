package raster

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New(16, 12)
	s.FillRect(image.Rect(2, 2, 10, 8), Paint{Color: color.NRGBA{10, 200, 30, 128}, Width: 1, Alpha: 1})
	s.Plot(image.Pt(0, 0), Solid(red))
	snap := s.Snapshot()
	want := s.Clone()

	s.Fill(blue)
	if err := s.Restore(snap); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !s.Equal(want) {
		t.Fatalf("restored pixels differ from snapshot source")
	}
}

func TestRestoreRejectsGarbageAndWrongSize(t *testing.T) {
	s := New(4, 4)
	s.Fill(red)
	before := s.Clone()
	if err := s.Restore(Snapshot("not a png")); !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}
	other := New(5, 4)
	if err := s.Restore(other.Snapshot()); !errors.Is(err, ErrDecodeFailure) {
		t.Fatalf("expected size mismatch failure, got %v", err)
	}
	if !s.Equal(before) {
		t.Fatalf("failed restore modified the surface")
	}
}

func TestFloodFillTolerance(t *testing.T) {
	s := New(10, 10)
	s.Fill(white)
	// A wall down column 5 keeps the fill on the left half.
	s.StrokeSegment(image.Pt(5, 0), image.Pt(5, 9), Solid(color.NRGBA{0, 0, 0, 255}))
	// Within tolerance of white.
	s.Plot(image.Pt(1, 1), Solid(color.NRGBA{250, 250, 250, 255}))
	// Outside tolerance.
	s.Plot(image.Pt(2, 2), Solid(color.NRGBA{200, 200, 200, 255}))

	n, err := s.FloodFill(image.Pt(0, 0), color.NRGBA{0, 255, 0, 128}, DefaultTolerance)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if n != 5*10-1 {
		t.Fatalf("changed %d pixels, want %d", n, 49)
	}
	if got := s.NRGBAAt(1, 1); got != (color.NRGBA{0, 255, 0, 255}) {
		t.Fatalf("near-white pixel not filled opaque: %v", got)
	}
	if got := s.NRGBAAt(2, 2); got.R != 200 {
		t.Fatalf("pixel outside tolerance was filled: %v", got)
	}
	if got := s.NRGBAAt(7, 7); got != white {
		t.Fatalf("fill crossed the wall: %v", got)
	}
}

func TestFloodFillOutOfBounds(t *testing.T) {
	s := New(3, 3)
	if _, err := s.FloodFill(image.Pt(3, 0), red, 10); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if _, err := s.FloodFill(image.Pt(-1, 1), red, 10); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestFillPolygonNeedsThreePoints(t *testing.T) {
	s := New(8, 8)
	if err := s.FillPolygon([]image.Point{{0, 0}, {5, 5}}, Solid(red)); !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	if err := s.FillPolygon([]image.Point{{0, 0}, {8, 0}, {8, 8}, {0, 8}}, Solid(red)); err != nil {
		t.Fatalf("fill square: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if s.NRGBAAt(x, y) != red {
				t.Fatalf("pixel %d,%d not filled", x, y)
			}
		}
	}
}

func TestEraseRemovesAlpha(t *testing.T) {
	s := New(6, 6)
	s.Fill(red)
	s.StrokeSegment(image.Pt(0, 3), image.Pt(5, 3), Paint{Color: white, Width: 1, Alpha: 1, Mode: BlendErase})
	if a := s.NRGBAAt(2, 3).A; a != 0 {
		t.Fatalf("erased pixel alpha = %d", a)
	}
	if s.NRGBAAt(2, 2) != red {
		t.Fatalf("erase leaked outside stroke")
	}
}

func TestStrokeAlphaBlendsOnce(t *testing.T) {
	s := New(20, 5)
	s.Fill(white)
	// A wide polyline doubles back on itself; each pixel must blend once.
	p := Paint{Color: color.NRGBA{0, 0, 0, 255}, Width: 3, Alpha: 0.5}
	s.StrokePolyline([]image.Point{{2, 2}, {15, 2}, {4, 2}}, p)
	got := s.NRGBAAt(8, 2)
	if got.R < 126 || got.R > 129 {
		t.Fatalf("expected half grey, got %v", got)
	}
}

func TestBlendModes(t *testing.T) {
	mid := color.NRGBA{128, 128, 128, 255}
	cases := []struct {
		mode BlendMode
		want uint8
	}{
		{BlendMultiply, 64},
		{BlendScreen, 192},
		{BlendDarken, 100},
		{BlendLighten, 128},
		{BlendDifference, 28},
	}
	for _, c := range cases {
		s := New(1, 1)
		s.Fill(mid)
		src := New(1, 1)
		if c.mode == BlendDarken || c.mode == BlendLighten || c.mode == BlendDifference {
			src.Fill(color.NRGBA{100, 100, 100, 255})
		} else {
			src.Fill(mid)
		}
		s.DrawSurface(src, 1, c.mode)
		got := s.NRGBAAt(0, 0).R
		if d := int(got) - int(c.want); d < -1 || d > 1 {
			t.Errorf("%s: got %d want %d", c.mode, got, c.want)
		}
	}
}

func TestDrawSurfaceOpacity(t *testing.T) {
	dst := New(1, 1)
	dst.Fill(white)
	src := New(1, 1)
	src.Fill(color.NRGBA{0, 0, 0, 255})
	dst.DrawSurface(src, 0.5, BlendNormal)
	if got := dst.NRGBAAt(0, 0); got.R < 127 || got.R > 128 || got.A != 255 {
		t.Fatalf("unexpected half-opacity result %v", got)
	}
	dst.DrawSurface(src, 0, BlendNormal)
	if got := dst.NRGBAAt(0, 0); got.R < 127 || got.R > 128 {
		t.Fatalf("zero opacity changed the destination: %v", got)
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, m := range BlendModes() {
		got, err := ParseBlendMode(m.String())
		if err != nil || got != m {
			t.Fatalf("round trip %s: %v %v", m, got, err)
		}
	}
	if m, _ := ParseBlendMode("destination-out"); m != BlendErase {
		t.Fatalf("destination-out alias = %s", m)
	}
	if m, _ := ParseBlendMode("source-over"); m != BlendNormal {
		t.Fatalf("source-over alias = %s", m)
	}
	if _, err := ParseBlendMode("hue"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestGradientEnds(t *testing.T) {
	s := New(11, 1)
	s.FillGradientRect(image.Rect(0, 0, 11, 1), image.Pt(0, 0), image.Pt(11, 0), red, blue, Solid(red))
	left, right := s.NRGBAAt(0, 0), s.NRGBAAt(10, 0)
	if left.R < 240 || left.B > 15 {
		t.Fatalf("left end not red: %v", left)
	}
	if right.B < 240 || right.R > 15 {
		t.Fatalf("right end not blue: %v", right)
	}
}

func TestDrawTextMarksPixels(t *testing.T) {
	s := New(80, 30)
	if err := s.DrawText(image.Pt(2, 22), "Hi", 20, Solid(red)); err != nil {
		t.Fatalf("draw text: %v", err)
	}
	n := 0
	pix := s.Image().Pix
	for i := 3; i < len(pix); i += 4 {
		if pix[i] != 0 {
			n++
		}
	}
	if n == 0 {
		t.Fatalf("text drew nothing")
	}
}

func TestThumbnailSize(t *testing.T) {
	s := New(400, 300)
	th := s.Thumbnail(40, 30)
	if th.Bounds().Dx() != 40 || th.Bounds().Dy() != 30 {
		t.Fatalf("thumbnail size %v", th.Bounds())
	}
}
