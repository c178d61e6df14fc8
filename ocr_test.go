package fontsnip

import (
	"image"
	"testing"

	"gocv.io/x/gocv"
)

func TestFilterDetections(t *testing.T) {
	dets := []Detection{
		{Text: "low", Confidence: 0.30},
		{Text: "at-threshold", Confidence: 0.60},
		{Text: "high", Confidence: 0.95},
	}

	kept := FilterDetections(dets, 0.60)
	if len(kept) != 2 {
		t.Fatalf("kept %d detections, want 2", len(kept))
	}
	// Order preserved; the exactly-at-threshold detection is kept.
	if kept[0].Text != "at-threshold" || kept[1].Text != "high" {
		t.Errorf("unexpected detections kept: %v", kept)
	}

	if kept := FilterDetections(nil, 0.60); len(kept) != 0 {
		t.Errorf("expected no detections from empty input, got %v", kept)
	}
}

func TestBoxFromRect(t *testing.T) {
	box := BoxFromRect(image.Rect(2, 3, 10, 8))
	want := [4]image.Point{{2, 3}, {10, 3}, {10, 8}, {2, 8}}
	if box != want {
		t.Errorf("BoxFromRect = %v, want %v", box, want)
	}
}

func TestCropGlyph(t *testing.T) {
	bin := newBinaryMat(20, 30)
	defer bin.Close()
	fillRect(bin, image.Rect(5, 5, 15, 15), 255)

	glyph := CropGlyph(bin, BoxFromRect(image.Rect(5, 5, 15, 15)))
	defer glyph.Close()
	if glyph.Rows() != 10 || glyph.Cols() != 10 {
		t.Fatalf("crop is %dx%d, want 10x10", glyph.Rows(), glyph.Cols())
	}
	if gocv.CountNonZero(glyph) != 100 {
		t.Errorf("crop has %d foreground pixels, want 100", gocv.CountNonZero(glyph))
	}

	// The crop is a copy: painting it must not touch the source.
	glyph.SetUCharAt(0, 0, 0)
	if bin.GetUCharAt(5, 5) != 255 {
		t.Error("mutating the crop altered the source image")
	}
}

func TestCropGlyphClamping(t *testing.T) {
	bin := newBinaryMat(10, 10)
	defer bin.Close()
	fillRect(bin, image.Rect(0, 0, 10, 10), 255)

	// Polygon partially outside the image clamps to the border.
	glyph := CropGlyph(bin, BoxFromRect(image.Rect(-5, -5, 5, 5)))
	defer glyph.Close()
	if glyph.Rows() != 5 || glyph.Cols() != 5 {
		t.Errorf("clamped crop is %dx%d, want 5x5", glyph.Rows(), glyph.Cols())
	}

	// Polygon entirely outside yields an empty crop.
	outside := CropGlyph(bin, BoxFromRect(image.Rect(50, 50, 60, 60)))
	defer outside.Close()
	if !outside.Empty() {
		t.Error("expected empty crop for out-of-image polygon")
	}
}
