package fontsnip

import (
	"context"
	"image"

	"gocv.io/x/gocv"
)

// Detection is one text region reported by the OCR collaborator, in
// preprocessed-image coordinates. Confidence is in [0, 1].
type Detection struct {
	Box        [4]image.Point
	Text       string
	Confidence float64
}

// TextReader is the boundary to the external OCR engine. Implementations
// receive the preprocessed binary image and return detections in reading
// order. The tesseract subpackage provides the standard implementation.
type TextReader interface {
	ReadText(ctx context.Context, bin gocv.Mat) ([]Detection, error)
}

// FilterDetections keeps detections whose confidence is at or above
// minConfidence, preserving order.
func FilterDetections(dets []Detection, minConfidence float64) []Detection {
	kept := make([]Detection, 0, len(dets))
	for _, det := range dets {
		if det.Confidence >= minConfidence {
			kept = append(kept, det)
		}
	}
	return kept
}

// BoxFromRect converts an axis-aligned rectangle into the 4-point polygon
// form used by Detection, clockwise from the top-left corner.
func BoxFromRect(r image.Rectangle) [4]image.Point {
	return [4]image.Point{
		{r.Min.X, r.Min.Y},
		{r.Max.X, r.Min.Y},
		{r.Max.X, r.Max.Y},
		{r.Min.X, r.Max.Y},
	}
}

// CropGlyph extracts the axis-aligned bounding rectangle of a detection
// polygon from the binary image. The rectangle is clamped to the image; a
// degenerate result yields an empty Mat. The returned Mat is a copy, never
// a view, so the source image stays immutable. The caller must Close it.
func CropGlyph(bin gocv.Mat, box [4]image.Point) gocv.Mat {
	if bin.Empty() {
		return gocv.NewMat()
	}

	minX, minY := box[0].X, box[0].Y
	maxX, maxY := box[0].X, box[0].Y
	for _, pt := range box[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > bin.Cols() {
		maxX = bin.Cols()
	}
	if maxY > bin.Rows() {
		maxY = bin.Rows()
	}
	if minX >= maxX || minY >= maxY {
		return gocv.NewMat()
	}

	region := bin.Region(image.Rect(minX, minY, maxX, maxY))
	defer region.Close()
	return region.Clone()
}
