package fontsnip

import (
	"gocv.io/x/gocv"
)

// FeatureVectorSize is the number of components in a glyph feature vector.
// The layout is a wire contract shared with the offline database builder:
//
//	0: aspect ratio (width / height)
//	1: pixel density (foreground pixels / total pixels)
//	2: normalized centroid x
//	3: normalized centroid y
//	4: hole count
//	5: normalized total contour perimeter
//	6: normalized total contour area
const FeatureVectorSize = 7

// FeatureVector is the numeric fingerprint of a glyph or of a whole font.
// Every component except the hole count is dimensionless, normalized by the
// glyph's own width, height, or area. The all-zero vector is a reserved
// sentinel meaning extraction produced no usable signal.
type FeatureVector []float32

// ZeroVector returns the no-signal sentinel.
func ZeroVector() FeatureVector {
	return make(FeatureVector, FeatureVectorSize)
}

// IsZero reports whether the vector is the no-signal sentinel. Callers
// should exclude sentinel vectors before aggregating a capture.
func (v FeatureVector) IsZero() bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// ExtractFeatures computes the feature vector for a single glyph bitmap.
// The input must be a single-channel image with values in {0, 255}, the
// glyph in white on a black background, as produced by Preprocessor and
// CropGlyph. A zero-area or blank bitmap yields the zero-vector sentinel;
// extraction itself never fails.
func ExtractFeatures(glyph gocv.Mat) FeatureVector {
	if glyph.Empty() {
		return ZeroVector()
	}
	height, width := glyph.Rows(), glyph.Cols()
	if height == 0 || width == 0 {
		return ZeroVector()
	}
	foreground := gocv.CountNonZero(glyph)
	if foreground == 0 {
		return ZeroVector()
	}

	totalPixels := float64(height * width)
	aspectRatio := float64(width) / float64(height)
	pixelDensity := float64(foreground) / totalPixels

	// Centroid from first-order spatial moments. Zero total mass cannot
	// happen here (foreground > 0), but the guard keeps the geometric-center
	// fallback explicit.
	centroidX, centroidY := 0.5, 0.5
	moments := gocv.Moments(glyph, false)
	if m00 := moments["m00"]; m00 != 0 {
		centroidX = moments["m10"] / m00 / float64(width)
		centroidY = moments["m01"] / m00 / float64(height)
	}

	// Two-level contour hierarchy: top level are outer boundaries, second
	// level are holes nested inside them.
	hierarchy := gocv.NewMat()
	defer hierarchy.Close()
	contours := gocv.FindContoursWithParams(
		glyph, &hierarchy, gocv.RetrievalCComp, gocv.ChainApproxSimple)
	defer contours.Close()

	holes := 0
	var totalPerimeter, totalArea float64
	for i := 0; i < contours.Size(); i++ {
		// Hierarchy entry layout: [next, previous, first child, parent].
		// A contour with a parent is a hole.
		if hierarchy.GetVeciAt(0, i)[3] != -1 {
			holes++
		}
		contour := contours.At(i)
		totalPerimeter += gocv.ArcLength(contour, true)
		// ContourArea is unsigned; outer boundaries and holes are summed
		// uniformly. The database builder relies on the same convention.
		totalArea += gocv.ContourArea(contour)
	}

	perimeterNorm := 0.0
	if height+width > 0 {
		perimeterNorm = totalPerimeter / float64(height+width)
	}
	areaNorm := totalArea / totalPixels

	return FeatureVector{
		float32(aspectRatio),
		float32(pixelDensity),
		float32(centroidX),
		float32(centroidY),
		float32(holes),
		float32(perimeterNorm),
		float32(areaNorm),
	}
}
