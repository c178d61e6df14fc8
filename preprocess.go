package fontsnip

import (
	"image"

	"gocv.io/x/gocv"
)

// Preprocessor normalizes a raw captured bitmap into a binary image
// suitable for text detection and feature extraction. Captured text is
// often small and anti-aliased, so the image is upscaled with cubic
// interpolation before thresholding.
type Preprocessor struct {
	upscaleFactor int
	blockSize     int
	bias          float32
	denoise       bool
}

// Denoising parameters, matching the OpenCV defaults for text-sized noise.
const (
	denoiseStrength     = 10
	denoiseTemplateSize = 7
	denoiseSearchSize   = 21
)

// NewPreprocessor builds a preprocessor from validated configuration.
func NewPreprocessor(cfg Config) *Preprocessor {
	return &Preprocessor{
		upscaleFactor: cfg.UpscaleFactor,
		blockSize:     cfg.AdaptiveBlockSize,
		bias:          float32(cfg.AdaptiveC),
		denoise:       cfg.EnableDenoising,
	}
}

// Process turns a 3-channel BGR capture into a single-channel binary image
// with values in {0, 255} and text as 255, regardless of whether the
// source was dark-on-light or light-on-dark. Dimensions are the input
// dimensions times the upscale factor. A zero-area input yields an empty
// Mat; otherwise Process never fails. The caller owns the returned Mat
// and must Close it.
func (p *Preprocessor) Process(raw gocv.Mat) gocv.Mat {
	if raw.Empty() || raw.Rows() == 0 || raw.Cols() == 0 {
		return gocv.NewMat()
	}

	upscaled := gocv.NewMat()
	defer upscaled.Close()
	size := image.Pt(raw.Cols()*p.upscaleFactor, raw.Rows()*p.upscaleFactor)
	gocv.Resize(raw, &upscaled, size, 0, 0, gocv.InterpolationCubic)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(upscaled, &gray, gocv.ColorBGRToGray)

	if p.denoise {
		denoised := gocv.NewMat()
		gocv.FastNlMeansDenoisingWithParams(gray, &denoised,
			denoiseStrength, denoiseTemplateSize, denoiseSearchSize)
		denoised.CopyTo(&gray)
		denoised.Close()
	}

	// Local thresholding copes with uneven backgrounds far better than a
	// global cutoff. Inverted so dark-on-light text comes out white.
	binary := gocv.NewMat()
	gocv.AdaptiveThreshold(gray, &binary, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinaryInv,
		p.blockSize, p.bias)

	// Text never fills the majority of a capture. A majority foreground
	// means the source polarity was reversed, so flip it.
	if gocv.CountNonZero(binary)*2 > binary.Rows()*binary.Cols() {
		gocv.BitwiseNot(binary, &binary)
	}

	return binary
}
