// Package tesseract adapts the gosseract OCR client to the fontsnip
// TextReader interface.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"

	"github.com/fontsnip/fontsnip"
)

// Reader performs word-level text detection with a local Tesseract
// installation. A Reader owns one gosseract client, which is not safe for
// concurrent use; the pipeline runs one capture at a time, so a single
// Reader per Identifier suffices. Close must be called when done.
type Reader struct {
	client *gosseract.Client
}

// NewReader creates a Tesseract-backed reader. Languages default to
// Tesseract's own default (English) when none are given.
func NewReader(languages ...string) (*Reader, error) {
	client := gosseract.NewClient()
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set ocr languages: %w", err)
		}
	}
	return &Reader{client: client}, nil
}

// Close releases the underlying Tesseract client.
func (r *Reader) Close() error {
	return r.client.Close()
}

// ReadText runs word-level recognition on the preprocessed binary image.
// Bounding boxes are reported in the image's own coordinates; confidences
// are rescaled from Tesseract's 0-100 range to [0, 1].
func (r *Reader) ReadText(ctx context.Context, bin gocv.Mat) ([]fontsnip.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.PNGFileExt, bin)
	if err != nil {
		return nil, fmt.Errorf("encode capture: %w", err)
	}
	defer buf.Close()

	if err := r.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("set ocr image: %w", err)
	}
	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	dets := make([]fontsnip.Detection, 0, len(boxes))
	for _, box := range boxes {
		dets = append(dets, fontsnip.Detection{
			Box:        fontsnip.BoxFromRect(box.Box),
			Text:       box.Word,
			Confidence: box.Confidence / 100,
		})
	}
	return dets, nil
}

var _ fontsnip.TextReader = (*Reader)(nil)
