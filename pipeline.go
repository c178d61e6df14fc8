package fontsnip

import (
	"context"
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

// Identifier runs the capture-to-ranking pipeline: preprocess, detect text,
// extract per-glyph features, aggregate, match. All collaborators are
// injected; the Identifier holds no global state and a single instance may
// serve many sequential captures. The pipeline is synchronous with no
// internal goroutines; the caller is responsible for running at most one
// capture at a time.
type Identifier struct {
	pre    *Preprocessor
	reader TextReader
	db     *FontDatabase
	cfg    Config
	log    *slog.Logger
}

// NewIdentifier wires the pipeline. The configuration is validated here, so
// consumers constructing a Config by hand fail with an error instead of a
// native OpenCV assertion deep inside the preprocessor. A nil logger falls
// back to slog.Default().
func NewIdentifier(db *FontDatabase, reader TextReader, cfg Config, logger *slog.Logger) (*Identifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Identifier{
		pre:    NewPreprocessor(cfg),
		reader: reader,
		db:     db,
		cfg:    cfg,
		log:    logger,
	}, nil
}

// Identify produces a ranked list of at most cfg.TopN font candidates for
// one capture. Degraded outcomes (no detections, no usable glyph features,
// empty database) collapse to an empty result with a nil error, so callers
// can treat every empty list uniformly as "nothing found". OCR transport
// failures and ErrDimensionMismatch are returned as errors.
func (id *Identifier) Identify(ctx context.Context, raw gocv.Mat) ([]MatchResult, error) {
	bin := id.pre.Process(raw)
	defer bin.Close()
	if bin.Empty() {
		id.log.Debug("capture has zero area, nothing to identify")
		return nil, nil
	}

	dets, err := id.reader.ReadText(ctx, bin)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	total := len(dets)
	dets = FilterDetections(dets, id.cfg.ConfidenceThreshold)
	if len(dets) == 0 {
		id.log.Info("no confident text detections",
			"detections", total, "threshold", id.cfg.ConfidenceThreshold)
		return nil, nil
	}

	vectors := make([]FeatureVector, 0, len(dets))
	for _, det := range dets {
		glyph := CropGlyph(bin, det.Box)
		vec := ExtractFeatures(glyph)
		glyph.Close()
		// Sentinel vectors carry no signal and would drag the mean toward
		// the origin, so they are dropped before aggregation.
		if vec.IsZero() {
			continue
		}
		vectors = append(vectors, vec)
	}

	target := Aggregate(vectors)
	if target == nil {
		id.log.Info("no usable glyph features", "detections", len(dets))
		return nil, nil
	}

	results, err := Match(target, id.db, id.cfg.TopN)
	if err != nil {
		return nil, err
	}
	id.log.Debug("capture matched",
		"glyphs", len(vectors), "candidates", len(results))
	return results, nil
}
