package fontsnip

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"gocv.io/x/gocv"
	"golang.org/x/image/font"
)

// DefaultCharacterSet is the reference alphabet rendered per font when
// building the fingerprint database.
const DefaultCharacterSet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	// builderFontSize is the point size reference glyphs are rendered at,
	// roughly matching the resolution of an upscaled capture.
	builderFontSize = 48

	// builderCanvas is the square canvas each glyph is rendered on.
	builderCanvas = 64

	// builderThreshold binarizes the anti-aliased render into {0, 255}.
	builderThreshold = 128
)

// BuildDatabase renders the reference alphabet for every font file,
// extracts features with the same ExtractFeatures the matcher uses, and
// averages them into one fingerprint per font. Fonts that cannot be parsed
// or yield no usable glyphs are skipped with a log line. Entries keep the
// input path order, so passing sorted paths makes rebuilds reproducible.
func BuildDatabase(fontPaths []string, logger *slog.Logger) (*FontDatabase, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries := make([]FontEntry, 0, len(fontPaths))
	for _, path := range fontPaths {
		vector, glyphs, err := fontFingerprint(path)
		if err != nil {
			logger.Warn("skipping font", "font", path, "err", err)
			continue
		}
		logger.Info("fingerprinted font", "font", path, "glyphs", glyphs)
		entries = append(entries, FontEntry{ID: path, Vector: vector})
	}
	if len(entries) == 0 {
		return nil, errors.New("no fonts could be fingerprinted")
	}
	return NewDatabase(entries)
}

// fontFingerprint computes the mean feature vector over the reference
// alphabet for one font file, returning how many glyphs contributed.
func fontFingerprint(path string) (FeatureVector, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read font: %w", err)
	}
	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, 0, fmt.Errorf("parse font: %w", err)
	}

	sum := make([]float64, FeatureVectorSize)
	count := 0
	for _, r := range DefaultCharacterSet {
		glyph, ok := renderGlyph(ttf, r)
		if !ok {
			continue
		}
		vector := ExtractFeatures(glyph)
		glyph.Close()
		if vector.IsZero() {
			continue
		}
		for i, c := range vector {
			sum[i] += float64(c)
		}
		count++
	}
	if count == 0 {
		return nil, 0, errors.New("no usable glyphs")
	}

	mean := make(FeatureVector, FeatureVectorSize)
	for i, s := range sum {
		mean[i] = float32(s / float64(count))
	}
	return mean, count, nil
}

// renderGlyph rasterizes one character as white-on-black, centered on the
// canvas via its glyph bounds, binarized to {0, 255}. The second return is
// false when the font cannot produce a usable bitmap for the rune.
func renderGlyph(ttf *truetype.Font, r rune) (gocv.Mat, bool) {
	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    builderFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	bounds, _, ok := face.GlyphBounds(r)
	if !ok {
		return gocv.Mat{}, false
	}
	glyphW := (bounds.Max.X - bounds.Min.X).Ceil()
	glyphH := (bounds.Max.Y - bounds.Min.Y).Ceil()
	if glyphW <= 0 || glyphH <= 0 {
		return gocv.Mat{}, false
	}

	img := image.NewGray(image.Rect(0, 0, builderCanvas, builderCanvas))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(builderFontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingFull)

	// Place the pen so the glyph's bounding box lands centered on the
	// canvas. Bounds are relative to the baseline origin in 26.6 fixed
	// point; Min.Y is negative above the baseline.
	penX := (builderCanvas-glyphW)/2 - bounds.Min.X.Floor()
	penY := (builderCanvas-glyphH)/2 - bounds.Min.Y.Floor()
	if _, err := ctx.DrawString(string(r), freetype.Pt(penX, penY)); err != nil {
		return gocv.Mat{}, false
	}

	for i, v := range img.Pix {
		if v >= builderThreshold {
			img.Pix[i] = 255
		} else {
			img.Pix[i] = 0
		}
	}

	mat, err := gocv.ImageGrayToMatGray(img)
	if err != nil {
		return gocv.Mat{}, false
	}
	return mat, true
}
