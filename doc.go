// Package fontsnip identifies which font was used to render a short piece
// of on-screen text. A captured bitmap is normalized into a clean binary
// image, an OCR collaborator locates the glyphs, and each glyph is reduced
// to a 7-component geometric fingerprint. The mean fingerprint of the
// capture is then ranked against a precomputed per-font database by cosine
// similarity.
//
// The database is produced offline by BuildDatabase, which renders a fixed
// reference alphabet for every font with the same feature extractor the
// matcher uses. Both sides share the FeatureVector layout, so the two must
// always be built from the same version of this package.
package fontsnip
