package fontsnip

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/freetype"
	"golang.org/x/image/font/gofont/goregular"
)

func writeFontFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildDatabaseFingerprintsFonts(t *testing.T) {
	dir := t.TempDir()
	// Deliberately not in sorted order, to show entries track the input.
	paths := []string{
		writeFontFile(t, dir, "beta.ttf", goregular.TTF),
		writeFontFile(t, dir, "alpha.ttf", goregular.TTF),
	}

	db, err := BuildDatabase(paths, quietLogger())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}
	if db.Len() != len(paths) {
		t.Fatalf("Len() = %d, want %d", db.Len(), len(paths))
	}
	if db.Dimension() != FeatureVectorSize {
		t.Errorf("Dimension() = %d, want %d", db.Dimension(), FeatureVectorSize)
	}
	for i, path := range paths {
		entry := db.Entry(i)
		if entry.ID != path {
			t.Errorf("Entry(%d).ID = %q, want %q", i, entry.ID, path)
		}
		if entry.Vector.IsZero() {
			t.Errorf("fingerprint for %s is the no-signal sentinel", path)
		}
	}
}

func TestBuildDatabaseSkipsUnparseableFont(t *testing.T) {
	dir := t.TempDir()
	broken := writeFontFile(t, dir, "broken.ttf", []byte("not a font at all"))
	good := writeFontFile(t, dir, "good.ttf", goregular.TTF)

	db, err := BuildDatabase([]string{broken, good}, quietLogger())
	if err != nil {
		t.Fatalf("BuildDatabase: %v", err)
	}
	if db.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", db.Len())
	}
	if db.Entry(0).ID != good {
		t.Errorf("Entry(0).ID = %q, want %q", db.Entry(0).ID, good)
	}
}

func TestBuildDatabaseNoUsableFonts(t *testing.T) {
	dir := t.TempDir()
	broken := writeFontFile(t, dir, "broken.ttf", []byte{0x00, 0x01, 0x02})
	missing := filepath.Join(dir, "missing.ttf")

	if _, err := BuildDatabase([]string{broken, missing}, quietLogger()); err == nil {
		t.Fatal("expected an error when no font yields a fingerprint")
	}
}

func TestFontFingerprintDeterministic(t *testing.T) {
	path := writeFontFile(t, t.TempDir(), "regular.ttf", goregular.TTF)

	first, firstGlyphs, err := fontFingerprint(path)
	if err != nil {
		t.Fatalf("fontFingerprint: %v", err)
	}
	second, secondGlyphs, err := fontFingerprint(path)
	if err != nil {
		t.Fatalf("fontFingerprint: %v", err)
	}
	if firstGlyphs != secondGlyphs {
		t.Errorf("glyph counts differ: %d vs %d", firstGlyphs, secondGlyphs)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("component %d differs: %g vs %g", i, first[i], second[i])
		}
	}
}

func TestFontFingerprintComponents(t *testing.T) {
	path := writeFontFile(t, t.TempDir(), "regular.ttf", goregular.TTF)

	vec, glyphs, err := fontFingerprint(path)
	if err != nil {
		t.Fatalf("fontFingerprint: %v", err)
	}
	if glyphs == 0 {
		t.Fatal("expected at least one contributing glyph")
	}
	if len(vec) != FeatureVectorSize {
		t.Fatalf("len(vec) = %d, want %d", len(vec), FeatureVectorSize)
	}
	if vec[0] <= 0 {
		t.Errorf("aspect ratio = %g, want > 0", vec[0])
	}
	if vec[1] <= 0 || vec[1] >= 1 {
		t.Errorf("pixel density = %g, want in (0, 1)", vec[1])
	}
	for i, name := range []string{"centroid x", "centroid y"} {
		if c := vec[2+i]; c <= 0 || c >= 1 {
			t.Errorf("%s = %g, want in (0, 1)", name, c)
		}
	}
	if vec[5] <= 0 {
		t.Errorf("perimeter = %g, want > 0", vec[5])
	}
	if vec[6] <= 0 || vec[6] > 1 {
		t.Errorf("area = %g, want in (0, 1]", vec[6])
	}
}

func TestRenderGlyphBinaryCanvas(t *testing.T) {
	ttf, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont: %v", err)
	}

	glyph, ok := renderGlyph(ttf, 'A')
	if !ok {
		t.Fatal("renderGlyph failed for 'A'")
	}
	defer glyph.Close()

	if glyph.Rows() != builderCanvas || glyph.Cols() != builderCanvas {
		t.Fatalf("canvas is %dx%d, want %dx%d",
			glyph.Cols(), glyph.Rows(), builderCanvas, builderCanvas)
	}
	if foreground := checkBinary(t, glyph); foreground == 0 {
		t.Error("expected foreground pixels for 'A'")
	}

	// A space has a zero-area bounding box and cannot contribute.
	if _, ok := renderGlyph(ttf, ' '); ok {
		t.Error("expected renderGlyph to reject a zero-area glyph")
	}
}
