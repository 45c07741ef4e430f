package scantables

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/JennaRuan/scantables/internal/pdftest"
	"github.com/JennaRuan/scantables/model"
	"github.com/JennaRuan/scantables/raster"
)

// ============================================================================
// Test Fakes
// ============================================================================

// whitePages renders one white page per width. A zero width yields a nil
// image, which enhancement rejects.
type whitePages struct {
	widths []int
	opts   raster.Options
}

func (w *whitePages) Name() string { return "white" }

func (w *whitePages) Rasterize(ctx context.Context, path string, opts raster.Options) ([]raster.Page, error) {
	w.opts = opts
	var out []raster.Page
	for i, width := range w.widths {
		var img image.Image
		if width > 0 {
			g := image.NewGray(image.Rect(0, 0, width, 30))
			for j := range g.Pix {
				g.Pix[j] = 255
			}
			img = g
		}
		out = append(out, raster.Page{Index: i, Image: img})
	}
	return out, nil
}

// tokensByWidth returns the tokens registered for the image width
type tokensByWidth map[int][]model.Token

func (t tokensByWidth) Name() string { return "fixed" }

func (t tokensByWidth) Recognize(ctx context.Context, img image.Image) ([]model.Token, error) {
	return t[img.Bounds().Dx()], nil
}

func word(text string, left, top, conf int) model.Token {
	return model.Token{Text: text, BBox: model.NewBBox(left, top, 10, 10), Confidence: conf, Level: model.LevelWord}
}

var balance = []model.Token{
	word("Cuenta", 10, 0, 96),
	word("Saldo", 70, 3, 93),
	word("Caja", 10, 21, 91),
	word("1.000", 70, 22, 88),
}

func openFake(t *testing.T, widths []int, tokens tokensByWidth) (*Extractor, *whitePages) {
	t.Helper()
	path := pdftest.Write(t, "balance.pdf", len(widths))
	r := &whitePages{widths: widths}
	return Open(path).WithRasterizer(r).WithEngine(tokens), r
}

// ============================================================================
// Configuration Tests
// ============================================================================

func TestOpenDefaults(t *testing.T) {
	cfg := Open("x.pdf").Config()
	if cfg.MaxPages != 1 {
		t.Errorf("MaxPages = %d, want 1", cfg.MaxPages)
	}
	if !reflect.DeepEqual(cfg.OCR.Languages, []string{"spa", "eng"}) {
		t.Errorf("Languages = %v, want [spa eng]", cfg.OCR.Languages)
	}
}

func TestExtractorImmutable(t *testing.T) {
	base := Open("x.pdf")
	spa := base.Languages("spa")
	all := spa.AllPages().DPI(300)

	if got := base.Config().OCR.Languages; len(got) != 2 {
		t.Errorf("base languages changed to %v", got)
	}
	if got := spa.Config(); got.MaxPages != 1 || got.Raster.DPI != 200 {
		t.Errorf("spa config changed: max pages %d, dpi %d", got.MaxPages, got.Raster.DPI)
	}
	if got := all.Config(); got.MaxPages != 0 || got.Raster.DPI != 300 {
		t.Errorf("all config = max pages %d, dpi %d", got.MaxPages, got.Raster.DPI)
	}

	// Mutating a returned config must not leak back
	cfg := spa.Config()
	cfg.OCR.Languages[0] = "deu"
	if spa.Config().OCR.Languages[0] != "spa" {
		t.Error("Config() shares its language slice")
	}
}

func TestExtractorInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		ext  *Extractor
	}{
		{"no languages", Open("x.pdf").Languages()},
		{"zero pages", Open("x.pdf").MaxPages(0)},
		{"negative dpi", Open("x.pdf").DPI(-1)},
		{"zero row tolerance", Open("x.pdf").RowTolerance(0)},
		{"bad alignment", Open("x.pdf").ColumnAlignment("diagonal")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := tt.ext.Table(context.Background()); err == nil {
				t.Error("expected error")
			}
			if _, err := tt.ext.PageCount(); err == nil {
				t.Error("expected PageCount error")
			}
		})
	}
}

func TestFirstErrorWins(t *testing.T) {
	ext := Open("x.pdf").MaxPages(0).DPI(-1)
	_, _, err := ext.Table(context.Background())
	if err == nil || !strings.Contains(err.Error(), "max pages") {
		t.Errorf("error = %v, want the max pages error", err)
	}
}

// ============================================================================
// Extraction Tests
// ============================================================================

func TestOpenMissingFile(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "nope.pdf")).Table(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

func TestTable(t *testing.T) {
	ext, r := openFake(t, []int{120}, tokensByWidth{120: balance})

	table, warnings, err := ext.Table(context.Background())
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %s", FormatWarnings(warnings))
	}
	want := [][]string{{"Cuenta", "Saldo"}, {"Caja", "1.000"}}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Table() = %v, want %v", got, want)
	}
	if r.opts.MaxPages != 1 || r.opts.DPI != 200 {
		t.Errorf("raster options = %+v", r.opts)
	}
}

func TestTableMinConfidence(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{120: balance})

	table, _, err := ext.MinConfidence(90).Table(context.Background())
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	want := [][]string{{"Cuenta", "Saldo"}, {"Caja", ""}}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Table() = %v, want %v", got, want)
	}
}

func TestTableAllPagesWarnings(t *testing.T) {
	ext, r := openFake(t, []int{120, 0, 80}, tokensByWidth{120: balance})

	doc, warnings, err := ext.AllPages().Document(context.Background())
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	if r.opts.MaxPages != 0 {
		t.Errorf("MaxPages = %d, want 0", r.opts.MaxPages)
	}
	if doc.PageCount != 3 {
		t.Errorf("PageCount = %d, want 3", doc.PageCount)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %s, want 2", FormatWarnings(warnings))
	}
	if warnings[0].Page != 2 || warnings[0].Err == nil {
		t.Errorf("warnings[0] = %+v, want skipped page 2", warnings[0])
	}
	if warnings[1].Page != 3 || warnings[1].Message != "no table found" {
		t.Errorf("warnings[1] = %+v, want empty page 3", warnings[1])
	}
	if doc.Table().RowCount() != 2 {
		t.Errorf("Table() rows = %d, want 2", doc.Table().RowCount())
	}
}

func TestTokens(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{120: balance})

	tokens, _, err := ext.Tokens(context.Background())
	if err != nil {
		t.Fatalf("Tokens() failed: %v", err)
	}
	if len(tokens) != len(balance) {
		t.Errorf("Tokens() = %d tokens, want %d", len(tokens), len(balance))
	}
}

// ============================================================================
// Save Tests
// ============================================================================

func TestSaveCSV(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{120: balance})
	out := filepath.Join(t.TempDir(), "out", "balance.csv")

	if _, err := ext.Save(context.Background(), out); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "\ufeffCuenta,Saldo\nCaja,1.000\n"
	if string(data) != want {
		t.Errorf("Save() wrote %q, want %q", data, want)
	}
}

func TestSaveMarkdownByExtension(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{120: balance})
	out := filepath.Join(t.TempDir(), "balance.md")

	if _, err := ext.Save(context.Background(), out); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "| Cuenta | Saldo |") {
		t.Errorf("Save() wrote %q, want a markdown table", data)
	}
}

func TestSaveNoTable(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{})
	out := filepath.Join(t.TempDir(), "balance.csv")

	_, err := ext.Save(context.Background(), out)
	if !errors.Is(err, ErrNoTable) {
		t.Fatalf("Save() error = %v, want ErrNoTable", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written without a table")
	}
}

func TestSaveUnknownExtension(t *testing.T) {
	ext, _ := openFake(t, []int{120}, tokensByWidth{120: balance})
	if _, err := ext.Save(context.Background(), filepath.Join(t.TempDir(), "out.pdf")); err == nil {
		t.Error("expected error for unknown output extension")
	}
}

// ============================================================================
// Helper Tests
// ============================================================================

func TestPageCount(t *testing.T) {
	path := pdftest.Write(t, "three.pdf", 3)
	if got := Must(Open(path).PageCount()); got != 3 {
		t.Errorf("PageCount() = %d, want 3", got)
	}
}

func TestMustTablePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustTable(nil, nil, errors.New("boom"))
}

func TestFormatWarnings(t *testing.T) {
	warnings := []Warning{
		{Page: 2, Message: "preprocessing failed, page skipped", Err: errors.New("empty image")},
		{Message: "document note"},
	}
	want := "page 2: preprocessing failed, page skipped: empty image; document note"
	if got := FormatWarnings(warnings); got != want {
		t.Errorf("FormatWarnings() = %q, want %q", got, want)
	}
}

func TestConvertInvalidConfig(t *testing.T) {
	cfg := Open("x.pdf").Config()
	cfg.Workers = -3
	cfg.Raster.Backend = "laser"
	if _, err := Convert(context.Background(), cfg, nil); err == nil {
		t.Error("expected error for unknown backend")
	}
}
