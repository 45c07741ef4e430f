package tables

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/JennaRuan/scantables/model"
)

// tok is a helper to create a token at (left, top) with the given confidence
func tok(text string, left, top, conf int) model.Token {
	return model.Token{
		Text:       text,
		BBox:       model.NewBBox(left, top, 20, 8),
		Confidence: conf,
		Level:      model.LevelWord,
	}
}

func TestNewReconstructor(t *testing.T) {
	r := NewReconstructor()
	if r == nil {
		t.Fatal("NewReconstructor() returned nil")
	}
	if r.Name() != "bucket" {
		t.Errorf("Name() = %q, want 'bucket'", r.Name())
	}
	if r.Config() != DefaultConfig() {
		t.Errorf("Config() = %+v, want defaults", r.Config())
	}
}

func TestReconstructor_Configure(t *testing.T) {
	r := NewReconstructor()

	config := Config{MinConfidence: 80, RowTolerance: 15, Alignment: AlignByPosition, ColumnTolerance: 5}
	if err := r.Configure(config); err != nil {
		t.Fatalf("Configure() failed: %v", err)
	}
	if r.Config().RowTolerance != 15 {
		t.Errorf("RowTolerance = %d, want 15", r.Config().RowTolerance)
	}

	bad := []Config{
		{MinConfidence: 101, RowTolerance: 10},
		{MinConfidence: 60, RowTolerance: 0},
		{MinConfidence: 60, RowTolerance: 10, ColumnTolerance: -1},
		{MinConfidence: 60, RowTolerance: 10, Alignment: Alignment(9)},
	}
	for _, c := range bad {
		if err := r.Configure(c); err == nil {
			t.Errorf("Configure(%+v) should fail", c)
		}
	}
	if r.Config() != config {
		t.Error("failed Configure() must not change the active config")
	}
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		in      string
		want    Alignment
		wantErr bool
	}{
		{"", AlignByCount, false},
		{"count", AlignByCount, false},
		{" Position ", AlignByPosition, false},
		{"grid", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAlignment(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAlignment(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAlignment(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if AlignByPosition.String() != "position" {
		t.Errorf("String() = %q", AlignByPosition.String())
	}
}

func TestReconstruct_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		tokens []model.Token
		want   [][]string
	}{
		{
			name: "low confidence dropped, shared bucket",
			tokens: []model.Token{
				tok("OK", 10, 10, 90),
				tok("Wert", 60, 12, 80),
				tok("Bad", 5, 9, 40),
			},
			want: [][]string{{"OK", "Wert"}},
		},
		{
			name: "two buckets",
			tokens: []model.Token{
				tok("A", 0, 0, 99),
				tok("B", 0, 15, 99),
			},
			want: [][]string{{"A"}, {"B"}},
		},
		{
			name: "short row padded",
			tokens: []model.Token{
				tok("x", 0, 0, 99),
				tok("y", 50, 0, 99),
				tok("x", 0, 20, 99),
			},
			want: [][]string{{"x", "y"}, {"x", ""}},
		},
		{
			name: "boundary rounds down",
			tokens: []model.Token{
				tok("top", 0, 19, 99),
				tok("edge", 0, 20, 99),
				tok("same", 30, 29, 99),
			},
			want: [][]string{{"top", ""}, {"edge", "same"}},
		},
		{
			name: "confidence exactly at threshold dropped",
			tokens: []model.Token{
				tok("keep", 0, 0, 61),
				tok("drop", 40, 0, 60),
			},
			want: [][]string{{"keep"}},
		},
		{
			name: "whitespace normalized",
			tokens: []model.Token{
				tok("  Saldo \t final  ", 0, 0, 95),
			},
			want: [][]string{{"Saldo final"}},
		},
		{
			name: "rows visited top to bottom regardless of input order",
			tokens: []model.Token{
				tok("third", 0, 45, 95),
				tok("first", 0, 3, 95),
				tok("second", 0, 22, 95),
			},
			want: [][]string{{"first"}, {"second"}, {"third"}},
		},
		{
			name: "equal left offsets keep input order",
			tokens: []model.Token{
				tok("b", 10, 0, 95),
				tok("a", 10, 1, 95),
			},
			want: [][]string{{"b", "a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReconstructor()
			table := r.Reconstruct(tt.tokens, 100)
			if got := table.Strings(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Reconstruct() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReconstruct_Empty(t *testing.T) {
	r := NewReconstructor()

	inputs := map[string][]model.Token{
		"nil":             nil,
		"all low":         {tok("a", 0, 0, 10), tok("b", 0, 20, 60)},
		"all blank":       {tok("  ", 0, 0, 99), tok("", 10, 0, 99)},
		"structural only": {{Text: "", Confidence: model.NoConfidence, Level: model.LevelLine}},
	}

	for name, tokens := range inputs {
		t.Run(name, func(t *testing.T) {
			table := r.Reconstruct(tokens, 100)
			if table == nil {
				t.Fatal("Reconstruct() returned nil table")
			}
			if !table.IsEmpty() {
				t.Errorf("expected empty table, got %d rows", table.RowCount())
			}
		})
	}
}

func TestReconstruct_CellBBox(t *testing.T) {
	r := NewReconstructor()
	table := r.Reconstruct([]model.Token{tok("a", 5, 7, 99)}, 100)
	if got := table.Rows[0][0].BBox; got != model.NewBBox(5, 7, 20, 8) {
		t.Errorf("cell BBox = %+v", got)
	}
}

func TestReconstruct_RowTolerance(t *testing.T) {
	r := NewReconstructor()
	config := DefaultConfig()
	config.RowTolerance = 30
	if err := r.Configure(config); err != nil {
		t.Fatal(err)
	}

	table := r.Reconstruct([]model.Token{
		tok("A", 0, 0, 99),
		tok("B", 40, 15, 99),
		tok("C", 0, 31, 99),
	}, 100)

	want := [][]string{{"A", "B"}, {"C", ""}}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestReconstruct_NegativeTop(t *testing.T) {
	r := NewReconstructor()
	table := r.Reconstruct([]model.Token{
		tok("zero", 0, 0, 99),
		tok("neg", 0, -1, 99),
	}, 100)
	want := [][]string{{"neg"}, {"zero"}}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestReconstruct_NFC(t *testing.T) {
	r := NewReconstructor()
	// decomposed n + combining tilde
	table := r.Reconstruct([]model.Token{tok("An\u0303os", 0, 0, 99)}, 100)
	if got := table.Rows[0][0].Text; got != "A\u00f1os" {
		t.Errorf("cell = %q, want composed form", got)
	}
}

func TestReconstruct_AlignByPosition(t *testing.T) {
	r := NewReconstructor()
	config := DefaultConfig()
	config.Alignment = AlignByPosition
	config.ColumnTolerance = 10
	if err := r.Configure(config); err != nil {
		t.Fatal(err)
	}

	table := r.Reconstruct([]model.Token{
		tok("Cuenta", 0, 0, 99), tok("Debe", 100, 0, 99), tok("Haber", 200, 0, 99),
		tok("Caja", 2, 20, 99), tok("500", 205, 20, 99),
		tok("Banco", 1, 40, 99), tok("central", 40, 40, 99), tok("300", 98, 40, 99),
	}, 400)

	want := [][]string{
		{"Cuenta", "", "Debe", "Haber"},
		{"Caja", "", "", "500"},
		{"Banco", "central", "300", ""},
	}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
}

func TestReconstruct_AlignByPositionJoinsSharedBand(t *testing.T) {
	r := NewReconstructor()
	config := DefaultConfig()
	config.Alignment = AlignByPosition
	if err := r.Configure(config); err != nil {
		t.Fatal(err)
	}

	// imageWidth 500 derives a tolerance of 10 pixels
	table := r.Reconstruct([]model.Token{
		tok("Saldo", 0, 0, 99), tok("inicial", 8, 2, 99), tok("100", 200, 0, 99),
	}, 500)

	want := [][]string{{"Saldo inicial", "100"}}
	if got := table.Strings(); !reflect.DeepEqual(got, want) {
		t.Errorf("Reconstruct() = %q, want %q", got, want)
	}
	if got := table.Rows[0][0].BBox; got != model.NewBBox(0, 0, 28, 10) {
		t.Errorf("joined BBox = %+v", got)
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 10, 0}, {9, 10, 0}, {10, 10, 1}, {-1, 10, -1}, {-10, 10, -1}, {-11, 10, -2},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// randomTokens generates a reproducible token soup for invariant checks
func randomTokens(rng *rand.Rand, n int) []model.Token {
	words := []string{"Activo", "  Caja ", "1.234,56", "", " ", "Total  general", "x"}
	tokens := make([]model.Token, n)
	for i := range tokens {
		tokens[i] = model.Token{
			Text:       words[rng.Intn(len(words))],
			BBox:       model.NewBBox(rng.Intn(600), rng.Intn(300), 10+rng.Intn(40), 8),
			Confidence: rng.Intn(102) - 1,
		}
	}
	return tokens
}

func TestReconstruct_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	r := NewReconstructor()

	for iter := 0; iter < 200; iter++ {
		tokens := randomTokens(rng, rng.Intn(40))
		input := append([]model.Token(nil), tokens...)

		table := r.Reconstruct(tokens, 600)

		// Idempotence
		again := r.Reconstruct(input, 600)
		if !reflect.DeepEqual(table, again) {
			t.Fatalf("iteration %d: reconstruction is not deterministic", iter)
		}

		// Expected rows by bucket, built independently
		buckets := map[int][]model.Token{}
		for _, tk := range input {
			if strings.TrimSpace(tk.Text) == "" || tk.Confidence <= 60 {
				continue
			}
			buckets[floorDiv(tk.BBox.Top, 10)] = append(buckets[floorDiv(tk.BBox.Top, 10)], tk)
		}
		maxCols := 0
		for _, b := range buckets {
			maxCols = max(maxCols, len(b))
		}
		if table.RowCount() != len(buckets) {
			t.Fatalf("iteration %d: rows = %d, want %d", iter, table.RowCount(), len(buckets))
		}

		for i, rowCells := range table.Rows {
			// Column padding
			if len(rowCells) != maxCols {
				t.Fatalf("iteration %d: row %d has %d cells, want %d", iter, i, len(rowCells), maxCols)
			}
			for j, cell := range rowCells {
				// Whitespace normalization
				if strings.Contains(cell.Text, "  ") || strings.TrimSpace(cell.Text) != cell.Text {
					t.Fatalf("iteration %d: cell (%d,%d) = %q not normalized", iter, i, j, cell.Text)
				}
				// Ordering and row bucket
				if j > 0 && cell.Text != "" && rowCells[j-1].BBox.Left > cell.BBox.Left {
					t.Fatalf("iteration %d: row %d not ordered left to right", iter, i)
				}
				if cell.Text != "" && floorDiv(cell.BBox.Top, 10) != floorDiv(rowCells[0].BBox.Top, 10) {
					t.Fatalf("iteration %d: row %d mixes buckets", iter, i)
				}
			}
		}
	}
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	tokens := []model.Token{tok("b", 50, 0, 99), tok("a", 0, 0, 99)}
	r := NewReconstructor()
	r.Reconstruct(tokens, 100)
	if tokens[0].Text != "b" || tokens[1].Text != "a" {
		t.Errorf("input slice reordered: %+v", tokens)
	}
}
