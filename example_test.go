package scantables_test

import (
	"context"
	"fmt"
	"log"

	"github.com/JennaRuan/scantables"
	"github.com/JennaRuan/scantables/config"
)

// These examples verify the README code samples compile correctly.
// They are not meant to be run as actual tests since they require files
// and external tools.

func Example_extractTable() {
	ctx := context.Background()

	table, warnings, err := scantables.Open("balance.pdf").Table(ctx)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(table.ToCSV())

	for _, w := range warnings {
		fmt.Println("Warning:", w)
	}
}

func Example_extractWithOptions() {
	ctx := context.Background()

	table, warnings, err := scantables.Open("balance.pdf").
		Languages("spa").            // Spanish only
		MaxPages(3).                 // First three pages
		MinConfidence(70).           // Drop doubtful words
		ColumnAlignment("position"). // Keep columns aligned by x position
		Table(ctx)
	_ = table
	_ = warnings
	_ = err
}

func Example_save() {
	ctx := context.Background()

	// The format follows the extension: .csv, .xlsx, .html or .md
	warnings, err := scantables.Open("balance.pdf").Save(ctx, "balance.xlsx")
	_ = warnings
	_ = err
}

func Example_batch() {
	ctx := context.Background()

	cfg, err := config.Load("scantables.yaml")
	if err != nil {
		log.Fatal(err)
	}

	report, err := scantables.Convert(ctx, cfg, nil, "a.pdf", "b.pdf")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(report.Summary())
}
