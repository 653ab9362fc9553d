// Command cli analyzes a local CSV or Excel file and prints the ranked
// insights to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"datalens/adapters/tabular"
	"datalens/internal/config"
	"datalens/internal/engine"
)

func main() {
	filePath := flag.String("file", "", "path to a CSV or Excel file")
	showNotes := flag.Bool("notes", false, "also print not-applicable notes")
	flag.Parse()

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: cli -file data.csv [-notes]")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	eng, err := engine.New(cfg.Analysis)
	if err != nil {
		log.Fatalf("Failed to build analysis engine: %v", err)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer f.Close()

	ds, err := tabular.NewReader().Read(f, *filePath)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	report, err := eng.Analyze(context.Background(), ds)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	fmt.Printf("Analyzed %d rows x %d columns (run %s)\n\n",
		report.Quality.Summary.RowCount, report.Quality.Summary.ColumnCount, report.RunID)

	if len(report.Insights) == 0 {
		fmt.Println("No insights above the configured thresholds.")
	}
	for i, ins := range report.Insights {
		fmt.Printf("%2d. [%s/%s] %s\n", i+1, ins.Severity, ins.Category, ins.Message)
	}

	if *showNotes {
		for category, note := range report.Notes {
			fmt.Printf("\n(%s) %s\n", category, note)
		}
	}
}
