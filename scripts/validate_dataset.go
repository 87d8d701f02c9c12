package main

// Script to validate the need and surplus source files before deployment.
// Loads both tables through the same code path as the server and prints a
// summary, so schema problems surface here instead of at startup.
//
// Usage:
//   go run scripts/validate_dataset.go --need data/ihtiyac_data.xlsx --surplus data/norm_fazlasi.xlsx

import (
	"flag"
	"fmt"
	"os"

	"normatlas/internal/adapters/config"
	"normatlas/internal/adapters/dataset"
	"normatlas/internal/analysis"
	"normatlas/pkg/logger"
)

func main() {
	needPath := flag.String("need", "data/ihtiyac_data.xlsx", "Path to the need table (.xlsx or .csv)")
	surplusPath := flag.String("surplus", "data/norm_fazlasi.xlsx", "Path to the surplus table (.xlsx or .csv)")
	flag.Parse()

	if err := logger.Init("warn", "development"); err != nil {
		fmt.Printf("Error: failed to init logger: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Dataset Validation Tool")
	fmt.Println("=======================")
	fmt.Printf("Need table:    %s\n", *needPath)
	fmt.Printf("Surplus table: %s\n", *surplusPath)
	fmt.Println("")

	tables, err := dataset.Load(config.DatasetConfig{
		NeedPath:    *needPath,
		SurplusPath: *surplusPath,
	}, logger.Get())
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	engine := analysis.NewEngine(tables)

	justified := 0
	for _, r := range tables.Surpluses() {
		if r.Justified() {
			justified++
		}
	}

	fmt.Printf("Need rows:       %d (total need %d)\n", len(tables.Needs()), engine.NeedSum(nil, nil))
	fmt.Printf("Surplus rows:    %d (%d justified, %d unjustified)\n",
		len(tables.Surpluses()), justified, len(tables.Surpluses())-justified)
	fmt.Printf("Districts:       %d\n", len(tables.Districts()))
	fmt.Printf("Branches:        %d\n", len(tables.Branches()))
	fmt.Println("")

	fmt.Println("Districts:")
	for _, d := range tables.Districts() {
		fmt.Printf("  - %s\n", d)
	}

	fmt.Println("")
	fmt.Println("OK: both tables match the expected schema")
}
