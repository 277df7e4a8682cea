package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"mercadona-parser-service/internal"
	"mercadona-parser-service/internal/configs"

	cli "github.com/jawher/mow.cli"
)

func main() {
	app := cli.App("compare", "Compare two Mercadona snapshots and report price movements")
	app.Spec = "BASELINE CURRENT"

	var (
		baseline = app.StringArg("BASELINE", "", "baseline (day0) snapshot CSV")
		current  = app.StringArg("CURRENT", "", "current (dayX) snapshot CSV")
	)

	app.Action = func() {
		if code := runCompare(*baseline, *current); code != 0 {
			cli.Exit(code)
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runCompare возвращает код выхода после того, как отработали отложенные Close
func runCompare(baselinePath, currentPath string) int {
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Printf("Error loading application configuration: %v", err)
		return 1
	}

	compareApp, err := internal.NewCompareApp(cfg)
	if err != nil {
		log.Printf("Failed to initialize comparator: %v", err)
		return 1
	}
	defer compareApp.Close()

	if err := compareApp.Run(context.Background(), os.Stdout, baselinePath, currentPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
