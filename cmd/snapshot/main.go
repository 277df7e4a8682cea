package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"mercadona-parser-service/internal"
	"mercadona-parser-service/internal/configs"
	"mercadona-parser-service/internal/constants"
	"mercadona-parser-service/internal/core/domain"

	cli "github.com/jawher/mow.cli"
)

func main() {
	app := cli.App("snapshot", "Harvest the Mercadona catalogue and write one CSV snapshot per region and day")
	app.Spec = "[--single] [--date] [--env] [REGION...]"

	var (
		single  = app.BoolOpt("single", false, "harvest only the default warehouse into a flat, unregioned file")
		dateStr = app.StringOpt("date", "", "snapshot date YYYY-MM-DD (default: today in "+constants.SnapshotTimezone+")")
		envFile = app.StringOpt("env", "", "path to a .env file")
		regions = app.StringsArg("REGION", nil, "region keys to harvest (default: all regions)")
	)

	app.Action = func() {
		// cli.Exit завершает процесс сразу, поэтому освобождение ресурсов живет внутри runSnapshot
		if code := runSnapshot(*single, *dateStr, *envFile, *regions); code != 0 {
			cli.Exit(code)
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// runSnapshot выполняет запуск и возвращает код выхода; отложенные Close отрабатывают до выхода
func runSnapshot(single bool, dateStr, envFile string, regions []string) int {
	if single && len(regions) > 0 {
		fmt.Fprintln(os.Stderr, "Error: REGION arguments cannot be combined with --single")
		return 2
	}

	date, err := snapshotDate(dateStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := configs.LoadConfig(envFile)
	if err != nil {
		log.Printf("Error loading application configuration: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := internal.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("Failed to initialize application: %v", err)
		return 1
	}
	defer application.Close()

	stats, err := application.RunSnapshots(ctx, internal.SnapshotOptions{
		Single:  single,
		Date:    date,
		Regions: regions,
	})
	printStats(stats, application.RegionName)

	switch {
	case errors.Is(err, domain.ErrUnknownRegion):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	case err != nil:
		fmt.Fprintf(os.Stderr, "Snapshot run failed: %v\n", err)
		return 1
	case stats.Written == 0:
		fmt.Fprintln(os.Stderr, "No snapshot was written")
		return 1
	}
	return 0
}

// snapshotDate возвращает дату из флага или сегодняшнюю календарную дату по Мадриду
func snapshotDate(raw string) (time.Time, error) {
	if raw != "" {
		d, err := time.Parse(domain.DateLayout, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", raw)
		}
		return d, nil
	}
	loc, err := time.LoadLocation(constants.SnapshotTimezone)
	if err != nil {
		return time.Time{}, err
	}
	return domain.CalendarDate(time.Now().In(loc)), nil
}

func printStats(stats domain.RunStats, regionName func(key string) string) {
	for _, s := range stats.Summaries {
		scope := "(all)"
		if s.Scope.IsRegional() {
			scope = regionName(s.Scope.RegionKey)
		}
		path := s.Path
		if path == "" {
			path = "not written"
		}
		fmt.Printf("%-28s %7d records  %s\n", scope, s.Records, path)
	}
	fmt.Printf("regions=%d written=%d empty=%d failed=%d records=%d\n",
		stats.Regions, stats.Written, stats.Empty, stats.Failed, stats.Records)
}
