package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/zerodesign/zerodesign-backend/internal/app"
	"github.com/zerodesign/zerodesign-backend/internal/data/seed"
	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

func main() {
	file := flag.String("file", "reference.yaml", "reference data YAML file")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	ctx := context.Background()
	log, err := logger.New(app.LoadConfig(nil).LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	doc, err := seed.ParseFile(path)
	if err != nil {
		return err
	}

	a, err := app.NewWithConfig(ctx, log, app.LoadConfig(log))
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	counts, err := seed.NewLoader(a.DB, a.Repos.Reference, log).Load(ctx, doc)
	if err != nil {
		return err
	}
	log.Info("reference data loaded",
		"file", path,
		"fabrics", counts.Fabrics,
		"accessories", counts.Accessories,
		"processes", counts.Processes,
		"lifecycle", counts.Lifecycle,
	)
	return nil
}
