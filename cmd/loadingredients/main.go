// Command loadingredients imports ingredient reference data from a CSV
// file with "name,measurement_unit" rows. Rows that already exist are
// skipped, so the import is safe to re-run.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/domain/recipe"
	"github.com/foodgram/backend/internal/infrastructure/config"
	gormrepo "github.com/foodgram/backend/internal/infrastructure/persistence/gorm"
	"github.com/foodgram/backend/internal/ports/outbound"
	"github.com/foodgram/backend/pkg/logger"
)

func main() {
	var (
		filePath   = flag.String("file", "ingredients.csv", "path to the CSV file")
		configPath = flag.String("config", "", "path to the config file")
	)
	flag.Parse()

	if err := run(*filePath, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(filePath, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := gormrepo.Open(cfg, log)
	if err != nil {
		return err
	}
	ingredients := gormrepo.NewIngredientRepository(db)

	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer f.Close()

	created, skipped, err := load(context.Background(), ingredients, f)
	if err != nil {
		return err
	}

	log.Info("ingredient import finished",
		zap.Int("created", created),
		zap.Int("skipped", skipped),
	)
	return nil
}

func load(ctx context.Context, ingredients outbound.IngredientRepository, src io.Reader) (created, skipped int, err error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = 2

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, skipped, fmt.Errorf("failed to read CSV: %w", err)
		}

		ingredient := &recipe.Ingredient{
			Name:            record[0],
			MeasurementUnit: record[1],
		}
		if err := ingredients.Create(ctx, ingredient); err != nil {
			if errors.Is(err, outbound.ErrDuplicate) {
				skipped++
				continue
			}
			return created, skipped, fmt.Errorf("failed to create %q: %w", record[0], err)
		}
		created++
	}
	return created, skipped, nil
}
