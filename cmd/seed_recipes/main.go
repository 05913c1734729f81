// Command seed_recipes loads recipes from a JSON or YAML file into the catalog.
//
//	seed_recipes --file recipes.yaml
//
// The file holds a list of {name, cooking_time, ingredients, description}
// entries. Every entry is validated before anything is written.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/logging"
	"github.com/pageza/cookbook/backend/internal/repository"
	"github.com/pageza/cookbook/backend/internal/service"
	"github.com/pageza/cookbook/backend/internal/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed_recipes",
		Usage: "Load recipes from a JSON or YAML file into the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   "recipes.json",
				Usage:   "Path to the seed file (.json, .yaml or .yml)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Validate the file without writing anything",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("file")
			recipes, err := readSeedFile(path)
			if err != nil {
				return fmt.Errorf("invalid seed file %q: %w", path, err)
			}
			if cmd.Bool("dry-run") {
				slog.Info("seed file is valid", "file", path, "recipes", len(recipes))
				return nil
			}
			return run(ctx, recipes)
		},
	}
}

func run(ctx context.Context, recipes []types.RecipeIn) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetDefault(logger)

	db, err := database.New(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.EnsureSchema(db); err != nil {
		return err
	}

	svc := service.NewRecipeService(repository.NewStore(db), logger)
	n, err := seed(ctx, svc, recipes, logger)
	if err != nil {
		return fmt.Errorf("seeding stopped after %d recipes: %w", n, err)
	}
	logger.Info("seeding complete", "recipes", n)
	return nil
}

// newValidator checks the same binding rules the HTTP layer enforces.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	return v
}

func readSeedFile(path string) ([]types.RecipeIn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return loadRecipes(f, formatOf(path), newValidator())
}

type seedFormat int

const (
	formatJSON seedFormat = iota
	formatYAML
)

func formatOf(path string) seedFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func loadRecipes(r io.Reader, format seedFormat, v *validator.Validate) ([]types.RecipeIn, error) {
	var recipes []types.RecipeIn
	var err error
	switch format {
	case formatYAML:
		err = yaml.NewDecoder(r).Decode(&recipes)
		if err == io.EOF {
			err = nil
		}
	default:
		err = json.NewDecoder(r).Decode(&recipes)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	for i := range recipes {
		if err := v.Struct(recipes[i]); err != nil {
			return nil, fmt.Errorf("recipe %d: %w", i, err)
		}
	}
	return recipes, nil
}

func seed(ctx context.Context, svc service.IRecipeService, recipes []types.RecipeIn, logger *slog.Logger) (int, error) {
	for i, in := range recipes {
		out, err := svc.CreateRecipe(ctx, in)
		if err != nil {
			return i, err
		}
		logger.Debug("seeded recipe", "recipe_id", out.ID, "name", out.Name)
	}
	return len(recipes), nil
}
