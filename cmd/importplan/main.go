// Command importplan reads training plans from YAML documents and saves them
// for a profile. Missing ids are assigned; every plan is validated before it
// is written.
//
//	importplan [-config liftplan.yaml] -profile <id> plan.yaml [plan.yaml ...]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phrazzld/liftplan/internal/config"
	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/phrazzld/liftplan/internal/platform/logger"
	"github.com/phrazzld/liftplan/internal/platform/sqlstore"
	"github.com/phrazzld/liftplan/internal/service"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides LIFTPLAN_CONFIG)")
	profileID := flag.String("profile", "", "profile that will own the imported plans")
	flag.Parse()

	if *profileID == "" || flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: importplan [-config file] -profile <id> plan.yaml [plan.yaml ...]")
		os.Exit(2)
	}

	if err := run(context.Background(), *configPath, *profileID, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "importplan: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, profileID string, paths []string, out io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := sqlstore.Open(ctx, cfg.Database, l)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ids, err := idgen.New(cfg.IDs.Strategy)
	if err != nil {
		return err
	}

	repos := sqlstore.NewRepositories(db, l)
	plans, err := service.NewPlanService(db, service.Stores{
		Exercises: repos.Exercises,
		Groups:    repos.Groups,
		Sessions:  repos.Sessions,
		Plans:     repos.Plans,
		Cycles:    repos.Cycles,
	}, ids, nil, l)
	if err != nil {
		return err
	}

	return importPlans(ctx, plans, profileID, paths, out, l)
}

// importPlans creates one plan per file and prints the new ids. It stops at
// the first file that fails; plans saved before it stay saved.
func importPlans(
	ctx context.Context,
	plans service.PlanService,
	profileID string,
	paths []string,
	out io.Writer,
	log *slog.Logger,
) error {
	for _, path := range paths {
		data, err := readPlan(path)
		if err != nil {
			return err
		}

		plan, err := plans.CreatePlan(ctx, profileID, data)
		if err != nil {
			var verr *service.ValidationFailedError
			if errors.As(err, &verr) {
				for _, issue := range verr.Issues {
					fmt.Fprintf(out, "%s: %s: %s (%s)\n", path, issue.Path, issue.Message, issue.Code)
				}
			}
			return fmt.Errorf("failed to import %s: %w", path, err)
		}

		log.Info("training plan imported",
			slog.String("file", path),
			slog.String("plan_id", plan.ID()),
			slog.Int("session_count", len(plan.Sessions())))
		fmt.Fprintf(out, "%s\t%s\n", plan.ID(), plan.Name())
	}
	return nil
}

// readPlan decodes a plan document. Unknown keys are rejected so typos do
// not silently drop configuration.
func readPlan(path string) (domain.TrainingPlanData, error) {
	var data domain.TrainingPlanData

	f, err := os.Open(path)
	if err != nil {
		return data, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&data); err != nil {
		return data, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return data, nil
}
