package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v2"

	"github.com/bigredeye/gradebook/internal/models"
)

type seedGrade struct {
	Name  string  `yaml:"name"`
	Score float64 `yaml:"score"`
}

func parseSeed(data []byte) ([]models.Grade, error) {
	entries := []seedGrade{}
	if err := yaml.UnmarshalStrict(data, &entries); err != nil {
		return nil, errors.Wrap(err, "Failed to unmarshal seed file")
	}

	grades := make([]models.Grade, 0, len(entries))
	for _, entry := range entries {
		grades = append(grades, models.Grade{Name: entry.Name, Score: entry.Score})
	}
	return grades, nil
}

func makeSeedCommand() *cobra.Command {
	var file string
	var parallel int64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create grades listed in a yaml file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seedGrades(cmd.Context(), file, parallel)
		},
	}
	cmd.Flags().StringVar(&file, "file", "grades.yaml", "Yaml list of {name, score}")
	cmd.Flags().Int64Var(&parallel, "parallel", 4, "Concurrent requests")

	return cmd
}

func seedGrades(ctx context.Context, file string, parallel int64) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(err, "Failed to read seed file")
	}
	grades, err := parseSeed(data)
	if err != nil {
		return err
	}

	client := newClient()
	s := semaphore.NewWeighted(parallel)
	g, ctx := errgroup.WithContext(ctx)
	for i := range grades {
		grade := &grades[i]
		if err := s.Acquire(ctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer s.Release(1)
			saved, err := client.SaveGrade(grade)
			if err != nil {
				return errors.Wrapf(err, "Failed to save %q", grade.Name)
			}
			log.Debug("Seeded grade", zap.Uint("id", saved.ID), zap.String("name", saved.Name))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Seeded grades", zap.Int("count", len(grades)))
	return nil
}
