package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/internal/models"
)

func makeListCommand() *cobra.Command {
	var keyword string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List grades, optionally filtered by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listGrades(keyword)
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "Substring of the name")

	return cmd
}

func listGrades(keyword string) error {
	grades, err := newClient().ListGrades(keyword)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSCORE")
	for _, grade := range grades {
		fmt.Fprintf(w, "%d\t%s\t%s\n", grade.ID, grade.Name, strconv.FormatFloat(grade.Score, 'f', -1, 64))
	}
	return w.Flush()
}

func makeAddCommand() *cobra.Command {
	var grade models.Grade
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a grade, or overwrite it when --id is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return addGrade(&grade)
		},
	}
	cmd.Flags().UintVar(&grade.ID, "id", 0, "Grade id")
	cmd.Flags().StringVar(&grade.Name, "name", "", "Student name")
	cmd.Flags().Float64Var(&grade.Score, "score", 0, "Score in [0, 100]")

	return cmd
}

func addGrade(grade *models.Grade) error {
	saved, err := newClient().SaveGrade(grade)
	if err != nil {
		return err
	}

	log.Info("Saved grade",
		zap.Uint("id", saved.ID),
		zap.String("name", saved.Name),
		zap.Float64("score", saved.Score),
	)
	return nil
}

func makeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID...",
		Short: "Delete grades",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uint, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseUint(arg, 10, 0)
				if err != nil {
					return fmt.Errorf("invalid id %q", arg)
				}
				ids = append(ids, uint(id))
			}
			return removeGrades(ids)
		},
	}
}

func removeGrades(ids []uint) error {
	if err := newClient().DeleteGrades(ids...); err != nil {
		return err
	}
	log.Info("Deleted grades", zap.Uints("ids", ids))
	return nil
}
