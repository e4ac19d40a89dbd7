package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/internal/sheet"
)

func makeExportCommand() *cobra.Command {
	var keyword string
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download grades into an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = sheet.FileName(keyword)
			}
			return exportGrades(keyword, output)
		},
	}
	cmd.Flags().StringVar(&keyword, "keyword", "", "Substring of the name")
	cmd.Flags().StringVar(&output, "output", "", "Output file (derived from keyword by default)")

	return cmd
}

func exportGrades(keyword, output string) error {
	grades, err := newClient().ListGrades(keyword)
	if err != nil {
		return err
	}

	file, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "Failed to create output file")
	}
	defer file.Close()

	if err := sheet.Export(file, grades); err != nil {
		return err
	}
	log.Info("Exported grades", zap.String("output", output), zap.Int("count", len(grades)))
	return file.Close()
}
