package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dennisdiepolder/callboard/internal/chart"
	"github.com/dennisdiepolder/callboard/internal/storage"
	"github.com/dennisdiepolder/callboard/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		email string
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard charts as SVG files",
		Long:  "Write the duration, volume and failure charts as SVG files. With --email the failure chart uses that user's saved data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			setLogLevel(os.Getenv("LOG_LEVEL"))

			store, err := storage.NewStore(cmd.Context(), storage.LoadStoreConfig(), log.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			files, err := exportCharts(cmd.Context(), store, email, dir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "load failure reasons saved under this email")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	return cmd
}

// exportCharts renders every chart into dir and returns the written paths
func exportCharts(ctx context.Context, store storage.Store, email, dir string) ([]string, error) {
	data := chart.Dataset{
		Duration:       types.DefaultCallDuration(),
		Volume:         types.DefaultCallVolume(),
		FailureReasons: types.DefaultFailureReasons(),
	}

	if email != "" {
		record, err := store.Find(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("failed to load data for %s: %w", email, err)
		}
		if !record.ChartData.Valid() {
			return nil, fmt.Errorf("record for %s has no failure reasons", email)
		}
		data.FailureReasons = record.ChartData.FailureReasons
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var files []string
	for _, name := range chart.Names {
		path := filepath.Join(dir, name+".svg")
		if err := writeChart(path, name, data); err != nil {
			return nil, err
		}
		log.Debug().Str("chart", name).Str("path", path).Msg("chart written")
		files = append(files, path)
	}
	return files, nil
}

func writeChart(path, name string, data chart.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := chart.Render(f, name, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
