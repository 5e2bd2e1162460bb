package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"houseprice/pkg/config"
	"houseprice/pkg/data"
	"houseprice/pkg/workflow"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "houseprice",
		Short:        "Sale price regression on the Ames housing data",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newMaterializeCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	l := logrus.New()
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l, nil
}

func newRunCmd() *cobra.Command {
	// flags may still repair an invalid environment; workflow.Run validates
	cfg, envErr := config.FromEnv()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Chart the data, fit the model and write the report",
		Long: `Materialize the sales dataset (or read --csv), draw the descriptive charts
and the sample map, split it 3/4 stratified on sale price, prepare the feature
recipe on the training set, fit least squares and report test set metrics.

Defaults come from HOUSEPRICE_* environment variables or a .env file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			_, err = workflow.Run(cmd.Context(), cfg, logger)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "Directory for charts and the report workbook")
	f.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "Read sales from a CSV file instead of materializing them")
	f.IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of sales to materialize")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for the dataset, the split and the map sample")
	f.Float64Var(&cfg.Prop, "prop", cfg.Prop, "Fraction of sales used for training")
	f.IntVar(&cfg.Breaks, "breaks", cfg.Breaks, "Quantile buckets of sale price used as strata")
	f.Float64Var(&cfg.OtherThreshold, "other-threshold", cfg.OtherThreshold, "Levels rarer than this in training are collapsed to other")
	f.IntVar(&cfg.Neighbors, "neighbors", cfg.Neighbors, "k of the nearest-neighbour baseline")
	f.IntVar(&cfg.SampleSize, "sample", cfg.SampleSize, "Sales drawn on the map, 0 to skip it")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	return cmd
}

func newMaterializeCmd() *cobra.Command {
	var (
		rows int
		seed int64
		out  string
	)
	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Write the synthetic sales dataset as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := data.Materialize(rows, seed)
			if err != nil {
				return err
			}
			if out == "-" {
				err = data.WriteCSV(os.Stdout, ds)
			} else {
				err = writeDataset(out, ds)
			}
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"rows": ds.Len(), "out": out}).Info("dataset written")
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", data.AmesRows, "Number of sales")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

// writeDataset writes ds as CSV to path. A failed close is reported.
func writeDataset(path string, ds *data.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return data.WriteCSV(f, ds)
}
