package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/StoreDirectory/internal/config"
	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/JonMunkholm/StoreDirectory/internal/loader"
	"github.com/JonMunkholm/StoreDirectory/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	source     string
	schemaFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "storedir",
		Short: "Search and inspect a store directory dataset",
		Long: `storedir loads a store directory CSV and prints matching stores.

The dataset location comes from --source, or DATASET_SOURCE when the flag
is not set. Paths, file://, http(s)://, s3:// and postgres:// locations are
supported; a location ending in .lz4 is decompressed.

Examples:
  storedir search springfield
  storedir filter --country canada --market east
  storedir show 12 --source s3://exports/stores.csv.lz4
  storedir stats`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			_ = godotenv.Load()

			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.source, "source", "s", "", "dataset location (default: $DATASET_SOURCE)")
	pf.StringVar(&opts.schemaFile, "schema", "", "YAML column mapping (default: $SCHEMA_FILE)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log load progress to stderr")

	root.AddCommand(
		newSearchCmd(opts),
		newFilterCmd(opts),
		newStatsCmd(opts),
		newShowCmd(opts),
		newSkippedCmd(opts),
	)
	return root
}

// load performs one load attempt with the flag values layered over the
// environment configuration.
func (o *options) load(ctx context.Context) (core.View, error) {
	var dc config.DatasetConfig
	if err := config.LoadSection(&dc); err != nil {
		return core.View{}, err
	}
	if o.source != "" {
		dc.Source = o.source
	}
	if o.schemaFile != "" {
		dc.SchemaFile = o.schemaFile
	}

	schema, err := core.LoadSchema(dc.SchemaFile)
	if err != nil {
		return core.View{}, err
	}

	ld, err := loader.New(dc)
	if err != nil {
		return core.View{}, err
	}
	defer ld.Close()

	svc, err := core.NewService(ld, schema)
	if err != nil {
		return core.View{}, err
	}
	if _, err := svc.Load(ctx); err != nil {
		return core.View{}, fmt.Errorf("%s: %w", core.FormatUserError(err), err)
	}
	return svc.View()
}
