package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/StoreDirectory/internal/core"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "List stores whose name, number, city, market, team or country contains the query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			return renderResults(cmd.OutOrStdout(), v.Search(strings.Join(args, " ")))
		},
	}
}

// filterFlags maps flag names to filter fields.
var filterFlags = []struct {
	flag  string
	field core.Field
	usage string
}{
	{"country", core.FieldCountry, "country/region contains"},
	{"market-team", core.FieldMarketTeam, "market team name contains"},
	{"market", core.FieldMarket, "market contains"},
	{"store-name", core.FieldStoreName, "store name contains"},
	{"city", core.FieldCity, "city contains"},
	{"store-number", core.FieldStoreNumber, "store number contains"},
}

func newFilterCmd(opts *options) *cobra.Command {
	values := make(map[core.Field]*string, len(filterFlags))

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List stores matching every given field filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			c := make(core.Criteria, len(values))
			for f, val := range values {
				c[f] = *val
			}
			return renderResults(cmd.OutOrStdout(), v.Filter(c))
		},
	}

	for _, ff := range filterFlags {
		values[ff.field] = cmd.Flags().String(ff.flag, "", ff.usage)
	}
	return cmd
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print counts over the whole dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			return renderStats(cmd.OutOrStdout(), v)
		},
	}
}

func newShowCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <pos>",
		Short: "Print every detail of the store at a dataset position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("position %q: %w", args[0], core.ErrStoreNotFound)
			}
			v, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := v.Master.At(pos)
			if err != nil {
				return fmt.Errorf("position %d: %w", pos, err)
			}
			return renderDetail(cmd.OutOrStdout(), v.Schema.Detail(rec))
		},
	}
}

func newSkippedCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "skipped",
		Short: "List rows dropped because their field count did not match the header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			return renderSkipped(cmd.OutOrStdout(), v.Master.Skipped)
		},
	}
}
