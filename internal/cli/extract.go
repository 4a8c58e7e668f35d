package cli

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"sundarban-extract/internal/config"
	"sundarban-extract/internal/earthengine"
	"sundarban-extract/internal/export"
	"sundarban-extract/internal/extract"
	"sundarban-extract/internal/region"
)

var extractCmd = &cobra.Command{
	Use:   "extract [variable]...",
	Short: "Extract windowed time series for one or more variables",
	Long: `Extract selects each variable's dataset from the compute gateway,
aggregates it into fixed-length windows over the configured date range,
and writes one delimited file per variable into the output directory.

A variable that fails mid-run still produces its file, holding only the
header row; the remaining variables are processed regardless. An
interrupt stops the run before the next file is written.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().Bool("all", false, "extract every registered variable")
	extractCmd.Flags().String("start", "", "start date (YYYY-MM-DD, default "+config.DefaultStartDate+")")
	extractCmd.Flags().String("end", "", "end date (YYYY-MM-DD, default "+config.DefaultEndDate+")")
	extractCmd.Flags().Int("resolution", 0, "window length in days (default per variable)")
	extractCmd.Flags().String("region-file", "", "GeoJSON file with the region of interest")
	extractCmd.Flags().String("region-bbox", "", "bounding box minLon,minLat,maxLon,maxLat, reduced to its centroid")
	extractCmd.Flags().String("out-dir", "", "output directory (default from OUTPUT_DIR)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	vars, err := resolveVariables(args, all)
	if err != nil {
		return err
	}

	start, end, err := resolveDates(cmd)
	if err != nil {
		return err
	}

	roi, err := resolveRegion(cmd)
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = cfg.OutputDir
	}
	resolution, _ := cmd.Flags().GetInt("resolution")

	client := earthengine.NewClient(earthengine.Options{
		BaseURL:      cfg.GatewayURL,
		AccessToken:  cfg.AccessToken,
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Timeout:      cfg.HTTPTimeout,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Authenticate(ctx); err != nil {
		return fmt.Errorf("earth engine session: %w", err)
	}

	selector := extract.NewSelector(client, logger)
	aggregator := extract.NewAggregator(logger)

	for _, v := range vars {
		res := v.ResolutionDays
		if resolution > 0 {
			res = resolution
		}

		logger.Info("extracting variable",
			"variable", v.Name,
			"dataset", v.Dataset,
			"band", v.Band,
			"start", start.Format(config.DateLayout),
			"end", end.Format(config.DateLayout),
			"resolution_days", res,
		)

		coll := selector.Select(extract.SelectionParams{
			Dataset: v.Dataset,
			Band:    v.Band,
			Start:   start,
			End:     end,
			Region:  roi,
			Scale:   v.ScaleMeters,
		})
		table := aggregator.Aggregate(ctx, coll, extract.AggregationParams{
			Band:           v.Band,
			Start:          start,
			End:            end,
			ResolutionDays: res,
			Region:         roi,
			Scale:          v.ScaleMeters,
		})

		// A cancelled run must not truncate output files with the empty
		// tables its failed reductions produce.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("extraction interrupted: %w", err)
		}

		outPath := filepath.Join(outDir, v.OutputFile)
		if err := export.WriteFile(outPath, table); err != nil {
			return fmt.Errorf("writing %s: %w", v.Name, err)
		}
		logSummary(v, table, outPath)
	}
	return nil
}

// resolveVariables maps command-line names onto registry entries,
// preserving registry order for --all and argument order otherwise.
func resolveVariables(args []string, all bool) ([]config.Variable, error) {
	if all {
		if len(args) > 0 {
			return nil, fmt.Errorf("--all cannot be combined with variable names")
		}
		return config.Variables(), nil
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("specify at least one variable or --all (see 'sundarban-extract variables')")
	}

	seen := make(map[string]bool)
	var out []config.Variable
	for _, name := range args {
		if seen[name] {
			continue
		}
		seen[name] = true
		v, ok := config.VariableByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown variable %q (see 'sundarban-extract variables')", name)
		}
		out = append(out, v)
	}
	return out, nil
}

func resolveDates(cmd *cobra.Command) (time.Time, time.Time, error) {
	start, end := cfg.StartDate, cfg.EndDate

	if s, _ := cmd.Flags().GetString("start"); s != "" {
		parsed, err := config.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
		}
		start = parsed
	}
	if s, _ := cmd.Flags().GetString("end"); s != "" {
		parsed, err := config.ParseDate(s)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
		end = parsed
	}
	return start, end, nil
}

// resolveRegion picks the region of interest: flags first, then the
// configured file, then zero, which the selection layer maps to the
// built-in Sundarbans default.
func resolveRegion(cmd *cobra.Command) (region.Region, error) {
	file, _ := cmd.Flags().GetString("region-file")
	bbox, _ := cmd.Flags().GetString("region-bbox")
	if file != "" && bbox != "" {
		return region.Region{}, fmt.Errorf("--region-file and --region-bbox are mutually exclusive")
	}
	if bbox != "" {
		return region.ParseBBox(bbox)
	}
	if file == "" {
		file = cfg.RegionFile
	}
	if file != "" {
		return region.FromGeoJSONFile(file)
	}
	return region.Region{}, nil
}

// logSummary reports the per-variable outcome: row counts and basic
// statistics over the valid values.
func logSummary(v config.Variable, t extract.Table, path string) {
	valid := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Value != nil {
			valid = append(valid, *row.Value)
		}
	}

	attrs := []any{
		"variable", v.Name,
		"rows", len(t.Rows),
		"valid", len(valid),
		"missing", len(t.Rows) - len(valid),
		"output", path,
	}
	if len(valid) > 0 {
		mean, _ := stats.Mean(valid)
		minimum, _ := stats.Min(valid)
		maximum, _ := stats.Max(valid)
		attrs = append(attrs, "mean", mean, "min", minimum, "max", maximum)
	}
	logger.Info("variable extraction complete", attrs...)
}
