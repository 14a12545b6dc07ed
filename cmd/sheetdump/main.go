package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"sheetmetrics/internal/config"
	"sheetmetrics/internal/dataprocessing"
	apperrors "sheetmetrics/internal/errors"
	"sheetmetrics/internal/exporter"
	"sheetmetrics/internal/infrastructure"
	"sheetmetrics/internal/services"
	"sheetmetrics/internal/sheets"
	"sheetmetrics/pkg/contracts/domain"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "sheetdump: %v\n", err)
		if apperrors.IsKind(err, apperrors.KindConfig) {
			fmt.Fprintln(os.Stderr, "sheetdump: set SHEET_ID and API_KEY, or pass -csv / -xlsx")
		}
		os.Exit(1)
	}
}

// options holds the parsed command line
type options struct {
	csvPath  string
	xlsxPath string
	sheet    string
	format   string
	outPath  string
	bom      bool
	level    string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}

	fs := flag.NewFlagSet("sheetdump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.csvPath, "csv", "", "read the grid from a CSV export instead of the Sheets API")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "read the grid from an xlsx download instead of the Sheets API")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read with -xlsx (defaults to the first)")
	fs.StringVar(&opts.format, "format", "json", "json | csv")
	fs.StringVar(&opts.outPath, "o", "", "write to this file instead of stdout")
	fs.BoolVar(&opts.bom, "bom", false, "prefix CSV output with a UTF-8 BOM for Excel")
	fs.StringVar(&opts.level, "log-level", "warn", "debug | info | warn | error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch {
	case opts.format != "json" && opts.format != "csv":
		return nil, fmt.Errorf("unsupported format %q", opts.format)
	case opts.csvPath != "" && opts.xlsxPath != "":
		return nil, errors.New("-csv and -xlsx are mutually exclusive")
	case opts.bom && opts.format != "csv":
		return nil, errors.New("-bom requires -format csv")
	case opts.sheet != "" && opts.xlsxPath == "":
		return nil, errors.New("-sheet requires -xlsx")
	}
	return opts, nil
}

// run transforms a CSV export (-csv), an xlsx download (-xlsx) or the live
// sheet, and writes the envelope as indented JSON or flattened CSV (-format)
// to stdout or -o.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger := infrastructure.NewJSONLogger(stderr, opts.level)

	var envelope *domain.MetricsEnvelope
	switch {
	case opts.csvPath != "":
		envelope, err = fromFile(opts.csvPath, logger, func() ([]string, [][]string, error) {
			f, err := os.Open(opts.csvPath)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open csv: %w", err)
			}
			defer f.Close()
			return dataprocessing.ReadCSV(f)
		})
	case opts.xlsxPath != "":
		envelope, err = fromFile(opts.xlsxPath, logger, func() ([]string, [][]string, error) {
			return dataprocessing.ReadXLSX(opts.xlsxPath, opts.sheet)
		})
	default:
		envelope, err = fromSheet(ctx, logger)
	}
	if err != nil {
		return err
	}

	if opts.format == "csv" {
		return writeCSV(opts, envelope, stdout, logger)
	}
	return writeJSON(opts, envelope, stdout)
}

func fromFile(path string, logger *slog.Logger, read func() ([]string, [][]string, error)) (*domain.MetricsEnvelope, error) {
	headers, rows, err := read()
	if err != nil {
		return nil, err
	}

	envelope, stats := dataprocessing.NewTransformer().Transform(headers, rows)
	logger.Info("file transformed",
		slog.String("path", path),
		slog.Int("rows", stats.Rows),
		slog.Int("skipped_rows", stats.SkippedRows),
		slog.Int("metrics", stats.Metrics))

	return envelope, nil
}

func fromSheet(ctx context.Context, logger *slog.Logger) (*domain.MetricsEnvelope, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	client, err := sheets.NewClient(ctx, cfg.Sheets, sheets.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return services.NewMetricsService(client, cfg.Sheets, logger).GetMetrics(ctx)
}

func writeCSV(opts *options, envelope *domain.MetricsEnvelope, stdout io.Writer, logger *slog.Logger) error {
	writeOpts, err := exporter.EnvelopeOptions(envelope)
	if err != nil {
		return err
	}
	writeOpts.BOMPrefix = opts.bom

	w := exporter.NewCSVWriter(logger)
	if opts.outPath != "" {
		return w.WriteFile(opts.outPath, writeOpts)
	}
	return w.Write(stdout, writeOpts)
}

func writeJSON(opts *options, envelope *domain.MetricsEnvelope, stdout io.Writer) error {
	out := stdout
	if opts.outPath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.outPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		f, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}
