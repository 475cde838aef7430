package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mepscan/internal/arbitrage"
	"mepscan/internal/exporter"
	"mepscan/internal/quotes"
)

func main() {
	localPath := flag.String("local", "", "path to the peso quotes workbook (.xlsx)")
	foreignPath := flag.String("foreign", "", "path to the dollar quotes workbook (.xlsx)")
	referenceRate := flag.Float64("rate", 0, "reference exchange rate, e.g. the MEP close")
	mode := flag.String("mode", "last-price", "pricing mode: last-price, bid-ask-average or bid-ask-directional")
	view := flag.String("view", "all", "rows to show: all, cheaper or expensive")
	threshold := flag.Float64("threshold", arbitrage.DefaultThresholds().Strong, "gap percentage below which a row is flagged as a strong opportunity")
	csvPath := flag.String("csv", "", "also write the report as CSV to this path")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *localPath == "" || *foreignPath == "" {
		fmt.Fprintln(os.Stderr, "both -local and -foreign workbook paths are required")
		flag.Usage()
		os.Exit(2)
	}
	if *referenceRate <= 0 {
		fmt.Fprintln(os.Stderr, "-rate must be a positive reference exchange rate")
		os.Exit(2)
	}

	pricingMode, err := quotes.ParsePricingMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -mode: %v\n", err)
		os.Exit(2)
	}
	reportView, err := arbitrage.ParseView(*view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -view: %v\n", err)
		os.Exit(2)
	}

	localFile, err := os.ReadFile(*localPath)
	if err != nil {
		logger.Error("failed to read local workbook", "path", *localPath, "error", err)
		os.Exit(1)
	}
	foreignFile, err := os.ReadFile(*foreignPath)
	if err != nil {
		logger.Error("failed to read foreign workbook", "path", *foreignPath, "error", err)
		os.Exit(1)
	}

	thresholds := arbitrage.Thresholds{Strong: *threshold}
	pipeline := arbitrage.NewPipeline(pricingMode, thresholds, logger)

	report, err := pipeline.Run(context.Background(), localFile, foreignFile, *referenceRate, reportView)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	if err := exporter.WriteTable(os.Stdout, report); err != nil {
		logger.Error("failed to write table", "error", err)
		os.Exit(1)
	}

	if *csvPath != "" {
		out, err := os.Create(*csvPath)
		if err != nil {
			logger.Error("failed to create CSV file", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		// BOM so Excel renders the accented headers correctly.
		if err := exporter.WriteCSV(out, report, exporter.CSVOptions{BOMPrefix: true}); err != nil {
			out.Close()
			logger.Error("failed to write CSV", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		if err := out.Close(); err != nil {
			logger.Error("failed to close CSV file", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		logger.Info("CSV report written", "path", *csvPath)
	}
}
