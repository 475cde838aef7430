package exporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"mepscan/internal/arbitrage"
)

// WriteTable renders the report as an aligned text table, followed by
// the summary callouts. This is the CLI's human-readable output.
func WriteTable(w io.Writer, report *arbitrage.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	bidAsk := usesBidAsk(report.Mode)
	printRow(tw, headers(bidAsk))
	for _, row := range report.Rows {
		printRow(tw, record(row, bidAsk))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := report.Summary
	_, err := fmt.Fprintf(w,
		"\n%d instruments matched (%d local, %d foreign records); reference rate %.2f; gap range %+.2f%% to %+.2f%%\n",
		s.MatchedRecords, s.LocalRecords, s.ForeignRecords,
		report.ReferenceRate, s.MinGapPercent, s.MaxGapPercent)
	return err
}

func printRow(w io.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, f)
	}
	fmt.Fprintln(w)
}
