package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/warp/loan-schedule/loan"
)

// checkFormat rejects an output format render doesn't support.
func checkFormat(format string) error {
	switch format {
	case "json", "table", "":
		return nil
	default:
		return fmt.Errorf("unknown format %q, use table or json", format)
	}
}

// render writes s to w as an aligned table or as JSON.
func render(w io.Writer, s loan.Schedule, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return renderTable(w, s)
}

func renderTable(w io.Writer, s loan.Schedule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Period\tAnnuity\tInterest\tAmortization\tAmortized\tPending cap.\t")
	for _, r := range s.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Period, r.Amount, r.Interest, r.Amortization, r.Amortized, r.Remaining)
	}
	fmt.Fprintf(tw, "Total\t%s\t%s\t\t\t\t\n", s.TotalPaid(), s.TotalInterest())
	return tw.Flush()
}
