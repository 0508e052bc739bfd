package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/khanhnv2901/headerguard/internal/history"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analyses",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		if appCtx == nil {
			return errors.New("application context not initialised")
		}
		if historyLimit < 0 {
			return &InvalidFlagError{Flag: "limit", Value: strconv.Itoa(historyLimit), Reason: "must not be negative"}
		}

		store, err := history.NewStore(appCtx.ResultsDir)
		if err != nil {
			return err
		}
		records, err := store.List(historyLimit)
		if err != nil {
			return err
		}
		return printHistory(cmd.OutOrStdout(), records)
	},
}

func printHistory(out io.Writer, records []history.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(out, "No analyses recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tURL\tOUTCOME\tRESULT\tISSUES\tDURATION")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2fs\n",
			rec.Timestamp.Local().Format("2006-01-02 15:04:05"),
			displayURL(rec.URL),
			formatOutcomeWithColor(rec.Outcome),
			historyResult(rec),
			rec.IssueCount,
			rec.DurationSeconds)
	}
	return w.Flush()
}

func displayURL(url string) string {
	if url == "" {
		return "-"
	}
	return url
}

func historyResult(rec history.Record) string {
	switch {
	case rec.Error != "":
		return rec.Error
	case rec.WarningType != "":
		return colorInfo(rec.WarningType)
	case rec.Score != nil:
		return fmt.Sprintf("%d (%s)", *rec.Score, formatOutcomeWithColor(rec.Tier))
	default:
		return "-"
	}
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of most recent analyses to show (0 = all)")
}
