package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/megasena-sim/internal/chart"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/stats"
)

var (
	chartPath  string
	lookupNums []int
	topOnly    int
)

// frequencyCmd prints the frequency table
var frequencyCmd = &cobra.Command{
	Use:   "frequency <workbook.xlsx>",
	Short: "Show how often each number was drawn",
	Long: `Count every drawn ball inside the filter and print the numbers from
most to least frequent. With --numbers only the chosen numbers are shown,
zero counts included. --chart writes the same data as a PNG bar chart.`,
	Args: cobra.ExactArgs(1),
	RunE: runFrequency,
}

func init() {
	frequencyCmd.Flags().StringVar(&chartPath, "chart", "", "Write a PNG bar chart to this path")
	frequencyCmd.Flags().IntSliceVar(&lookupNums, "numbers", nil, "Only report these numbers (up to 6)")
	frequencyCmd.Flags().IntVar(&topOnly, "top", 0, "Only print the N most frequent numbers")
}

func runFrequency(cmd *cobra.Command, args []string) error {
	table, filter, err := loadFiltered(args[0])
	if err != nil {
		return err
	}

	entries := table.Entries()
	title := fmt.Sprintf("Number frequency, draws %d-%d", filter.MinDrawID, filter.MaxDrawID)
	if len(lookupNums) > 0 {
		if entries, err = table.Lookup(lookupNums); err != nil {
			return err
		}
		title = "Selected numbers"
	} else if topOnly > 0 && topOnly < len(entries) {
		entries = entries[:topOnly]
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d draws from %s to %s\n\n",
		table.Draws(), filter.StartDate.Format(models.DateLayout), filter.EndDate.Format(models.DateLayout))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Number\tFrequency\t")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%d\t\n", e.Number, e.Frequency)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(lookupNums) == 0 {
		s := stats.Summarize(table)
		fmt.Fprintf(out, "\nmean %.2f  std dev %.2f  min %d  max %d  chi-square %.2f\n",
			s.Mean, s.StdDev, s.Min, s.Max, s.ChiSquare)
	}

	if chartPath == "" {
		return nil
	}
	f, err := os.Create(chartPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if len(lookupNums) > 0 {
		opts := chart.DefaultOptions(title)
		opts.Width = opts.Height
		err = chart.Bars(f, entries, opts)
	} else {
		err = chart.Frequency(f, table, chart.DefaultOptions(title))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chart written to %s\n", chartPath)
	return nil
}
