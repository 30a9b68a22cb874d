package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitts-dev/megasena-sim/internal/sampler"
	"github.com/stitts-dev/megasena-sim/internal/services"
	"github.com/stitts-dev/megasena-sim/pkg/config"
)

var (
	ticketCount int
	ticketSize  int
	seed        int64
	outPath     string
)

// simulateCmd draws frequency-weighted tickets
var simulateCmd = &cobra.Command{
	Use:   "simulate <workbook.xlsx>",
	Short: "Generate tickets weighted by historical frequency",
	Long: `Draw tickets of distinct numbers where each number's chance is
proportional to how often it came out inside the filter. Numbers never
drawn in the range cannot be picked.

Tickets are printed one per line. With --out they are also exported; the
format follows the file extension (.csv, .pdf or .xlsx).`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVarP(&ticketCount, "count", "n", 1, "Number of tickets (1-50)")
	simulateCmd.Flags().IntVar(&ticketSize, "size", sampler.DefaultTicketSize, "Numbers per ticket")
	simulateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 seeds from the clock)")
	simulateCmd.Flags().StringVarP(&outPath, "out", "o", "", "Export tickets to a .csv, .pdf or .xlsx file")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	if ticketCount < 1 || ticketCount > config.TicketCeiling {
		return fmt.Errorf("--count must be between 1 and %d, got %d", config.TicketCeiling, ticketCount)
	}

	exporter := services.NewExportService()
	var format string
	if outPath != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
		if _, err := exporter.Format(format); err != nil {
			return err
		}
	}

	table, _, err := loadFiltered(args[0])
	if err != nil {
		return err
	}

	result, err := sampler.NewSeeded(seed).Generate(table.Weights(), ticketCount, ticketSize)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, t := range result.Tickets {
		fmt.Fprintf(out, "Ticket %d: %s\n", i+1, t.String())
	}
	if result.Completed == 0 {
		return result.Err()
	}
	if result.PartialSuccess {
		fmt.Fprintf(cmd.ErrOrStderr(), "only %d of %d tickets generated: %v\n",
			result.Completed, result.TotalRequested, result.Err())
	}

	if outPath == "" {
		return nil
	}
	data, err := exporter.ExportTickets(result.Tickets, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(out, "%d tickets exported to %s\n", len(result.Tickets), outPath)
	return nil
}
