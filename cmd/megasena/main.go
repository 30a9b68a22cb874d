package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/megasena-sim/internal/draws"
	"github.com/stitts-dev/megasena-sim/internal/models"
	"github.com/stitts-dev/megasena-sim/internal/stats"
	"github.com/stitts-dev/megasena-sim/pkg/logger"
)

var (
	// Global flags
	verbose    bool
	sheet      string
	headerRows int

	// Filter flags
	fromDraw  int
	toDraw    int
	startDate string
	endDate   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "megasena",
	Short: "Explore Mega-Sena draw history from the command line",
	Long: `megasena reads a results workbook, reports how often each number
was drawn and simulates frequency-weighted tickets.

Every command takes the workbook path as its first argument and accepts
the same draw-id and date filters as the dashboard.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.InitLogger(level, "", true).SetOutput(os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&sheet, "sheet", draws.DefaultSheet, "Worksheet holding the draws")
	rootCmd.PersistentFlags().IntVar(&headerRows, "header-rows", draws.DefaultHeaderRows, "Banner rows above the column header")

	rootCmd.PersistentFlags().IntVar(&fromDraw, "from", 0, "First draw id (default: first in the workbook)")
	rootCmd.PersistentFlags().IntVar(&toDraw, "to", 0, "Last draw id (default: last in the workbook)")
	rootCmd.PersistentFlags().StringVar(&startDate, "start", "", "First draw date, YYYY-MM-DD")
	rootCmd.PersistentFlags().StringVar(&endDate, "end", "", "Last draw date, YYYY-MM-DD")

	rootCmd.AddCommand(frequencyCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadFiltered parses the workbook at path and applies the filter flags.
func loadFiltered(path string) (*stats.Table, models.Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, models.Filter{}, err
	}
	defer f.Close()

	records, report, err := draws.ParseWorkbook(f, draws.ParseOptions{
		Sheet:      sheet,
		HeaderRows: headerRows,
		Logger:     logger.GetLogger(),
	})
	if err != nil {
		return nil, models.Filter{}, err
	}
	logger.GetLogger().WithFields(logrus.Fields{
		"loaded":  report.Loaded,
		"dropped": report.Dropped,
	}).Info("Workbook parsed")

	store := draws.NewStore(nil)
	ds, err := store.Replace(records, path, report)
	if err != nil {
		return nil, models.Filter{}, err
	}

	filter, err := filterFromFlags()
	if err != nil {
		return nil, models.Filter{}, err
	}
	filter = filter.Clamp(ds.Bounds())
	if err := filter.Validate(); err != nil {
		return nil, models.Filter{}, err
	}

	return stats.Count(stats.FilterDraws(ds.Draws, filter)), filter, nil
}

func filterFromFlags() (models.Filter, error) {
	f := models.Filter{MinDrawID: fromDraw, MaxDrawID: toDraw}
	var err error
	if startDate != "" {
		if f.StartDate, err = time.Parse(models.DateLayout, startDate); err != nil {
			return f, fmt.Errorf("%w: --start: %v", models.ErrInvalidFilter, err)
		}
	}
	if endDate != "" {
		if f.EndDate, err = time.Parse(models.DateLayout, endDate); err != nil {
			return f, fmt.Errorf("%w: --end: %v", models.ErrInvalidFilter, err)
		}
	}
	return f, nil
}
