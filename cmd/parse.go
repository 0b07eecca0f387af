package cmd

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibrahim/dsstorekit/internal/config"
	"github.com/nibrahim/dsstorekit/internal/report"
	"github.com/nibrahim/dsstorekit/internal/scan"
	"github.com/nibrahim/dsstorekit/internal/source"
	"github.com/nibrahim/dsstorekit/internal/store"
)

var (
	parseSource string
	parseOut    string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Recursively parse .DS_Store files and write classified TSV reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&parseSource, "source", "s", "", "root path to recursively search for *.ds_store* files (required)")
	parseCmd.Flags().StringVarP(&parseOut, "out", "o", "", "output directory for the TSV reports (required)")
	_ = parseCmd.MarkFlagRequired("source")
	_ = parseCmd.MarkFlagRequired("out")
}

func runParse(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("parse: failed to load configuration: %w", err)
	}

	w, err := report.Open(parseOut, cfg.ReportTimestampFormat, timeNow())
	if err != nil {
		return fmt.Errorf("parse: failed to open reports: %w", err)
	}
	defer w.Close()

	workers := cfg.ScanWorkers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	var firstErr error

	err = scan.Walk(parseSource, func(found scan.Found) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if found.Stat.IsEmptyStore {
			mu.Lock()
			werr := w.WriteEmptyStore(found.Stat)
			mu.Unlock()
			return werr
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(stat scan.FileStat) {
			defer wg.Done()
			defer func() { <-sem }()

			if GetVerbose() {
				log.Printf("DS_Store Found: %s", stat.Path)
			}

			if err := parseOneStore(stat.Path, w, &mu); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				log.Printf("parse: %v", err)
			}
		}(found.Stat)

		return nil
	})
	wg.Wait()

	if err != nil {
		return fmt.Errorf("parse: scan failed: %w", err)
	}
	return firstErr
}

func parseOneStore(path string, w *report.Writer, mu *sync.Mutex) error {
	src, err := source.OpenFile(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	s, err := store.Open(src)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer s.Close()

	records, err := s.Entries(func(nodeID uint32, err error) {
		log.Printf("%s: node %d: %v", path, nodeID, err)
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", path, err)
	}

	mu.Lock()
	defer mu.Unlock()
	for _, rec := range records {
		if err := w.WriteRecord(path, rec); err != nil {
			return fmt.Errorf("failed to write record for %s: %w", path, err)
		}
	}
	return nil
}

// timeNow returns the wall-clock time used to stamp the report filenames.
func timeNow() time.Time {
	return time.Now()
}
