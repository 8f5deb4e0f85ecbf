package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"sqlseg/config"
	"sqlseg/internal/adapter/export"
	"sqlseg/internal/adapter/fs"
	"sqlseg/internal/adapter/store"
	"sqlseg/internal/segment"
	"sqlseg/internal/usecase"
)

var (
	segmentBudget  int
	segmentShow    bool
	segmentCSV     string
	segmentNoStore bool
)

var segmentCmd = &cobra.Command{
	Use:   "segment [path]",
	Short: "Split PL/SQL scripts into bounded blocks",
	Long: `Split a PL/SQL script into ordered blocks that each stay within the
configured size budget while remaining syntactically self-contained.
Pass a file, a directory (walked with the configured include patterns),
or "-" to read a script from standard input.

Examples:
  sqlseg segment migration.sql           # Segment one script
  sqlseg segment ./scripts               # Segment every matching file
  cat migration.sql | sqlseg segment -   # Segment from stdin
  sqlseg segment migration.sql --show    # Print each block in full`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSegment,
}

func init() {
	segmentCmd.Flags().IntVar(&segmentBudget, "budget", 0, "block size budget in characters (overrides config)")
	segmentCmd.Flags().BoolVar(&segmentShow, "show", false, "print the full text of every block")
	segmentCmd.Flags().StringVar(&segmentCSV, "csv", "", "write the block breakdown to a CSV file")
	segmentCmd.Flags().BoolVar(&segmentNoStore, "no-store", false, "do not record this run in the audit store")
	rootCmd.AddCommand(segmentCmd)
}

func runSegment(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path := GetRootDir()
	if len(args) > 0 {
		path = args[0]
	}

	seg := segment.New(segmentOptions(cfg))

	st, err := openAuditStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	walker := fs.NewWalker(cfg.Segment.Includes, cfg.Segment.Excludes)
	segUC := usecase.NewSegmentUseCase(st, walker, seg)

	var results []usecase.FileResult

	if path == "-" {
		script, err := fs.ReadScript("-", os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := segUC.SegmentScript("stdin", script)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("path does not exist: %w", err)
		}

		if info.IsDir() {
			results, err = segUC.SegmentTree(abs, newProgress("Segmenting"))
		} else {
			script, rerr := fs.ReadScript(abs, nil)
			if rerr != nil {
				return fmt.Errorf("failed to read %s: %w", abs, rerr)
			}
			var res usecase.FileResult
			res, err = segUC.SegmentScript(abs, script)
			results = append(results, res)
		}
		if err != nil {
			return fmt.Errorf("segmentation failed: %w", err)
		}
	}

	for _, res := range results {
		printFileResult(res, seg.Budget())
	}

	if segmentCSV != "" {
		if len(results) != 1 {
			return fmt.Errorf("--csv requires a single input file, got %d", len(results))
		}
		if err := writeBlocksCSV(segmentCSV, results[0]); err != nil {
			return err
		}
		fmt.Printf("\nBlock breakdown written to: %s\n", segmentCSV)
	}

	return nil
}

// segmentOptions maps config thresholds onto segmenter options,
// letting --budget override the configured chunk size.
func segmentOptions(cfg *config.Config) segment.Options {
	opts := segment.Options{
		MaxChunkSize:  cfg.Segment.MaxChunkSize,
		SmallFragment: cfg.Segment.SmallFragment,
		MergeCeiling:  cfg.Segment.MergeCeiling,
	}
	if segmentBudget > 0 {
		opts.MaxChunkSize = segmentBudget
	}
	return opts
}

// openAuditStore opens the run store under the root directory,
// creating the work directory when needed. Returns nil when the
// caller asked not to record the run.
func openAuditStore() (*store.BoltStore, error) {
	if segmentNoStore {
		return nil, nil
	}
	dir := GetRootDir()
	if err := config.EnsureWorkDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	st, err := store.NewBoltStore(config.AuditDBPath(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}
	return st, nil
}

func printFileResult(res usecase.FileResult, budget int) {
	fmt.Printf("\n%s\n", res.Source)
	if res.RunID != "" {
		fmt.Printf("Run: %s\n", res.RunID)
	}
	fmt.Printf("Blocks: %d (budget %d chars)\n\n", len(res.Blocks), budget)

	for _, b := range res.Blocks {
		fmt.Printf("  #%-3d %-16s %4d lines %6d chars  %s\n",
			b.Seq, b.Type, b.Lines, b.Chars, b.FirstLine(60))
	}

	if segmentShow {
		for _, b := range res.Blocks {
			fmt.Printf("\n--- Block %d (%s, %d chars) ---\n%s\n", b.Seq, b.Type, b.Chars, b.Text)
		}
	}
}

func writeBlocksCSV(path string, res usecase.FileResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteBlocks(f, res.Blocks); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// newProgress builds a progress callback backed by a terminal bar.
func newProgress(verb string) usecase.ProgressFunc {
	var bar *progressbar.ProgressBar
	var startTime time.Time

	return func(processed, total int, current string) {
		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", verb)),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 && processed < total {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]%s[reset] ETA: %s", verb, formatDuration(eta)))
			}
		}
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
