package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sqlseg/internal/adapter/export"
	"sqlseg/internal/adapter/fs"
	"sqlseg/internal/domain"
	"sqlseg/internal/segment"
	"sqlseg/internal/usecase"
)

var (
	convertWhole  bool
	convertDryRun bool
	convertCSV    string
	convertOut    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a PL/SQL script to PySpark block by block",
	Long: `Segment a PL/SQL script and translate every block through the
configured LLM provider, preserving block order. A block whose call
fails is retried once and then recorded with its error instead of
stopping the pass. With --whole the original script is additionally
converted in a single call as a unified alternative.

Examples:
  sqlseg convert migration.sql
  sqlseg convert migration.sql --whole --out migration.py
  sqlseg convert migration.sql --csv mapping.csv
  cat migration.sql | sqlseg convert - --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertWhole, "whole", false, "also convert the unsegmented script in one call")
	convertCmd.Flags().BoolVar(&convertDryRun, "dry-run", false, "use the mock converter instead of a live provider")
	convertCmd.Flags().StringVar(&convertCSV, "csv", "", "write the block-to-output mapping to a CSV file")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "write the whole-script conversion to a file")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := cmd.Context()

	source := args[0]
	var script string
	var err error

	if source == "-" {
		script, err = fs.ReadScript("-", os.Stdin)
		source = "stdin"
	} else {
		source, err = filepath.Abs(source)
		if err == nil {
			script, err = fs.ReadScript(source, nil)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	converter, err := newConverter(cfg, convertDryRun)
	if err != nil {
		return err
	}

	st, err := openAuditStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	seg := segment.New(segment.Options{
		MaxChunkSize:  cfg.Segment.MaxChunkSize,
		SmallFragment: cfg.Segment.SmallFragment,
		MergeCeiling:  cfg.Segment.MergeCeiling,
	})
	segUC := usecase.NewSegmentUseCase(st, nil, seg)

	res, err := segUC.SegmentScript(source, script)
	if err != nil {
		return fmt.Errorf("segmentation failed: %w", err)
	}
	fmt.Printf("Segmented %s into %d blocks\n", res.Source, len(res.Blocks))

	convUC := usecase.NewConvertUseCase(converter, st)

	result, err := convUC.ConvertBlocks(ctx, res.RunID, res.Blocks, newProgress("Converting"))
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if convertWhole {
		fmt.Println("Converting whole script...")
		result.WholeScript, err = convUC.ConvertWhole(ctx, script)
		if err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
	}

	printConversionSummary(result)

	csvPath := convertCSV
	if csvPath == "" {
		csvPath = cfg.Export.CSV
	}
	if csvPath != "" {
		if err := writeMappingCSV(csvPath, res, result); err != nil {
			return err
		}
		fmt.Printf("Mapping written to: %s\n", csvPath)
	}

	if convertOut != "" {
		if result.WholeScript == "" {
			return fmt.Errorf("--out requires --whole")
		}
		if err := os.WriteFile(convertOut, []byte(result.WholeScript), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertOut, err)
		}
		fmt.Printf("Whole-script output written to: %s\n", convertOut)
	}

	return nil
}

func printConversionSummary(result *domain.ConversionResult) {
	fmt.Printf("\nConversion complete:\n")
	fmt.Printf("  Model:     %s\n", result.Model)
	fmt.Printf("  Converted: %d\n", result.Converted)
	fmt.Printf("  Failed:    %d\n", result.Failed)

	var totalTokens int
	for _, rec := range result.Records {
		totalTokens += rec.TotalTokens
	}
	if totalTokens > 0 {
		fmt.Printf("  Tokens:    %d\n", totalTokens)
	}

	if result.Failed > 0 {
		fmt.Printf("\nFailed blocks:\n")
		for _, rec := range result.Records {
			if !rec.OK {
				fmt.Printf("  - block %d: %s\n", rec.Seq, strings.TrimSpace(rec.Reason))
			}
		}
	}
}

func writeMappingCSV(path string, res usecase.FileResult, result *domain.ConversionResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteMapping(f, res.Blocks, result.Records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
