package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sqlseg/config"
	"sqlseg/internal/adapter/store"
)

var runsShowText bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded segmentation runs",
	Long: `List the segmentation runs recorded in the audit store, newest last.
Use "runs show <id>" to inspect the blocks and conversion outcomes of
one run.`,
	RunE: runRuns,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the blocks and conversions of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsShowCmd.Flags().BoolVar(&runsShowText, "text", false, "print the full text of every block")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openAuditStoreReadOnly() (*store.BoltStore, error) {
	st, err := store.NewBoltStore(config.AuditDBPath(GetRootDir()))
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}
	return st, nil
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, err := openAuditStoreReadOnly()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'sqlseg segment' first.")
		return nil
	}

	fmt.Printf("%-18s %-7s %-7s %-20s %s\n", "RUN", "BLOCKS", "BUDGET", "CREATED", "SOURCE")
	for _, r := range runs {
		fmt.Printf("%-18s %-7d %-7d %-20s %s\n",
			r.ID, r.BlockCount, r.Budget, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Source)
	}
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	st, err := openAuditStoreReadOnly()
	if err != nil {
		return err
	}
	defer st.Close()

	id := args[0]

	run, err := st.GetRun(id)
	if err != nil {
		return fmt.Errorf("run %s not found: %w", id, err)
	}

	fmt.Printf("Run:     %s\n", run.ID)
	fmt.Printf("Source:  %s\n", run.Source)
	fmt.Printf("Budget:  %d chars\n", run.Budget)
	fmt.Printf("Blocks:  %d\n", run.BlockCount)
	fmt.Printf("Created: %s\n\n", run.CreatedAt.Format("2006-01-02 15:04:05"))

	blocks, err := st.GetBlocks(id)
	if err != nil {
		return fmt.Errorf("failed to load blocks: %w", err)
	}
	for _, b := range blocks {
		fmt.Printf("  #%-3d %-16s %4d lines %6d chars  %s\n",
			b.Seq, b.Type, b.Lines, b.Chars, b.FirstLine(60))
	}
	if runsShowText {
		for _, b := range blocks {
			fmt.Printf("\n--- Block %d (%s, %d chars) ---\n%s\n", b.Seq, b.Type, b.Chars, b.Text)
		}
	}

	records, err := st.GetConversions(id)
	if err != nil || len(records) == 0 {
		return nil
	}

	fmt.Printf("\nConversions:\n")
	for _, rec := range records {
		status := "ok"
		if !rec.OK {
			status = "FAILED: " + rec.Reason
		}
		fmt.Printf("  #%-3d %6d tokens  %s\n", rec.Seq, rec.TotalTokens, status)
	}
	return nil
}
